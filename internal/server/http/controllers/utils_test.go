package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseOffset(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"7", 7},
		{"-3", 0},
		{"banana", 0},
		{"1.5", 0},
		{"00042", 42},
	}
	for _, tc := range cases {
		if got := parseOffset(tc.raw); got != tc.want {
			t.Errorf("parseOffset(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestWriteJSONHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, map[string]int{"n": 1})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestWriteErrorBody(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, http.StatusNotFound, "Log not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Log not found" {
		t.Fatalf("error = %q, want Log not found", body["error"])
	}
}

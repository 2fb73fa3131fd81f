package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	cfgpkg "github.com/rzbill/ralphmc/internal/config"
	"github.com/rzbill/ralphmc/internal/runtime"
	logpkg "github.com/rzbill/ralphmc/pkg/log"
)

func newServerForTest(t *testing.T) (*Server, cfgpkg.Config) {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.LogDir = t.TempDir()
	cfg.Stream.PollIntervalMs = 5
	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logpkg.NewNopLogger()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	return New(rt, logpkg.NewNopLogger()), cfg
}

func writeLog(t *testing.T, cfg cfgpkg.Config, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cfg.LogDir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func appendLog(t *testing.T, cfg cfgpkg.Config, name, contents string) {
	t.Helper()
	f, err := os.OpenFile(filepath.Join(cfg.LogDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		t.Fatalf("append %s: %v", name, err)
	}
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

// streamEvent mirrors the wire shape of one tail frame.
type streamEvent struct {
	Index int             `json:"index"`
	Event json.RawMessage `json:"event"`
}

// readSSEEvent reads frames until the next data frame, skipping keepalive
// comments and blank separators.
func readSSEEvent(t *testing.T, br *bufio.Reader) streamEvent {
	t.Helper()
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev streamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("decode frame %q: %v", line, err)
		}
		return ev
	}
}

func TestHealth(t *testing.T) {
	s, _ := newServerForTest(t)

	w := doRequest(t, s, http.MethodGet, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Status        string `json:"status"`
		LogDirPresent bool   `json:"logDirPresent"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" || !body.LogDirPresent {
		t.Fatalf("body = %+v, want status ok with logDirPresent", body)
	}
}

func TestCurrentLogSnapshot(t *testing.T) {
	s, cfg := newServerForTest(t)
	writeLog(t, cfg, cfg.CurrentLog, "{\"a\":1}\n\nnot json\n{\"a\":2}\n")

	w := doRequest(t, s, http.MethodGet, "/api/log")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", cc)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", origin)
	}

	var records []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (undecodable lines skipped)", len(records))
	}
	if records[0]["a"] != float64(1) || records[1]["a"] != float64(2) {
		t.Fatalf("records = %v, want a:1 then a:2", records)
	}
}

func TestCurrentLogMissingFile(t *testing.T) {
	s, _ := newServerForTest(t)

	w := doRequest(t, s, http.MethodGet, "/api/log")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want empty array", got)
	}
}

func TestCurrentLogFilter(t *testing.T) {
	s, cfg := newServerForTest(t)
	writeLog(t, cfg, cfg.CurrentLog, "{\"level\":\"info\"}\n{\"level\":\"error\"}\n")

	target := "/api/log?" + url.Values{"filter": {`json.level == "error"`}}.Encode()
	w := doRequest(t, s, http.MethodGet, target)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var records []map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(records) != 1 || records[0]["level"] != "error" {
		t.Fatalf("records = %v, want one error record", records)
	}
}

func TestCurrentLogBadFilter(t *testing.T) {
	s, _ := newServerForTest(t)

	target := "/api/log?" + url.Values{"filter": {"((("}}.Encode()
	w := doRequest(t, s, http.MethodGet, target)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("body = %v, want error message", body)
	}
}

func TestFilterTooLong(t *testing.T) {
	s, _ := newServerForTest(t)

	target := "/api/log?" + url.Values{"filter": {strings.Repeat("a", 2049)}}.Encode()
	w := doRequest(t, s, http.MethodGet, target)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListArchived(t *testing.T) {
	s, cfg := newServerForTest(t)
	writeLog(t, cfg, cfg.CurrentLog, "{\"a\":1}\n")
	writeLog(t, cfg, "ralph_1.jsonl", "{\"run\":1}\n")
	writeLog(t, cfg, "ralph_2.jsonl", "{\"run\":2}\n{\"run\":2}\n")
	writeLog(t, cfg, "notes.txt", "not a log\n")

	w := doRequest(t, s, http.MethodGet, "/api/logs")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var listing []struct {
		Name     string `json:"name"`
		Size     int64  `json:"size"`
		Modified int64  `json:"modified"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(listing) != 2 {
		t.Fatalf("got %d archives, want 2: %v", len(listing), listing)
	}
	if listing[0].Name != "ralph_2.jsonl" || listing[1].Name != "ralph_1.jsonl" {
		t.Fatalf("order = %s, %s; want ralph_2.jsonl first", listing[0].Name, listing[1].Name)
	}
	for _, item := range listing {
		if item.Size <= 0 || item.Modified <= 0 {
			t.Errorf("%s: size=%d modified=%d, want positive", item.Name, item.Size, item.Modified)
		}
	}
}

func TestListArchivedEmpty(t *testing.T) {
	s, _ := newServerForTest(t)

	w := doRequest(t, s, http.MethodGet, "/api/logs")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want empty array", got)
	}
}

func TestArchivedLogByName(t *testing.T) {
	s, cfg := newServerForTest(t)
	writeLog(t, cfg, "ralph_1.jsonl", "{\"run\":1}\n{\"run\":1,\"done\":true}\n")

	w := doRequest(t, s, http.MethodGet, "/api/log/ralph_1.jsonl")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var records []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestArchivedLogNotFound(t *testing.T) {
	s, _ := newServerForTest(t)

	for _, target := range []string{
		"/api/log/ralph_9.jsonl", // no such file
		"/api/log/notes.txt",     // wrong extension
		"/api/log/",              // empty name
	} {
		w := doRequest(t, s, http.MethodGet, target)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, w.Code)
		}
	}
}

func TestStreamRejectsBadRequests(t *testing.T) {
	s, _ := newServerForTest(t)

	w := doRequest(t, s, http.MethodPost, "/api/log/stream")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST: status = %d, want 405", w.Code)
	}

	w = doRequest(t, s, http.MethodGet, "/api/log/stream?"+url.Values{"filter": {"((("}}.Encode())
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad filter: status = %d, want 400", w.Code)
	}

	w = doRequest(t, s, http.MethodGet, "/ws/log?"+url.Values{"filter": {"((("}}.Encode())
	if w.Code != http.StatusBadRequest {
		t.Errorf("ws bad filter: status = %d, want 400", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newServerForTest(t)

	w := doRequest(t, s, http.MethodOptions, "/api/log")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", origin)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newServerForTest(t)

	w := doRequest(t, s, http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ralphmc_tail_sessions_active") {
		t.Fatalf("metrics output does not expose tail session gauge")
	}
}

func TestDashboardServed(t *testing.T) {
	s, _ := newServerForTest(t)

	w := doRequest(t, s, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Ralph Mission Control") {
		t.Fatalf("dashboard index not served at /")
	}
}

func TestStreamSSEDeliversEvents(t *testing.T) {
	s, cfg := newServerForTest(t)
	writeLog(t, cfg, cfg.CurrentLog, "{\"a\":1}\n{\"a\":2}\n")

	srv := httptest.NewServer(s.srv.Handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/log/stream?offset=1", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Fatalf("Cache-Control = %q, want no-cache", cc)
	}

	br := bufio.NewReader(resp.Body)

	ev := readSSEEvent(t, br)
	if ev.Index != 1 || string(ev.Event) != `{"a":2}` {
		t.Fatalf("frame = %d %s, want index 1 with {\"a\":2}", ev.Index, ev.Event)
	}

	appendLog(t, cfg, cfg.CurrentLog, "{\"a\":3}\n")
	ev = readSSEEvent(t, br)
	if ev.Index != 2 || string(ev.Event) != `{"a":3}` {
		t.Fatalf("frame = %d %s, want index 2 with {\"a\":3}", ev.Index, ev.Event)
	}
}

func TestStreamSSEKeepalive(t *testing.T) {
	s, _ := newServerForTest(t)

	srv := httptest.NewServer(s.srv.Handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/log/stream", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	// With no log file at all the session still heartbeats.
	br := bufio.NewReader(resp.Body)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if strings.TrimRight(line, "\n") == ": keepalive" {
			return
		}
	}
}

func TestStreamSSEFilterDelivery(t *testing.T) {
	s, cfg := newServerForTest(t)
	writeLog(t, cfg, cfg.CurrentLog, "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n")

	srv := httptest.NewServer(s.srv.Handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	target := srv.URL + "/api/log/stream?" + url.Values{"filter": {"json.n >= 2"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	br := bufio.NewReader(resp.Body)
	first := readSSEEvent(t, br)
	second := readSSEEvent(t, br)
	// Indices are positions in the log, not positions in the filtered view.
	if first.Index != 1 || second.Index != 2 {
		t.Fatalf("indices = %d, %d; want 1, 2", first.Index, second.Index)
	}
}

func TestStreamWSDeliversEvents(t *testing.T) {
	s, cfg := newServerForTest(t)
	writeLog(t, cfg, cfg.CurrentLog, "{\"n\":1}\n")

	srv := httptest.NewServer(s.srv.Handler)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/log?offset=0"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var ev streamEvent
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read first event: %v", err)
	}
	if ev.Index != 0 || string(ev.Event) != `{"n":1}` {
		t.Fatalf("frame = %d %s, want index 0 with {\"n\":1}", ev.Index, ev.Event)
	}

	appendLog(t, cfg, cfg.CurrentLog, "{\"n\":2}\n")
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read second event: %v", err)
	}
	if ev.Index != 1 || string(ev.Event) != `{"n":2}` {
		t.Fatalf("frame = %d %s, want index 1 with {\"n\":2}", ev.Index, ev.Event)
	}
}

func TestGzipOnJSONNotOnStream(t *testing.T) {
	s, cfg := newServerForTest(t)

	var big strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&big, "{\"seq\":%d,\"pad\":\"%s\"}\n", i, strings.Repeat("x", 40))
	}
	writeLog(t, cfg, cfg.CurrentLog, big.String())

	srv := httptest.NewServer(s.srv.Handler)
	defer srv.Close()

	// Transparent decompression off so Content-Encoding stays observable.
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/log", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	resp.Body.Close()
	if enc := resp.Header.Get("Content-Encoding"); enc != "gzip" {
		t.Fatalf("snapshot Content-Encoding = %q, want gzip", enc)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/log/stream", nil)
	if err != nil {
		t.Fatalf("build stream request: %v", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if enc := resp.Header.Get("Content-Encoding"); enc != "" {
		t.Fatalf("stream Content-Encoding = %q, want uncompressed", enc)
	}
}

func TestListenAndServeShutsDownOnCancel(t *testing.T) {
	s, _ := newServerForTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe returned %v, want nil after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down after context cancel")
	}
}

func TestListenAndServeBadAddr(t *testing.T) {
	s, _ := newServerForTest(t)

	if err := s.ListenAndServe(context.Background(), "127.0.0.1:-1"); err == nil {
		t.Fatal("expected listen error for invalid address")
	}
}

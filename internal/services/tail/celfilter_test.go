package tailsvc

import (
	"testing"

	"github.com/rzbill/ralphmc/internal/runlog"
)

func TestFilterDisabledAcceptsAll(t *testing.T) {
	f, err := newCELFilter("   ")
	if err != nil {
		t.Fatalf("newCELFilter: %v", err)
	}
	if f.enabled {
		t.Fatal("blank expression must disable the filter")
	}
	if !f.Eval(0, runlog.Record(`{"a":1}`)) {
		t.Fatal("disabled filter must accept everything")
	}
}

func TestFilterJSONField(t *testing.T) {
	f, err := newCELFilter(`json.level == "error"`)
	if err != nil {
		t.Fatalf("newCELFilter: %v", err)
	}
	if !f.Eval(0, runlog.Record(`{"level":"error"}`)) {
		t.Fatal("expected match")
	}
	if f.Eval(1, runlog.Record(`{"level":"info"}`)) {
		t.Fatal("expected non-match")
	}
}

func TestFilterTextAndSize(t *testing.T) {
	f, err := newCELFilter(`text.contains("alpha") && size > 10`)
	if err != nil {
		t.Fatalf("newCELFilter: %v", err)
	}
	if !f.Eval(0, runlog.Record(`{"name":"alpha"}`)) {
		t.Fatal("expected match")
	}
	if f.Eval(0, runlog.Record(`{"n":"beta"}`)) {
		t.Fatal("expected non-match")
	}
}

func TestFilterIndex(t *testing.T) {
	f, err := newCELFilter(`index >= 2`)
	if err != nil {
		t.Fatalf("newCELFilter: %v", err)
	}
	if f.Eval(1, runlog.Record(`{}`)) {
		t.Fatal("index 1 must not match")
	}
	if !f.Eval(2, runlog.Record(`{}`)) {
		t.Fatal("index 2 must match")
	}
}

func TestFilterEvalErrorIsNonMatch(t *testing.T) {
	f, err := newCELFilter(`json.missing.deep == 1`)
	if err != nil {
		t.Fatalf("newCELFilter: %v", err)
	}
	if f.Eval(0, runlog.Record(`{"present":true}`)) {
		t.Fatal("evaluation error must count as non-match")
	}
}

func TestFilterNonBooleanResultIsNonMatch(t *testing.T) {
	f, err := newCELFilter(`size`)
	if err != nil {
		t.Fatalf("newCELFilter: %v", err)
	}
	if f.Eval(0, runlog.Record(`{"a":1}`)) {
		t.Fatal("non-boolean result must count as non-match")
	}
}

func TestFilterCompileError(t *testing.T) {
	if _, err := newCELFilter(`((`); err == nil {
		t.Fatal("expected parse error")
	}
}

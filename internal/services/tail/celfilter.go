package tailsvc

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/rzbill/ralphmc/internal/runlog"
)

// celFilter wraps a compiled CEL program shared by snapshot and tail reads.
// When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("index", cel.IntType),
		cel.Variable("size", cel.IntType),
		cel.Variable("text", cel.StringType),
		// Expose the parsed record (map/list/values) for field filtering
		cel.Variable("json", cel.DynType),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// ValidateFilter reports whether expr compiles as a filter expression.
// Transports call it before committing to a streaming response, so a bad
// expression can still become a plain HTTP error.
func ValidateFilter(expr string) error {
	_, err := newCELFilter(expr)
	return err
}

// Eval evaluates the compiled expression against a record. Evaluation errors
// (missing fields, type mismatches) count as non-matches.
func (f celFilter) Eval(index int, rec runlog.Record) bool {
	if !f.enabled {
		return true
	}
	var jsonObj any
	_ = json.Unmarshal(rec, &jsonObj)
	out, _, err := f.prog.Eval(map[string]any{
		"index":  int64(index),
		"size":   int64(len(rec)),
		"text":   string(rec),
		"json":   jsonObj,
		"now_ms": time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// Package runtime wires config, logging, and the run-log store into a
// single ralphmc server instance. It exposes Open, a basic health check,
// and accessors used by the services and the HTTP layer.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	// Health
//	_ = rt.CheckHealth(context.Background())
//	// Read the current log
//	records := rt.Store().ReadAll(rt.Store().Current())
package runtime

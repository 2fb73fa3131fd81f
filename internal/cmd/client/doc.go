// Package client contains Cobra CLI commands for querying a running ralphmc
// server over its HTTP API.
//
// Command groups:
//
//	logs list    list archived run logs
//	logs cat     print a snapshot of the current or an archived log
//	logs tail    follow the current log as it grows
//
// Embedding binaries inject the server address into the commands via a
// BaseURLFunc. The standalone binary resolves it from the RALPHMC_SERVER
// environment variable, falling back to http://127.0.0.1:8888; the
// persistent --server flag overrides both.
package client

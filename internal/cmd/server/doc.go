// Package serverrun boots the ralphmc server process: configuration loading
// and layering, logger setup, runtime wiring, and the HTTP listener
// lifecycle. The cobra entrypoint delegates here so the whole boot path
// stays testable without spawning a real process.
package serverrun

// Package cli wires configuration, storage and presentation together for the
// colloquy command. Each command in cmd/colloquy is a thin cobra wrapper
// around a function here.
package cli

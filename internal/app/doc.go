// Package app contains the core application logic for the patch
// reconciliation CLI. It defines the App struct, its configuration, and
// the one-shot execution lifecycle, decoupled from the CLI entrypoint.
package app

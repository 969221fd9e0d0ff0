// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load the
// pipeline, register it, compile it into an execution graph and run it,
// decoupled from any specific entrypoint like a CLI or server.
package app

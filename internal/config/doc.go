// Package config defines the format-agnostic result of loading a pipeline
// definition, along with the Loader interface that format-specific packages
// implement.
//
// The `config.Model` only carries values from the `mapping` package, so the
// registry and the compiler never see the syntax a pipeline was written in.
// The HCL implementation lives in `internal/hcl`.
package config

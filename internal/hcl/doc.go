// Package hcl provides the concrete HCL implementation of the pipeline
// boundaries: a config.Loader that turns `source`, `transform` and
// `component` blocks into mappings, and a dag.Evaluator that runs the
// `map` and `filter` expressions of a transform over its input streams.
//
// A pipeline file looks like this:
//
//	source "numbers" {
//	  type   = number
//	  values = [1, 2, 3]
//	}
//
//	transform "tenfold" {
//	  type = number
//	  input "n" {
//	    type = number
//	  }
//	  map = n * 10
//	}
//
//	transform "labels" {
//	  type = string
//	  input "v" {
//	    from = transform.tenfold
//	  }
//	  map    = "item-${v}"
//	  filter = v > 10
//	}
//
// An input with `from` is bound to the referenced block. An input with
// `type` is anonymous: the registry binds it to the one mapping producing
// that type, here source.numbers, since a transform never feeds its own
// anonymous input.
package hcl

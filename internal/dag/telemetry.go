package dag

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/dag")

var (
	graphsCompiledCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamgridgo_graphs_compiled_total",
		Help: "The total number of execution graphs compiled successfully.",
	})

	compileFailuresCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamgridgo_compile_failures_total",
		Help: "The total number of graph compilations aborted by a compile error.",
	})

	nodesConnectedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamgridgo_nodes_connected_total",
		Help: "The total number of stream nodes whose production was started.",
	})

	nodesFinishedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamgridgo_nodes_finished_total",
		Help: "The total number of stream nodes that finished production, by outcome.",
	}, []string{"outcome"})
)

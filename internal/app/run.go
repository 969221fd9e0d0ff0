package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/streamgridgo/internal/ctxlog"
	"github.com/specialistvlad/streamgridgo/internal/dag"
	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/specialistvlad/streamgridgo/internal/telemetry"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

const serviceName = "streamgridgo"

// Run compiles the registered pipeline, releases it and waits for every
// node to finish. The values of each node are printed once production ends,
// including the partial output of failed nodes.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	shutdown, err := telemetry.Setup(ctx, a.config.OTelEndpoint, serviceName)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			a.logger.Error("Tracer shutdown failed", "error", err)
		}
	}()

	if a.config.StatusPort > 0 {
		a.startStatusServer(ctx, a.config.StatusPort)
		defer a.closeStatusServer(ctx)
	}

	for _, m := range a.container.Detached() {
		a.logger.Warn("Mapping is detached and will not run.", "mapping", mapping.Describe(m))
	}
	for _, miss := range a.container.Missing() {
		a.logger.Warn("No mapping provides anonymous input.", "type", miss.Name())
	}

	if a.config.DOTPath != "" {
		if err := a.writeDOT(a.config.DOTPath); err != nil {
			return err
		}
		a.logger.Info("Execution plan written.", "path", a.config.DOTPath)
	}

	graph, err := dag.NewCompiler(a.evaluator).Compile(ctx, a.container)
	if err != nil {
		return fmt.Errorf("failed to compile execution graph: %w", err)
	}
	a.logger.Debug("Execution graph compiled.", "graph_id", graph.ID(), "node_count", len(graph.Nodes()))

	if len(graph.Nodes()) == 0 {
		a.logger.Warn("No nodes found in graph, execution not required.")
		return nil
	}

	waitCtx := ctx
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	a.logger.Info("🚀 Releasing execution graph...", "graph_id", graph.ID())
	runErr := graph.Release(ctx).Wait(waitCtx)

	if err := a.printResults(graph); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("execution failed: %w", runErr)
	}
	a.logger.Info("🏁 Execution finished.")

	a.logger.Debug("App.Run method finished.")
	return nil
}

// printResults writes one line per node in execution order:
// `kind.name = [v1, v2, ...]` with values encoded as JSON.
func (a *App) printResults(graph *dag.ExecutionGraph) error {
	for _, node := range graph.Nodes() {
		s := node.Stream()
		values := s.Snapshot()
		encoded := make([]string, 0, len(values))
		for _, v := range values {
			raw, err := ctyjson.Marshal(v, s.ElementType())
			if err != nil {
				return fmt.Errorf("failed to encode value of %s: %w", node.Name(), err)
			}
			encoded = append(encoded, string(raw))
		}

		line := fmt.Sprintf("%s = [%s]", mapping.Describe(node.Mapping()), strings.Join(encoded, ", "))
		if err := s.Err(); err != nil {
			line += fmt.Sprintf(" (%s: %v)", node.State(), err)
		}
		if _, err := fmt.Fprintln(a.outW, line); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) writeDOT(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	defer f.Close()

	if err := a.container.ExportDOT(f); err != nil {
		return fmt.Errorf("failed to export plan: %w", err)
	}
	return f.Close()
}

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/streamgridgo/internal/config"
	"github.com/specialistvlad/streamgridgo/internal/ctxlog"
	"github.com/specialistvlad/streamgridgo/internal/dag"
	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/specialistvlad/streamgridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	container *registry.Container
	evaluator dag.Evaluator

	statusServer *http.Server
}

// NewApp is the constructor for the main application. It loads the pipeline
// and registers every mapping. The loader and the evaluator must agree on
// the format of transformation bodies.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, evaluator dag.Evaluator) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.PipelinePath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Pipeline loaded and translated into unified model.", "mappings", model.Len())

	container, err := buildContainer(ctx, model)
	if err != nil {
		panic(fmt.Errorf("failed to register pipeline: %w", err))
	}
	logger.Debug("Pipeline registered.",
		"mappings", container.Len(),
		"queued", len(container.ExecutionQueue()),
		"detached", len(container.Detached()),
	)

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		container: container,
		evaluator: evaluator,
	}
}

// buildContainer adds the top-level mappings in definition order, then each
// component as a unit.
func buildContainer(ctx context.Context, model *config.Model) (*registry.Container, error) {
	logger := ctxlog.FromContext(ctx)
	c := registry.New()

	for _, m := range model.Mappings {
		next, err := c.Add(m)
		if err != nil {
			return nil, fmt.Errorf("add %s: %w", mapping.Describe(m), err)
		}
		c = next
		logger.Debug("Mapping added.", "mapping", mapping.Describe(m), "queued", c.Queued(m))
	}
	for _, comp := range model.Components {
		next, err := c.AddComponent(comp)
		if err != nil {
			return nil, err
		}
		c = next
		logger.Debug("Component added.", "component", comp.Name, "members", len(comp.Members))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Container returns the registered pipeline. This is primarily for testing.
func (a *App) Container() *registry.Container {
	return a.container
}

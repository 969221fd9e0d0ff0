package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/streamgridgo/internal/hcl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipeline = `
source "numbers" {
  type   = number
  values = [1, 2, 3]
}

transform "tenfold" {
  type = number
  input "n" {
    type = number
  }
  map = n * 10
}

transform "labels" {
  type = string
  input "v" {
    from = transform.tenfold
  }
  map    = "item-${v}"
  filter = v > 10
}
`

func writePipeline(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func setup(t *testing.T, cfg Config) (*App, *SafeBuffer) {
	t.Helper()
	return SetupAppTest(t, &cfg, hcl.NewLoader(), hcl.NewEvaluator())
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)

	_, err = NewConfig(Config{PipelinePath: "p.hcl", Timeout: -time.Second})
	require.ErrorContains(t, err, "timeout")

	_, err = NewConfig(Config{PipelinePath: "p.hcl", StatusPort: 70000})
	require.ErrorContains(t, err, "out of range")

	cfg, err := NewConfig(Config{PipelinePath: "p.hcl", StatusPort: 8080})
	require.NoError(t, err)
	assert.Equal(t, "p.hcl", cfg.PipelinePath)
}

func TestNewApp_RegistersPipeline(t *testing.T) {
	a, _ := setup(t, Config{PipelinePath: writePipeline(t, pipeline)})

	c := a.Container()
	assert.Equal(t, 3, c.Len())
	assert.True(t, c.Satisfied())
	assert.Len(t, c.ExecutionQueue(), 3)
}

func TestNewApp_PanicsOnLoadFailure(t *testing.T) {
	path := writePipeline(t, `source "broken" {`)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.Contains(t, r.(error).Error(), "failed to load configuration")
	}()
	setup(t, Config{PipelinePath: path})
}

func TestRun_PrintsNodeValues(t *testing.T) {
	a, out := setup(t, Config{PipelinePath: writePipeline(t, pipeline), Timeout: 5 * time.Second})

	require.NoError(t, a.Run(context.Background()))

	logs := out.String()
	assert.Contains(t, logs, "source.numbers = [1, 2, 3]")
	assert.Contains(t, logs, "transform.tenfold = [10, 20, 30]")
	assert.Contains(t, logs, `transform.labels = ["item-20", "item-30"]`)
	assert.Contains(t, logs, "Execution finished")
}

func TestRun_ReportsNodeFailure(t *testing.T) {
	a, out := setup(t, Config{PipelinePath: writePipeline(t, `
source "words" {
  type   = string
  values = ["1", "x"]
}

transform "parsed" {
  type = number
  input "w" {
    from = source.words
  }
  map = parseint(w, 10)
}
`)})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution failed")
	assert.Contains(t, err.Error(), "parsed")
	assert.Contains(t, out.String(), "transform.parsed = [1] (failed:")
}

func TestRun_WarnsOnDetachedMappings(t *testing.T) {
	a, out := setup(t, Config{PipelinePath: writePipeline(t, `
source "numbers" {
  type   = number
  values = [1]
}

transform "names" {
  type = string
  input "s" {
    type = string
  }
  map = upper(s)
}
`)})

	require.NoError(t, a.Run(context.Background()))
	logs := out.String()
	assert.Contains(t, logs, "Mapping is detached and will not run.")
	assert.Contains(t, logs, "transform.names")
	assert.Contains(t, logs, "source.numbers = [1]")
	assert.NotContains(t, logs, "transform.names = ")
}

func TestRun_WritesDOT(t *testing.T) {
	dotPath := filepath.Join(t.TempDir(), "plan.dot")
	a, _ := setup(t, Config{PipelinePath: writePipeline(t, pipeline), DOTPath: dotPath})

	require.NoError(t, a.Run(context.Background()))

	raw, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	dot := string(raw)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(dot), "digraph plan"))
	assert.Contains(t, dot, `"source.numbers" -> "transform.tenfold"`)
}

func TestStatusHandler(t *testing.T) {
	a, _ := setup(t, Config{PipelinePath: writePipeline(t, pipeline)})
	h := a.statusHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	require.NoError(t, a.Run(context.Background()))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "streamgridgo_graphs_compiled_total")
}

func TestNewLogger(t *testing.T) {
	buf := &SafeBuffer{}
	logger := newLogger("warn", "json", buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf = &SafeBuffer{}
	logger = newLogger("bogus", "text", buf)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

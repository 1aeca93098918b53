package serverfx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeydtaylor/steeze-fn/pkg/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	root := t.TempDir()
	units := filepath.Join(root, "functions")
	require.NoError(t, os.Mkdir(units, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(units, "add.js"),
		[]byte(`function run(data) { return data.a + data.b; }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(units, "index.js"), nil, 0o644))

	manifestPath := filepath.Join(root, "manifest.toml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(fmt.Sprintf(`
[server]
listen = "127.0.0.1:0"

[units]
dir = %q

[log]
dir = %q
level = "warn"
`, units, filepath.Join(root, "log"))), 0o644))

	opts := DefaultOptions()
	opts.ManifestEnv = "STEEZE_FN_TEST_MANIFEST"
	opts.ListenAddrEnv = "STEEZE_FN_TEST_LISTEN"
	t.Setenv(opts.ManifestEnv, manifestPath)

	reg := unit.NewRegistry()
	reg.MustRegister("hello", unit.Func(func(_ context.Context, p any) (any, error) {
		return map[string]any{"hello": p}, nil
	}))
	opts.Registry = reg
	return opts
}

func TestModule_ServesUnits(t *testing.T) {
	var app http.Handler
	fxApp := fxtest.New(t,
		Module(testOptions(t)),
		fx.Invoke(func(p struct {
			fx.In
			App http.Handler `name:"app"`
		}) {
			app = p.App
		}),
	)
	fxApp.RequireStart()
	defer fxApp.RequireStop()
	require.NotNil(t, app)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"functions": ["hello", "add"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run/add", strings.NewReader(`{"a": 2, "b": 3}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Body.String())

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run/hello", strings.NewReader(`"world"`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hello": "world"}`, rec.Body.String())
}

func TestProvideConfig_EnvOverrides(t *testing.T) {
	opts := testOptions(t)
	t.Setenv(opts.ListenAddrEnv, "127.0.0.1:4321")

	cfg, err := provideConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4321", cfg.Server.Listen)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestProvideConfig_MissingDefaultManifest(t *testing.T) {
	opts := DefaultOptions()
	opts.ManifestEnv = "STEEZE_FN_TEST_UNSET_MANIFEST"
	opts.DefaultManifest = filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := provideConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "functions", cfg.Units.Dir)
}

func TestProvideConfig_ExplicitMissingManifestFails(t *testing.T) {
	opts := DefaultOptions()
	opts.ManifestEnv = "STEEZE_FN_TEST_MANIFEST"
	t.Setenv(opts.ManifestEnv, filepath.Join(t.TempDir(), "absent.toml"))

	_, err := provideConfig(opts)
	assert.Error(t, err)
}

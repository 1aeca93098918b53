package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, ":4000", c.Server.Listen)
	assert.Equal(t, "functions", c.Units.Dir)
	assert.Equal(t, ".js", c.Units.Extension)
	assert.Equal(t, "index.js", c.Units.Index)
	assert.Equal(t, 5*time.Second, c.Units.Timeout())
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "/metrics", c.Metrics.Path)
	assert.True(t, c.Metrics.On())
	assert.Zero(t, c.Server.RequestTimeout())
}

func TestLoadConfig(t *testing.T) {
	p := writeManifest(t, `
[server]
listen = "127.0.0.1:9000"
request_timeout_ms = 2500

[units]
dir = "/srv/units"
extension = "mjs"
timeout_ms = 100

[log]
level = "DEBUG"
body_paths = ["/run/"]

[metrics]
enabled = false
`)
	c, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", c.Server.Listen)
	assert.Equal(t, 2500*time.Millisecond, c.Server.RequestTimeout())
	assert.Equal(t, "/srv/units", c.Units.Dir)
	assert.Equal(t, ".mjs", c.Units.Extension)
	assert.Equal(t, "index.mjs", c.Units.Index)
	assert.Equal(t, 100*time.Millisecond, c.Units.Timeout())
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, []string{"/run/"}, c.Log.BodyPaths)
	assert.False(t, c.Metrics.On())
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"syntax":       `[server`,
		"tls half":     "[server]\ntls_cert = \"c.pem\"\n",
		"neg timeout":  "[units]\ntimeout_ms = -1\n",
		"bad level":    "[log]\nlevel = \"loud\"\n",
		"bad body":     "[log]\nbody_paths = [\"run\"]\n",
		"index path":   "[units]\nindex = \"../index.js\"\n",
		"metrics root": "[metrics]\npath = \"/\"\n",
	}
	for name, body := range cases {
		_, err := LoadConfig(writeManifest(t, body))
		assert.Error(t, err, name)
	}
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	_, err = LoadOrDefault(writeManifest(t, `[server`))
	assert.Error(t, err)
}

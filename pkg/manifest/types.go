package manifest

// Server configures the HTTP listener.
type Server struct {
	Listen           string `toml:"listen"`
	TLSCert          string `toml:"tls_cert"`
	TLSKey           string `toml:"tls_key"`
	ReadTimeoutMS    int    `toml:"read_timeout_ms"`
	WriteTimeoutMS   int    `toml:"write_timeout_ms"`
	IdleTimeoutMS    int    `toml:"idle_timeout_ms"`
	RequestTimeoutMS int    `toml:"request_timeout_ms"` // 0 = no per-request deadline
	MaxBodyBytes     int64  `toml:"max_body_bytes"`
}

// Units configures the units directory.
type Units struct {
	Dir            string `toml:"dir"`
	Extension      string `toml:"extension"`
	Index          string `toml:"index"` // file name excluded from listings
	TimeoutMS      int    `toml:"timeout_ms"`
	MaxScriptBytes int64  `toml:"max_script_bytes"`
}

type Log struct {
	Dir       string   `toml:"dir"`
	Level     string   `toml:"level"`
	BodyPaths []string `toml:"body_paths"` // path prefixes whose JSON bodies are access-logged
}

type Metrics struct {
	Enabled *bool  `toml:"enabled"`
	Path    string `toml:"path"`
}

// On reports whether metrics are enabled (default true).
func (m Metrics) On() bool { return m.Enabled == nil || *m.Enabled }

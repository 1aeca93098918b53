package manifest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config is the top-level manifest.
type Config struct {
	Server  Server  `toml:"server"`
	Units   Units   `toml:"units"`
	Log     Log     `toml:"log"`
	Metrics Metrics `toml:"metrics"`
}

// Default returns the configuration used when no manifest file exists.
func Default() Config {
	c := Config{}
	_ = c.Validate()
	return c
}

// Validate fills defaults and rejects values the server cannot run with.
func (c *Config) Validate() error {
	s := &c.Server
	if strings.TrimSpace(s.Listen) == "" {
		s.Listen = ":4000"
	}
	if s.ReadTimeoutMS == 0 {
		s.ReadTimeoutMS = 15000
	}
	if s.WriteTimeoutMS == 0 {
		s.WriteTimeoutMS = 30000
	}
	if s.IdleTimeoutMS == 0 {
		s.IdleTimeoutMS = 60000
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = 1 << 20
	}
	if s.ReadTimeoutMS < 0 || s.WriteTimeoutMS < 0 || s.IdleTimeoutMS < 0 || s.RequestTimeoutMS < 0 {
		return fmt.Errorf("server: timeouts must be >= 0")
	}
	if s.MaxBodyBytes < 0 {
		return fmt.Errorf("server: max_body_bytes must be >= 0")
	}
	if (s.TLSCert == "") != (s.TLSKey == "") {
		return fmt.Errorf("server: tls_cert and tls_key must be set together")
	}

	u := &c.Units
	if strings.TrimSpace(u.Dir) == "" {
		u.Dir = "functions"
	}
	u.Extension = strings.TrimSpace(u.Extension)
	if u.Extension == "" {
		u.Extension = ".js"
	}
	if !strings.HasPrefix(u.Extension, ".") {
		u.Extension = "." + u.Extension
	}
	if u.Index == "" {
		u.Index = "index" + u.Extension
	}
	if filepath.Base(u.Index) != u.Index {
		return fmt.Errorf("units: index %q must be a bare file name", u.Index)
	}
	if u.TimeoutMS == 0 {
		u.TimeoutMS = 5000
	}
	if u.MaxScriptBytes == 0 {
		u.MaxScriptBytes = 1 << 20
	}
	if u.TimeoutMS < 0 || u.MaxScriptBytes < 0 {
		return fmt.Errorf("units: timeout_ms and max_script_bytes must be >= 0")
	}

	l := &c.Log
	if l.Dir == "" {
		l.Dir = "log"
	}
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = "info"
	}
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	for i, p := range l.BodyPaths {
		p = strings.TrimSpace(p)
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("log: body_paths[%d] %q must start with /", i, p)
		}
		l.BodyPaths[i] = p
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") || c.Metrics.Path == "/" || strings.HasPrefix(c.Metrics.Path, "/run/") {
		return fmt.Errorf("metrics: path %q collides with unit routes", c.Metrics.Path)
	}
	return nil
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (s Server) ReadTimeout() time.Duration    { return ms(s.ReadTimeoutMS) }
func (s Server) WriteTimeout() time.Duration   { return ms(s.WriteTimeoutMS) }
func (s Server) IdleTimeout() time.Duration    { return ms(s.IdleTimeoutMS) }
func (s Server) RequestTimeout() time.Duration { return ms(s.RequestTimeoutMS) }
func (u Units) Timeout() time.Duration         { return ms(u.TimeoutMS) }

// Package script serves units from a directory of JavaScript files.
//
// Each <name>.js file is one unit. The file's top level must define a
// function named run; run(data) receives the request payload and its
// return value becomes the response body. Files are resolved and compiled
// on every call, so edits take effect on the next request.
package script

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeydtaylor/steeze-fn/pkg/unit"
	"go.uber.org/zap"
)

const (
	DefaultExt      = ".js"
	DefaultIndex    = "index.js"
	DefaultTimeout  = 5 * time.Second
	DefaultMaxBytes = 1 << 20
)

// Dir is a unit.Catalog backed by a directory.
type Dir struct {
	Path     string
	Ext      string        // unit file extension, ".js"
	Index    string        // file excluded from listing and resolution
	Timeout  time.Duration // per-invocation cap; <=0 means DefaultTimeout
	MaxBytes int64         // largest accepted unit file
	Log      *zap.Logger
}

// New returns a Dir over path with defaults applied.
func New(path string, log *zap.Logger) *Dir {
	d := &Dir{Path: path, Log: log}
	d.defaults()
	return d
}

func (d *Dir) defaults() {
	if d.Ext == "" {
		d.Ext = DefaultExt
	}
	if !strings.HasPrefix(d.Ext, ".") {
		d.Ext = "." + d.Ext
	}
	if d.Index == "" {
		d.Index = DefaultIndex
	}
	if d.Timeout <= 0 {
		d.Timeout = DefaultTimeout
	}
	if d.MaxBytes <= 0 {
		d.MaxBytes = DefaultMaxBytes
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
}

// List returns unit names in directory enumeration order.
func (d *Dir) List(context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, &unit.IOError{Path: d.Path, Err: err}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		fn := e.Name()
		if !d.isUnitFile(e) {
			continue
		}
		if fn == d.Index || filepath.Ext(fn) != d.Ext {
			continue
		}
		name := strings.TrimSuffix(fn, d.Ext)
		if !unit.ValidName(name) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// isUnitFile follows symlinks the same way Resolve does.
func (d *Dir) isUnitFile(e fs.DirEntry) bool {
	switch {
	case e.Type().IsRegular():
		return true
	case e.Type()&fs.ModeSymlink != 0:
		fi, err := os.Stat(filepath.Join(d.Path, e.Name()))
		return err == nil && fi.Mode().IsRegular()
	default:
		return false
	}
}

// Resolve loads and compiles <Path>/<name><Ext>.
func (d *Dir) Resolve(_ context.Context, name string) (unit.Unit, error) {
	if !unit.ValidName(name) || name+d.Ext == d.Index {
		return nil, unit.NotFound(name)
	}
	path := filepath.Join(d.Path, name+d.Ext)

	fi, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, unit.NotFound(name)
	case err != nil:
		return nil, unit.Execution(name, err)
	case !fi.Mode().IsRegular():
		return nil, unit.NotFound(name)
	case fi.Size() > d.MaxBytes:
		return nil, unit.Execution(name, fmt.Errorf("unit %q exceeds maximum size of %d bytes", name, d.MaxBytes))
	}

	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, unit.NotFound(name)
		}
		return nil, unit.Execution(name, err)
	}
	return compile(name, filepath.Base(path), string(src), d.Timeout, d.Log)
}

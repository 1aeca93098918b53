// Package dispatch resolves unit names across catalogs and invokes them.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joeydtaylor/steeze-fn/pkg/unit"
	"go.uber.org/zap"
)

// Observer receives one call per invocation with its outcome kind (unit.Kind*).
type Observer func(name, kind string, elapsed time.Duration)

type Dispatcher struct {
	catalogs []unit.Catalog
	log      *zap.Logger
	observe  Observer
}

type Option func(*Dispatcher)

func WithLogger(l *zap.Logger) Option { return func(d *Dispatcher) { d.log = l } }
func WithObserver(o Observer) Option  { return func(d *Dispatcher) { d.observe = o } }

// New builds a Dispatcher. Catalogs are consulted in order; the first one
// that knows a name wins.
func New(catalogs []unit.Catalog, opts ...Option) *Dispatcher {
	d := &Dispatcher{log: zap.NewNop()}
	for _, c := range catalogs {
		if c != nil {
			d.catalogs = append(d.catalogs, c)
		}
	}
	for _, o := range opts {
		o(d)
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	return d
}

// Invoke resolves name and runs it with payload. Errors are one of
// unit.ErrNotFound, unit.ErrContractViolation (both wrapped) or *unit.ExecutionError.
func (d *Dispatcher) Invoke(ctx context.Context, name string, payload any) (out any, err error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		kind := unit.Kind(err)
		if d.observe != nil {
			d.observe(name, kind, elapsed)
		}
		if err != nil {
			d.log.Warn("unit invocation failed",
				zap.String("unit", name),
				zap.String("outcome", kind),
				zap.Duration("lat", elapsed),
				zap.Error(err),
			)
			return
		}
		d.log.Debug("unit invoked",
			zap.String("unit", name),
			zap.Duration("lat", elapsed),
		)
	}()

	u, err := d.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return call(ctx, name, u, payload)
}

func (d *Dispatcher) resolve(ctx context.Context, name string) (unit.Unit, error) {
	if !unit.ValidName(name) {
		return nil, unit.NotFound(name)
	}
	for _, c := range d.catalogs {
		u, err := c.Resolve(ctx, name)
		switch {
		case err == nil && u != nil:
			return u, nil
		case err == nil:
			return nil, unit.ContractViolation(name)
		case errors.Is(err, unit.ErrNotFound):
			continue
		default:
			return nil, unit.Execution(name, err)
		}
	}
	return nil, unit.NotFound(name)
}

// call runs u, converting panics into ExecutionErrors.
func call(ctx context.Context, name string, u unit.Unit, payload any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &unit.ExecutionError{Unit: name, Err: fmt.Errorf("%v", r)}
		}
	}()
	out, err = u.Run(ctx, payload)
	if err != nil {
		return nil, unit.Execution(name, err)
	}
	return out, nil
}

// List concatenates catalog listings in catalog order, skipping names an
// earlier catalog already listed. Any catalog failure aborts the listing.
func (d *Dispatcher) List(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	out := []string{}
	for _, c := range d.catalogs {
		names, err := c.List(ctx)
		if err != nil {
			d.log.Error("unit listing failed", zap.Error(err))
			return nil, err
		}
		for _, n := range names {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out, nil
}

// pkg/unit/unit.go
package unit

import (
	"context"
	"strings"
)

// Unit is the contract every invocable unit implements.
// payload is the decoded JSON request body; the result is encoded back verbatim.
type Unit interface {
	Run(ctx context.Context, payload any) (any, error)
}

// Func adapts a plain function to Unit.
type Func func(ctx context.Context, payload any) (any, error)

func (f Func) Run(ctx context.Context, payload any) (any, error) { return f(ctx, payload) }

// Catalog is a source of units: the units directory, the compiled-in registry, ...
type Catalog interface {
	// Resolve returns ErrNotFound (wrapped) when the catalog has no such unit.
	Resolve(ctx context.Context, name string) (Unit, error)
	List(ctx context.Context) ([]string, error)
}

// ValidName reports whether name can denote a unit. Names never carry path
// components, so a name is safe to join onto a directory.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`+"\x00")
}

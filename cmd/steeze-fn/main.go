// Command steeze-fn serves the units in a directory over HTTP.
//
//	POST /run/{name}  run a unit with the JSON request body
//	GET  /            list available units
//
// Configuration comes from the TOML manifest named by STEEZE_FN_MANIFEST
// (default ./manifest.toml, optional).
package main

import (
	"github.com/joeydtaylor/steeze-fn/pkg/serverfx"
	"go.uber.org/fx"
)

func main() {
	fx.New(serverfx.Module(serverfx.DefaultOptions())).Run()
}

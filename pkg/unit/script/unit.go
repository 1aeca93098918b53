package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/joeydtaylor/steeze-fn/pkg/unit"
	"go.uber.org/zap"
)

const entryPoint = "run"

// scriptUnit is a compiled unit file. Every Run gets a fresh runtime;
// goja runtimes are not safe for concurrent use.
type scriptUnit struct {
	name    string
	prog    *goja.Program
	timeout time.Duration
	log     *zap.Logger
}

func compile(name, file, src string, timeout time.Duration, log *zap.Logger) (*scriptUnit, error) {
	prog, err := goja.Compile(file, src, false)
	if err != nil {
		return nil, unit.Execution(name, err)
	}
	return &scriptUnit{name: name, prog: prog, timeout: timeout, log: log}, nil
}

func (s *scriptUnit) Run(ctx context.Context, payload any) (any, error) {
	vm := goja.New()

	timeout := s.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTimer(timeout)
		defer t.Stop()
		select {
		case <-t.C:
			vm.Interrupt("execution timeout")
		case <-ctx.Done():
			vm.Interrupt(ctx.Err().Error())
		case <-done:
		}
	}()

	if err := s.bindConsole(vm); err != nil {
		return nil, unit.Execution(s.name, err)
	}

	if _, err := vm.RunProgram(s.prog); err != nil {
		return nil, s.jsError(err)
	}

	run, ok := goja.AssertFunction(vm.Get(entryPoint))
	if !ok {
		return nil, unit.ContractViolation(s.name)
	}

	res, err := run(goja.Undefined(), vm.ToValue(payload))
	if err != nil {
		return nil, s.jsError(err)
	}
	out := export(res)
	if p, ok := out.(*goja.Promise); ok {
		return s.settle(p)
	}
	return out, nil
}

// settle unwraps the promise returned by an async run. Jobs queued by the
// call have already run by the time it returns, so a pending promise can
// never settle.
func (s *scriptUnit) settle(p *goja.Promise) (any, error) {
	switch p.State() {
	case goja.PromiseStateFulfilled:
		return export(p.Result()), nil
	case goja.PromiseStateRejected:
		return nil, &unit.ExecutionError{Unit: s.name, Err: errors.New(exceptionMessage(p.Result()))}
	default:
		return nil, &unit.ExecutionError{Unit: s.name, Err: errors.New("run returned a promise that never settled")}
	}
}

func export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

func (s *scriptUnit) bindConsole(vm *goja.Runtime) error {
	logf := func(level func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]any, len(call.Arguments))
			for i, a := range call.Arguments {
				args[i] = a.Export()
			}
			level("console", zap.String("unit", s.name), zap.String("msg", fmt.Sprint(args...)))
			return goja.Undefined()
		}
	}
	console := vm.NewObject()
	if err := console.Set("log", logf(s.log.Debug)); err != nil {
		return err
	}
	if err := console.Set("error", logf(s.log.Warn)); err != nil {
		return err
	}
	return vm.Set("console", console)
}

// jsError turns a goja failure into an ExecutionError carrying just the
// thrown message ("boom" for `throw new Error("boom")`).
func (s *scriptUnit) jsError(err error) error {
	var (
		ex  *goja.Exception
		ie  *goja.InterruptedError
		msg string
	)
	switch {
	case errors.As(err, &ie):
		msg = fmt.Sprint(ie.Value())
	case errors.As(err, &ex):
		msg = exceptionMessage(ex.Value())
	default:
		msg = err.Error()
	}
	return &unit.ExecutionError{Unit: s.name, Err: errors.New(msg)}
}

func exceptionMessage(v goja.Value) string {
	if v == nil {
		return "exception"
	}
	if obj, ok := v.(*goja.Object); ok {
		if m := obj.Get("message"); m != nil && !goja.IsUndefined(m) {
			return m.String()
		}
	}
	return v.String()
}

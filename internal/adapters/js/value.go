package js

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/3-lines-studio/prerender/internal/usecase"
)

type value struct {
	s *Sandbox
	v goja.Value
}

func (v *value) Property(name string) (usecase.Value, bool) {
	obj, ok := v.v.(*goja.Object)
	if !ok || !v.s.isOwn(obj, name) {
		return nil, false
	}
	return &value{s: v.s, v: obj.Get(name)}, true
}

// RenderFunc resolves the calling convention once: functions declaring two
// or more parameters are callback style, everything else returns its result
// directly or through a thenable.
func (v *value) RenderFunc() (core.RenderFunc, bool) {
	fn, ok := goja.AssertFunction(v.v)
	if !ok {
		return nil, false
	}

	arity := v.v.(*goja.Object).Get("length").ToInteger()
	if arity < 2 {
		return v.s.returningRender(fn), true
	}
	return v.s.callbackRender(fn), true
}

func (s *Sandbox) returningRender(fn goja.Callable) core.RenderFunc {
	return func(locals map[string]any, settle func(core.RenderResult, error)) {
		done := settleOnce(settle)

		var convErr error
		defer func() {
			if convErr != nil {
				done(core.RenderResult{}, convErr)
			}
		}()
		defer recoverJS(&convErr)

		ret, err := fn(goja.Undefined(), s.localsObject(locals))
		if err != nil {
			done(core.RenderResult{}, exceptionError(err))
			return
		}
		s.await(ret, done)
	}
}

func (s *Sandbox) callbackRender(fn goja.Callable) core.RenderFunc {
	return func(locals map[string]any, settle func(core.RenderResult, error)) {
		done := settleOnce(settle)

		var convErr error
		defer func() {
			if convErr != nil {
				done(core.RenderResult{}, convErr)
			}
		}()
		defer recoverJS(&convErr)

		callback := s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if reason := call.Argument(0); !isNullish(reason) {
				done(core.RenderResult{}, valueError(reason))
				return goja.Undefined()
			}
			done(toResult(call.Argument(1)))
			return goja.Undefined()
		})

		if _, err := fn(goja.Undefined(), s.localsObject(locals), callback); err != nil {
			done(core.RenderResult{}, exceptionError(err))
		}
	}
}

// await settles with v, waiting for it first when it is a thenable.
func (s *Sandbox) await(v goja.Value, done func(core.RenderResult, error)) {
	if obj, ok := v.(*goja.Object); ok {
		if then, ok := goja.AssertFunction(obj.Get("then")); ok {
			onFulfilled := s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				done(toResult(call.Argument(0)))
				return goja.Undefined()
			})
			onRejected := s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				done(core.RenderResult{}, valueError(call.Argument(0)))
				return goja.Undefined()
			})
			if _, err := then(obj, onFulfilled, onRejected); err != nil {
				done(core.RenderResult{}, exceptionError(err))
			}
			return
		}
	}
	done(toResult(v))
}

// toResult converts what a render produced. Plain objects map output paths
// to HTML; any other value is the HTML of the requested path. A value that
// cannot be converted to a string fails the render.
func toResult(v goja.Value) (result core.RenderResult, err error) {
	if isNullish(v) {
		return core.RenderResult{}, core.ErrEmptyRender
	}
	defer func() {
		if err != nil {
			result = core.RenderResult{}
		}
	}()
	defer recoverJS(&err)

	if obj, ok := v.(*goja.Object); ok && isPathMapping(obj) {
		keys := obj.Keys()
		docs := make([]core.Document, 0, len(keys))
		for _, k := range keys {
			html, err := toString(obj.Get(k))
			if err != nil {
				return core.RenderResult{}, fmt.Errorf("output %s: %w", k, err)
			}
			docs = append(docs, core.Document{Path: k, HTML: html})
		}
		return core.MultiResult(docs...), nil
	}

	html, err := toString(v)
	if err != nil {
		return core.RenderResult{}, err
	}
	return core.SingleResult(html), nil
}

func isPathMapping(obj *goja.Object) bool {
	if _, isFn := goja.AssertFunction(obj); isFn {
		return false
	}
	switch obj.ClassName() {
	case "String", "Number", "Boolean":
		return false
	}
	return true
}

func settleOnce(settle func(core.RenderResult, error)) func(core.RenderResult, error) {
	settled := false
	return func(r core.RenderResult, err error) {
		if settled {
			return
		}
		settled = true
		settle(r, err)
	}
}

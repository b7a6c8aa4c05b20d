package js

import (
	"path"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"
	"go.uber.org/zap"

	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/3-lines-studio/prerender/internal/usecase"
)

var moduleParams = []string{"exports", "require", "module", "__filename", "__dirname"}

// Sandbox is one isolated JavaScript runtime, used for the lifetime of a
// single build. All evaluation happens on the goroutine calling its methods;
// the event loop only runs inside those calls.
type Sandbox struct {
	loop     *eventloop.EventLoop
	vm       *goja.Runtime
	baseline map[string]bool
	hasOwn   goja.Callable

	objects map[*core.Scope]*goja.Object
	scopes  map[*goja.Object]*core.Scope
	closed  bool
}

var _ usecase.Sandbox = (*Sandbox)(nil)

func NewSandbox() (*Sandbox, error) {
	registry := require.NewRegistry(require.WithLoader(noFileLoader))
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(consolePrinter{}))

	s := &Sandbox{
		loop:     eventloop.NewEventLoop(eventloop.WithRegistry(registry)),
		baseline: make(map[string]bool),
		objects:  make(map[*core.Scope]*goja.Object),
		scopes:   make(map[*goja.Object]*core.Scope),
	}

	var initErr error
	s.loop.Run(func(vm *goja.Runtime) {
		s.vm = vm
		if err := vm.Set("global", vm.GlobalObject()); err != nil {
			initErr = err
			return
		}
		hasOwn, err := vm.RunString("Object.prototype.hasOwnProperty")
		if err != nil {
			initErr = err
			return
		}
		s.hasOwn, _ = goja.AssertFunction(hasOwn)
		for _, k := range vm.GlobalObject().Keys() {
			s.baseline[k] = true
		}
	})
	if initErr != nil {
		return nil, initErr
	}

	return s, nil
}

// Compiled code must not reach the host file system through require.
func noFileLoader(string) ([]byte, error) {
	return nil, require.ModuleFileDoesNotExistError
}

func (s *Sandbox) RunScript(name, source string, scope *core.Scope) error {
	if s.closed {
		return ErrClosed
	}

	var runErr error
	s.loop.Run(func(vm *goja.Runtime) {
		start := time.Now()
		installed := s.install(scope)

		if _, err := vm.RunScript(name, source); err != nil {
			runErr = &core.ScriptError{Script: name, Err: exceptionError(err)}
			return
		}

		s.collect(scope, installed)
		Logger().Debug("script executed",
			zap.String("script", name),
			zap.Int("globals", scope.Len()),
			zap.Duration("duration", time.Since(start)))
	})
	return runErr
}

func (s *Sandbox) EvalModule(name, source string, scope *core.Scope) (usecase.Value, error) {
	if s.closed {
		return nil, ErrClosed
	}

	var (
		exports usecase.Value
		evalErr error
	)
	s.loop.Run(func(vm *goja.Runtime) {
		start := time.Now()
		s.install(scope)
		hidden := s.hiddenGlobals(scope)

		params := append(append([]string(nil), moduleParams...), hidden...)
		head := "(function (" + strings.Join(params, ", ") + ") {"
		wrapper, err := vm.RunScript(name, head+source+"\n})")
		if err != nil {
			evalErr = &core.ScriptError{Script: name, Err: exceptionError(err)}
			return
		}
		body, _ := goja.AssertFunction(wrapper)

		module := vm.NewObject()
		exportsObj := vm.NewObject()
		_ = module.Set("exports", exportsObj)
		_ = module.Set("id", name)
		_ = module.Set("filename", name)

		req := vm.Get("require")
		if req == nil {
			req = goja.Undefined()
		}

		args := []goja.Value{exportsObj, req, module, vm.ToValue(name), vm.ToValue(path.Dir(name))}
		for range hidden {
			args = append(args, goja.Undefined())
		}
		_, err = body(exportsObj, args...)
		if err != nil {
			evalErr = &core.ScriptError{Script: name, Err: exceptionError(err)}
			return
		}

		exports = &value{s: s, v: module.Get("exports")}
		Logger().Debug("module evaluated",
			zap.String("module", name),
			zap.Strings("hidden", hidden),
			zap.Duration("duration", time.Since(start)))
	})
	return exports, evalErr
}

func (s *Sandbox) Settle(issue func()) error {
	if s.closed {
		return ErrClosed
	}
	s.loop.Run(func(*goja.Runtime) {
		issue()
	})
	return nil
}

func (s *Sandbox) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.objects = nil
	s.scopes = nil
	return nil
}

// install exposes every binding of scope as a global of the runtime and
// returns the JS values it installed.
func (s *Sandbox) install(scope *core.Scope) map[string]goja.Value {
	global := s.vm.GlobalObject()
	seen := make(map[*core.Scope]bool)
	installed := make(map[string]goja.Value, scope.Len())
	for _, k := range scope.Keys() {
		v, _ := scope.Get(k)
		jv := s.toJS(v, seen)
		_ = global.Set(k, jv)
		installed[k] = jv
	}
	return installed
}

// hiddenGlobals lists the globals left behind by earlier scripts that are not
// bindings of scope. A module body receives them as undefined parameters so
// it only sees scope and the baseline globals.
func (s *Sandbox) hiddenGlobals(scope *core.Scope) []string {
	visible := make(map[string]bool, scope.Len()+len(moduleParams))
	for _, k := range scope.Keys() {
		visible[k] = true
	}
	for _, k := range moduleParams {
		visible[k] = true
	}

	var hidden []string
	for _, k := range s.vm.GlobalObject().Keys() {
		if s.baseline[k] || visible[k] || !isIdentifier(k) {
			continue
		}
		hidden = append(hidden, k)
	}
	return hidden
}

// collect writes the runtime's globals back into scope. Nested namespaces
// keep their identity and receive the properties of their JS objects;
// bindings the script left untouched keep their Go values.
func (s *Sandbox) collect(scope *core.Scope, installed map[string]goja.Value) {
	global := s.vm.GlobalObject()
	seen := make(map[*core.Scope]bool)
	for _, k := range global.Keys() {
		if s.baseline[k] {
			continue
		}
		v := global.Get(k)
		if prev, ok := installed[k]; ok && v.SameAs(prev) {
			// Objects may still have been mutated in place.
			if obj, ok := v.(*goja.Object); ok {
				if ns, ok := s.scopes[obj]; ok {
					s.syncScope(ns, obj, seen)
				}
			}
			continue
		}
		s.store(scope, k, v, seen)
	}
}

func (s *Sandbox) store(scope *core.Scope, key string, v goja.Value, seen map[*core.Scope]bool) {
	obj, isObj := v.(*goja.Object)
	if isObj {
		if ns, ok := s.scopes[obj]; ok {
			scope.Set(key, ns)
			s.syncScope(ns, obj, seen)
			return
		}
		if existing, ok := scope.Get(key); ok {
			if ns, ok := existing.(*core.Scope); ok && ns != nil {
				s.bind(ns, obj)
				s.syncScope(ns, obj, seen)
				return
			}
		}
	}
	scope.Set(key, v)
}

func (s *Sandbox) syncScope(ns *core.Scope, obj *goja.Object, seen map[*core.Scope]bool) {
	if seen[ns] {
		return
	}
	seen[ns] = true
	for _, k := range obj.Keys() {
		s.store(ns, k, obj.Get(k), seen)
	}
}

func (s *Sandbox) bind(ns *core.Scope, obj *goja.Object) {
	if old, ok := s.objects[ns]; ok && old != obj {
		delete(s.scopes, old)
	}
	s.objects[ns] = obj
	s.scopes[obj] = ns
}

func (s *Sandbox) toJS(v any, seen map[*core.Scope]bool) goja.Value {
	switch tv := v.(type) {
	case goja.Value:
		return tv
	case *core.Scope:
		if tv == nil {
			return goja.Null()
		}
		obj, ok := s.objects[tv]
		if !ok {
			obj = s.vm.NewObject()
			s.bind(tv, obj)
		}
		if seen[tv] {
			return obj
		}
		seen[tv] = true
		for _, k := range tv.Keys() {
			nv, _ := tv.Get(k)
			_ = obj.Set(k, s.toJS(nv, seen))
		}
		return obj
	default:
		return s.vm.ToValue(v)
	}
}

// localsObject builds a fresh JS object for one render invocation.
func (s *Sandbox) localsObject(locals map[string]any) goja.Value {
	obj := s.vm.NewObject()
	keys := make([]string, 0, len(locals))
	for k := range locals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[*core.Scope]bool)
	for _, k := range keys {
		_ = obj.Set(k, s.toJS(locals[k], seen))
	}
	return obj
}

func (s *Sandbox) isOwn(obj *goja.Object, name string) bool {
	if s.hasOwn == nil {
		return obj.Get(name) != nil
	}
	res, err := s.hasOwn(obj, s.vm.ToValue(name))
	return err == nil && res.ToBoolean()
}

var reservedWords = map[string]bool{
	"arguments": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "eval": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true, "in": true,
	"instanceof": true, "interface": true, "let": true, "new": true, "null": true,
	"package": true, "private": true, "protected": true, "public": true, "return": true,
	"static": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true,
}

// isIdentifier reports whether name can be declared as a parameter, strict
// mode included.
func isIdentifier(name string) bool {
	if name == "" || reservedWords[name] {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

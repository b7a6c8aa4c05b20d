package usecase

import (
	"github.com/3-lines-studio/prerender/internal/core"
)

type fakeValue struct {
	props  map[string]*fakeValue
	render core.RenderFunc
}

func (v *fakeValue) Property(name string) (Value, bool) {
	p, ok := v.props[name]
	if !ok {
		return nil, false
	}
	return p, true
}

func (v *fakeValue) RenderFunc() (core.RenderFunc, bool) {
	return v.render, v.render != nil
}

// fakeSandbox runs Go closures in place of scripts and simulates
// asynchronous completions with a FIFO queue drained by Settle.
type fakeSandbox struct {
	scripts   map[string]func(scope *core.Scope) error
	modules   map[string]*fakeValue
	moduleErr error

	ran        []string
	evalScopes []*core.Scope
	queue      []func()
	settles    int
}

func newFakeSandbox() *fakeSandbox {
	return &fakeSandbox{
		scripts: make(map[string]func(scope *core.Scope) error),
		modules: make(map[string]*fakeValue),
	}
}

func (f *fakeSandbox) RunScript(name, source string, scope *core.Scope) error {
	f.ran = append(f.ran, name)
	if fn, ok := f.scripts[name]; ok {
		return fn(scope)
	}
	return nil
}

func (f *fakeSandbox) EvalModule(name, source string, scope *core.Scope) (Value, error) {
	f.ran = append(f.ran, name)
	f.evalScopes = append(f.evalScopes, scope)
	if f.moduleErr != nil {
		return nil, f.moduleErr
	}
	if v, ok := f.modules[name]; ok {
		return v, nil
	}
	return &fakeValue{}, nil
}

func (f *fakeSandbox) Settle(issue func()) error {
	f.settles++
	issue()
	for len(f.queue) > 0 {
		next := f.queue[0]
		f.queue = f.queue[1:]
		next()
	}
	return nil
}

func (f *fakeSandbox) Close() error {
	return nil
}

func (f *fakeSandbox) later(fn func()) {
	f.queue = append(f.queue, fn)
}

type memStore map[string]core.Asset

func (m memStore) Asset(name string) (core.Asset, bool) {
	a, ok := m[name]
	return a, ok
}

func (m memStore) SetAsset(name string, asset core.Asset) {
	m[name] = asset
}

func (m memStore) html(name string) (string, bool) {
	a, ok := m[name]
	if !ok {
		return "", false
	}
	return a.Source(), true
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/google/go-cmp/cmp"
)

func newRenderFixture(render core.RenderFunc) (*fakeSandbox, *core.Compilation, memStore) {
	store, chunks := entryStore()
	sb := newFakeSandbox()
	if render != nil {
		sb.modules["main"] = &fakeValue{render: render}
	}
	comp := core.NewCompilation(store, chunks)
	comp.PublicPath = "/static/"
	comp.Stats = map[string]any{"hash": "abc123"}
	return sb, comp, store
}

func pathRender(locals map[string]any, settle func(core.RenderResult, error)) {
	settle(core.SingleResult(fmt.Sprintf("<h1>%s</h1>", locals["path"])), nil)
}

func TestRenderSiteWritesOneAssetPerPath(t *testing.T) {
	sb, comp, store := newRenderFixture(pathRender)

	out := NewRenderService(sb).RenderSite(context.Background(), RenderSiteInput{
		Config:      core.NewRenderConfig("main", core.WithPaths("/", "/about", "/contact.html")),
		Compilation: comp,
	})

	if out.Error != nil {
		t.Fatalf("RenderSite() error = %v", out.Error)
	}
	if comp.HasErrors() {
		t.Fatalf("unexpected build errors: %v", comp.Errors())
	}

	want := map[string]string{
		"index.html":       "<h1>/</h1>",
		"about/index.html": "<h1>/about</h1>",
		"contact.html":     "<h1>/contact.html</h1>",
	}
	for name, html := range want {
		got, ok := store.html(name)
		if !ok {
			t.Errorf("asset %s not written", name)
			continue
		}
		if got != html {
			t.Errorf("asset %s = %q, want %q", name, got, html)
		}
	}

	if diff := cmp.Diff([]string{"about/index.html"}, out.Pages[1].Assets); diff != "" {
		t.Errorf("page assets mismatch (-want +got):\n%s", diff)
	}
	if sb.settles != 1 {
		t.Errorf("renders should be issued in one settle, got %d", sb.settles)
	}
}

func TestRenderSiteDefaultsToRoot(t *testing.T) {
	sb, comp, store := newRenderFixture(pathRender)

	out := NewRenderService(sb).RenderSite(context.Background(), RenderSiteInput{
		Config:      core.RenderConfig{Entry: "main"},
		Compilation: comp,
	})

	if len(out.Pages) != 1 || out.Pages[0].Path != "/" {
		t.Fatalf("pages = %+v, want only /", out.Pages)
	}
	if _, ok := store.html("index.html"); !ok {
		t.Error("index.html not written")
	}
}

func TestRenderSiteLocals(t *testing.T) {
	var seen []map[string]any
	render := func(locals map[string]any, settle func(core.RenderResult, error)) {
		seen = append(seen, locals)
		settle(core.SingleResult("ok"), nil)
	}
	sb, comp, _ := newRenderFixture(render)

	NewRenderService(sb).RenderSite(context.Background(), RenderSiteInput{
		Config: core.NewRenderConfig("main",
			core.WithPaths("/a", "/b"),
			core.WithLocals(map[string]any{"title": "Site", "buildStats": "shadowed"}),
		),
		Compilation: comp,
	})

	if len(seen) != 2 {
		t.Fatalf("render called %d times, want 2", len(seen))
	}

	want := map[string]any{
		"path":       "/a",
		"assets":     map[string]string{"main": "/static/main.js"},
		"buildStats": "shadowed",
		"title":      "Site",
	}
	if diff := cmp.Diff(want, seen[0]); diff != "" {
		t.Errorf("locals mismatch (-want +got):\n%s", diff)
	}
	if seen[1]["path"] != "/b" {
		t.Errorf("second render path = %v", seen[1]["path"])
	}
}

func TestRenderSiteMultiDocumentResult(t *testing.T) {
	render := func(locals map[string]any, settle func(core.RenderResult, error)) {
		settle(core.MultiResult(
			core.Document{Path: "/a", HTML: "<h1>A</h1>"},
			core.Document{Path: "/b", HTML: "<h1>B</h1>"},
		), nil)
	}
	sb, comp, store := newRenderFixture(render)

	out := NewRenderService(sb).RenderSite(context.Background(), RenderSiteInput{
		Config:      core.NewRenderConfig("main", core.WithPaths("/x")),
		Compilation: comp,
	})

	if out.Error != nil || comp.HasErrors() {
		t.Fatalf("unexpected errors: %v %v", out.Error, comp.Errors())
	}
	if got, _ := store.html("a/index.html"); got != "<h1>A</h1>" {
		t.Errorf("a/index.html = %q", got)
	}
	if got, _ := store.html("b/index.html"); got != "<h1>B</h1>" {
		t.Errorf("b/index.html = %q", got)
	}
	if _, ok := store.html("x/index.html"); ok {
		t.Error("x/index.html must not be written for a mapping result")
	}
}

func TestRenderSiteIsolatesFailingPaths(t *testing.T) {
	render := func(locals map[string]any, settle func(core.RenderResult, error)) {
		if locals["path"] == "/broken" {
			settle(core.RenderResult{}, errors.New("boom"))
			return
		}
		pathRender(locals, settle)
	}
	sb, comp, store := newRenderFixture(render)

	out := NewRenderService(sb).RenderSite(context.Background(), RenderSiteInput{
		Config:      core.NewRenderConfig("main", core.WithPaths("/broken", "/ok")),
		Compilation: comp,
	})

	if out.Error != nil {
		t.Fatalf("per-path failures must not be fatal: %v", out.Error)
	}
	if errs := comp.Errors(); len(errs) != 1 {
		t.Fatalf("build errors = %v, want exactly one", errs)
	}
	if _, ok := store.html("ok/index.html"); !ok {
		t.Error("ok/index.html not written")
	}
	if _, ok := store.html("broken/index.html"); ok {
		t.Error("broken/index.html must not be written")
	}

	var renderErr *core.RenderError
	if !errors.As(out.Pages[0].Err, &renderErr) || renderErr.Path != "/broken" {
		t.Errorf("page error = %v, want RenderError for /broken", out.Pages[0].Err)
	}
	if len(out.Failed()) != 1 {
		t.Errorf("Failed() = %v", out.Failed())
	}
}

func TestRenderSiteOutOfOrderCompletion(t *testing.T) {
	var sb *fakeSandbox
	var order []string
	render := func(locals map[string]any, settle func(core.RenderResult, error)) {
		path := locals["path"].(string)
		if path == "/slow" {
			// Completes after everything issued later.
			sb.later(func() {
				sb.later(func() {
					order = append(order, path)
					settle(core.SingleResult("slow"), nil)
				})
			})
			return
		}
		sb.later(func() {
			order = append(order, path)
			settle(core.SingleResult("fast"), nil)
		})
	}

	var comp *core.Compilation
	var store memStore
	sb, comp, store = newRenderFixture(render)

	out := NewRenderService(sb).RenderSite(context.Background(), RenderSiteInput{
		Config:      core.NewRenderConfig("main", core.WithPaths("/slow", "/fast")),
		Compilation: comp,
	})

	if out.Error != nil || comp.HasErrors() {
		t.Fatalf("unexpected errors: %v %v", out.Error, comp.Errors())
	}
	if diff := cmp.Diff([]string{"/fast", "/slow"}, order); diff != "" {
		t.Errorf("completion order mismatch (-want +got):\n%s", diff)
	}
	if got, _ := store.html("slow/index.html"); got != "slow" {
		t.Errorf("slow/index.html = %q", got)
	}
	if out.Pages[0].Path != "/slow" || out.Pages[1].Path != "/fast" {
		t.Errorf("pages should keep declared order: %+v", out.Pages)
	}
}

func TestRenderSiteUnsettledRender(t *testing.T) {
	render := func(locals map[string]any, settle func(core.RenderResult, error)) {
		if locals["path"] == "/hang" {
			return
		}
		pathRender(locals, settle)
	}
	sb, comp, store := newRenderFixture(render)

	out := NewRenderService(sb).RenderSite(context.Background(), RenderSiteInput{
		Config:      core.NewRenderConfig("main", core.WithPaths("/hang", "/ok")),
		Compilation: comp,
	})

	if !errors.Is(out.Pages[0].Err, core.ErrRenderUnsettled) {
		t.Errorf("hang error = %v, want ErrRenderUnsettled", out.Pages[0].Err)
	}
	if _, ok := store.html("ok/index.html"); !ok {
		t.Error("ok/index.html not written")
	}
}

func TestRenderSiteIgnoresSecondSettle(t *testing.T) {
	render := func(locals map[string]any, settle func(core.RenderResult, error)) {
		settle(core.SingleResult("first"), nil)
		settle(core.RenderResult{}, errors.New("late"))
	}
	sb, comp, store := newRenderFixture(render)

	out := NewRenderService(sb).RenderSite(context.Background(), RenderSiteInput{
		Config:      core.NewRenderConfig("main"),
		Compilation: comp,
	})

	if out.Pages[0].Err != nil || comp.HasErrors() {
		t.Errorf("second settle must be ignored: %v", comp.Errors())
	}
	if got, _ := store.html("index.html"); got != "first" {
		t.Errorf("index.html = %q", got)
	}
}

func TestRenderSiteSetupFailures(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		prepare func(sb *fakeSandbox, store memStore, chunks *core.ChunkIndex)
		wantErr any
	}{
		{
			name:    "no entry configured",
			entry:   "",
			wantErr: new(*core.EntryNotFoundError),
		},
		{
			name:    "entry chunk missing",
			entry:   "nope",
			wantErr: new(*core.EntryNotFoundError),
		},
		{
			name:  "entry not callable",
			entry: "main",
			prepare: func(sb *fakeSandbox, _ memStore, _ *core.ChunkIndex) {
				sb.modules["main"] = &fakeValue{}
			},
			wantErr: new(*core.InvalidEntryExportError),
		},
		{
			name:  "vendor throws",
			entry: "main",
			prepare: func(sb *fakeSandbox, store memStore, chunks *core.ChunkIndex) {
				store["manifest.js"] = core.RawSource("")
				store["vendor.js"] = core.RawSource("")
				chunks.Add("manifest", "manifest.js")
				chunks.Add("vendor", "vendor.js")
				sb.scripts["vendor"] = func(*core.Scope) error {
					return &core.ScriptError{Script: "vendor", Err: errors.New("ReferenceError")}
				}
			},
			wantErr: new(*core.ScriptError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered := 0
			sb, comp, store := newRenderFixture(func(locals map[string]any, settle func(core.RenderResult, error)) {
				rendered++
				settle(core.SingleResult("x"), nil)
			})
			if tt.prepare != nil {
				tt.prepare(sb, store, comp.Chunks)
			}
			before := len(store)

			out := NewRenderService(sb).RenderSite(context.Background(), RenderSiteInput{
				Config:      core.NewRenderConfig(tt.entry, core.WithPaths("/", "/about")),
				Compilation: comp,
			})

			if !errors.As(out.Error, tt.wantErr) {
				t.Fatalf("error = %T %v, want %T", out.Error, out.Error, tt.wantErr)
			}
			if errs := comp.Errors(); len(errs) != 1 {
				t.Errorf("build errors = %v, want exactly one", errs)
			}
			if rendered != 0 || sb.settles != 0 || len(out.Pages) != 0 {
				t.Errorf("no render may be attempted: rendered=%d settles=%d pages=%d", rendered, sb.settles, len(out.Pages))
			}
			if len(store) != before {
				t.Errorf("setup failure wrote %d assets", len(store)-before)
			}
		})
	}
}

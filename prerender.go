package prerender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/3-lines-studio/prerender/internal/adapters/js"
	"github.com/3-lines-studio/prerender/internal/assets"
	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/3-lines-studio/prerender/internal/ctxlog"
	"github.com/3-lines-studio/prerender/internal/usecase"
)

type Asset = core.Asset

type RawSource = core.RawSource

type AssetStore = core.AssetStore

type ChunkIndex = core.ChunkIndex

type Compilation = core.Compilation

type RenderConfig = core.RenderConfig

type MemoryStore = assets.MemoryStore

type Result = usecase.RenderSiteOutput

type PageResult = usecase.PageResult

type (
	EntryNotFoundError      = core.EntryNotFoundError
	InvalidEntryExportError = core.InvalidEntryExportError
	ScriptError             = core.ScriptError
	RenderError             = core.RenderError
)

var (
	ErrRenderUnsettled = core.ErrRenderUnsettled
	ErrEmptyRender     = core.ErrEmptyRender
)

func NewChunkIndex() *ChunkIndex {
	return core.NewChunkIndex()
}

func NewCompilation(store AssetStore, chunks *ChunkIndex) *Compilation {
	return core.NewCompilation(store, chunks)
}

func NewMemoryStore() *MemoryStore {
	return assets.NewMemoryStore()
}

// Plugin renders the compiled entry chunk into static HTML documents, one per
// configured path.
type Plugin struct {
	entry      string
	renderOpts []core.RenderOption
	logger     *slog.Logger
	newSandbox func() (usecase.Sandbox, error)
}

type Option func(*Plugin)

func WithPaths(paths ...string) Option {
	return func(p *Plugin) {
		p.renderOpts = append(p.renderOpts, core.WithPaths(paths...))
	}
}

// WithLocals adds values passed to every render call next to path, assets
// and buildStats. Keys with those names replace the built-in values.
func WithLocals(locals map[string]any) Option {
	return func(p *Plugin) {
		p.renderOpts = append(p.renderOpts, core.WithLocals(locals))
	}
}

// WithGlobals seeds the global scope the bundle is evaluated in. A "window"
// key holding a map becomes the window object shared with runtime scripts.
func WithGlobals(globals map[string]any) Option {
	return func(p *Plugin) {
		p.renderOpts = append(p.renderOpts, core.WithGlobals(globals))
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Plugin) {
		p.logger = logger
	}
}

func New(entry string, opts ...Option) *Plugin {
	p := &Plugin{
		entry: entry,
		newSandbox: func() (usecase.Sandbox, error) {
			return js.NewSandbox()
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromArgs builds a plugin from positional arguments. paths may be a
// single path or a list of paths.
func NewFromArgs(entry string, paths any, locals, globals map[string]any) (*Plugin, error) {
	var list []string
	switch tv := paths.(type) {
	case nil:
	case string:
		list = []string{tv}
	case []string:
		list = tv
	case []any:
		for i, item := range tv {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("paths[%d]: expected a string, got %T", i, item)
			}
			list = append(list, s)
		}
	default:
		return nil, fmt.Errorf("paths: expected a string or a list of strings, got %T", paths)
	}

	opts := []Option{WithPaths(list...)}
	if locals != nil {
		opts = append(opts, WithLocals(locals))
	}
	if globals != nil {
		opts = append(opts, WithGlobals(globals))
	}
	return New(entry, opts...), nil
}

// Config returns the render configuration the plugin applies.
func (p *Plugin) Config() RenderConfig {
	return core.NewRenderConfig(p.entry, p.renderOpts...)
}

// Apply renders every configured path into comp. It returns once every render
// has completed; failures are recorded on comp as well as in the result.
func (p *Plugin) Apply(ctx context.Context, comp *Compilation) Result {
	if p.logger != nil {
		ctx = ctxlog.WithLogger(ctx, p.logger)
	}
	logger := ctxlog.FromContext(ctx)

	sandbox, err := p.newSandbox()
	if err != nil {
		err = fmt.Errorf("failed to start JavaScript runtime: %w", err)
		comp.AddError(err)
		logger.Error("sandbox init failed", "error", err)
		return Result{Error: err}
	}
	defer func() { _ = sandbox.Close() }()

	service := usecase.NewRenderService(sandbox)
	return service.RenderSite(ctx, usecase.RenderSiteInput{
		Config:      p.Config(),
		Compilation: comp,
	})
}

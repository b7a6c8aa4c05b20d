package usecase

import (
	"context"
	"maps"
	"time"

	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/3-lines-studio/prerender/internal/ctxlog"
)

type RenderSiteInput struct {
	Config      core.RenderConfig
	Compilation *core.Compilation
}

type RenderSiteOutput struct {
	Pages []PageResult
	Error error
}

// PageResult is the outcome of rendering one requested path.
type PageResult struct {
	Path     string
	Assets   []string
	Err      error
	Duration time.Duration
}

func (o RenderSiteOutput) Failed() []PageResult {
	var failed []PageResult
	for _, p := range o.Pages {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}

type RenderService struct {
	sandbox Sandbox
}

func NewRenderService(sandbox Sandbox) *RenderService {
	return &RenderService{
		sandbox: sandbox,
	}
}

// RenderSite renders every configured path into the compilation's assets.
// Setup failures abort the run with a single build error; render failures
// are recorded per path and never stop sibling paths.
func (s *RenderService) RenderSite(ctx context.Context, input RenderSiteInput) RenderSiteOutput {
	logger := ctxlog.FromContext(ctx)
	comp := input.Compilation
	config := input.Config

	render, assets, err := s.setup(config, comp)
	if err != nil {
		comp.AddError(err)
		logger.Error("render setup failed", "entry", config.Entry, "error", err)
		return RenderSiteOutput{Error: err}
	}

	paths := core.NormalizePaths(config.Paths)
	pages := make([]PageResult, len(paths))
	settled := make([]bool, len(paths))

	err = s.sandbox.Settle(func() {
		for i, outputPath := range paths {
			i, outputPath := i, outputPath
			pages[i].Path = outputPath
			start := time.Now()

			locals := core.BuildLocals(outputPath, maps.Clone(assets), comp.Stats, config.Locals)
			logger.Debug("render issued", "path", outputPath)

			render(locals, func(result core.RenderResult, err error) {
				if settled[i] {
					return
				}
				settled[i] = true
				pages[i].Duration = time.Since(start)

				if err != nil {
					pages[i].Err = &core.RenderError{Path: outputPath, Err: err}
					return
				}
				pages[i].Assets = writeDocuments(comp.Assets, result.Documents(outputPath))
			})
		}
	})
	if err != nil {
		comp.AddError(err)
		logger.Error("render loop failed", "error", err)
		return RenderSiteOutput{Pages: pages, Error: err}
	}

	for i := range pages {
		if !settled[i] {
			pages[i].Err = &core.RenderError{Path: pages[i].Path, Err: core.ErrRenderUnsettled}
		}
		if pages[i].Err != nil {
			comp.AddError(pages[i].Err)
			logger.Warn("render failed", "path", pages[i].Path, "error", pages[i].Err)
			continue
		}
		logger.Debug("ssr render timing", "path", pages[i].Path, "duration", pages[i].Duration, "assets", pages[i].Assets)
	}

	return RenderSiteOutput{Pages: pages}
}

func (s *RenderService) setup(config core.RenderConfig, comp *core.Compilation) (core.RenderFunc, map[string]string, error) {
	if config.Entry == "" {
		return nil, nil, &core.EntryNotFoundError{Entry: config.Entry}
	}
	if _, ok := core.FindAsset(config.Entry, comp.Assets, comp.Chunks); !ok {
		return nil, nil, &core.EntryNotFoundError{Entry: config.Entry}
	}

	scope, err := BuildGlobalScope(s.sandbox, config.GlobalScope(), comp.Assets, comp.Chunks)
	if err != nil {
		return nil, nil, err
	}

	assets := core.BuildAssetURLs(comp.Chunks, comp.PublicPath)

	render, err := EvaluateEntry(s.sandbox, config.Entry, comp.Assets, comp.Chunks, scope)
	if err != nil {
		return nil, nil, err
	}

	return render, assets, nil
}

func writeDocuments(store core.AssetStore, docs []core.Document) []string {
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		name := core.PathToAssetName(doc.Path)
		store.SetAsset(name, core.RawSource(doc.HTML))
		names = append(names, name)
	}
	return names
}

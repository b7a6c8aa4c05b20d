package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/3-lines-studio/prerender/internal/adapters/cli"
	"github.com/3-lines-studio/prerender/internal/assets"
	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/3-lines-studio/prerender/internal/ctxlog"
)

var ErrBuildFailed = errors.New("build finished with errors")

// BuildInput describes a finished bundler run to prerender from disk.
type BuildInput struct {
	Config     core.RenderConfig
	OutputDir  string
	Chunks     *core.ChunkIndex
	PublicPath string
	Stats      any
}

type BuildOutput struct {
	Render RenderSiteOutput
	Errors []string
	Files  []string
	Error  error
}

type BuildService struct {
	newSandbox SandboxFactory
	fs         FileSystem
	cli        CLIOutput
}

func NewBuildService(newSandbox SandboxFactory, fs FileSystem, cli CLIOutput) *BuildService {
	return &BuildService{
		newSandbox: newSandbox,
		fs:         fs,
		cli:        cli,
	}
}

// BuildSite loads the build output directory, renders every configured path
// and writes the documents next to the compiled assets.
func (s *BuildService) BuildSite(ctx context.Context, input BuildInput) BuildOutput {
	logger := ctxlog.FromContext(ctx)
	s.cli.PrintHeader("Prerender")

	report := cli.NewBuildReport(s.cli, input.OutputDir)
	report.SetPathCount(len(core.NormalizePaths(input.Config.Paths)))

	stepLoad := report.StartStep("Loading build output")
	store, err := assets.LoadDir(s.fs, input.OutputDir)
	if err != nil {
		report.EndStep(stepLoad, false, err.Error())
		return BuildOutput{Error: err}
	}
	report.EndStep(stepLoad, true, "")
	logger.Debug("build output loaded", "dir", input.OutputDir, "assets", len(store.Names()))

	comp := core.NewCompilation(store, input.Chunks)
	comp.PublicPath = input.PublicPath
	comp.Stats = input.Stats

	stepRender := report.StartStep("Rendering paths")
	render := s.render(ctx, input.Config, comp)
	if render.Error != nil {
		report.AddError(input.Config.Entry, core.Diagnostic(render.Error))
	}
	for _, page := range render.Failed() {
		report.AddError(page.Path, core.Diagnostic(page.Err))
	}
	report.EndStep(stepRender, !comp.HasErrors(), "")

	stepWrite := report.StartStep("Writing documents")
	files, err := assets.Flush(s.fs, input.OutputDir, store)
	for _, file := range files {
		report.AddFile(file)
	}
	if err != nil {
		report.EndStep(stepWrite, false, err.Error())
		report.Render()
		return BuildOutput{Render: render, Errors: comp.Errors(), Files: files, Error: err}
	}
	report.EndStep(stepWrite, true, "")

	report.Render()

	out := BuildOutput{
		Render: render,
		Errors: comp.Errors(),
		Files:  files,
	}
	if comp.HasErrors() {
		out.Error = fmt.Errorf("%w: %d error(s)", ErrBuildFailed, len(out.Errors))
	}
	return out
}

func (s *BuildService) render(ctx context.Context, config core.RenderConfig, comp *core.Compilation) RenderSiteOutput {
	sandbox, err := s.newSandbox()
	if err != nil {
		err = fmt.Errorf("failed to start JavaScript runtime: %w", err)
		comp.AddError(err)
		return RenderSiteOutput{Error: err}
	}
	defer func() { _ = sandbox.Close() }()

	return NewRenderService(sandbox).RenderSite(ctx, RenderSiteInput{
		Config:      config,
		Compilation: comp,
	})
}

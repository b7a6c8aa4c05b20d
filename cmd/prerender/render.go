package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/prerender/internal/adapters/cli"
	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/adapters/js"
	"github.com/3-lines-studio/prerender/internal/adapters/stats"
	"github.com/3-lines-studio/prerender/internal/ctxlog"
	"github.com/3-lines-studio/prerender/internal/usecase"
)

func newSandbox() (usecase.Sandbox, error) {
	return js.NewSandbox()
}

func runRender(cmd *cobra.Command, opts *options) error {
	logger := newLogger(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())
	ctx := ctxlog.WithLogger(cmd.Context(), logger)
	output := cli.NewOutput()

	if err := setupEngineLogger(opts.logLevel); err != nil {
		output.PrintError("Failed to create engine logger: %v", err)
		return err
	}

	fsys := fs.NewOSFileSystem()
	proj, err := loadProject(ctx, fsys, opts, cmd.Flags())
	if err != nil {
		output.PrintError("%v", err)
		return err
	}
	logger.Debug("project resolved",
		"config", proj.configPath,
		"stats", proj.statsPath,
		"dir", proj.dir,
		"entry", proj.config.Entry,
		"paths", proj.config.Paths)

	service := usecase.NewBuildService(newSandbox, fsys, output)
	result := service.BuildSite(ctx, usecase.BuildInput{
		Config:     proj.config,
		OutputDir:  proj.dir,
		Chunks:     proj.chunks,
		PublicPath: proj.publicPath,
		Stats:      proj.buildStats,
	})

	if opts.report != "" {
		data, err := stats.EncodeReport(result.Render, result.Errors)
		if err == nil {
			err = fsys.WriteFile(opts.report, data, 0644)
		}
		if err != nil {
			output.PrintError("Failed to write report: %v", err)
			return err
		}
	}

	if result.Error != nil {
		return result.Error
	}

	output.PrintDone(fmt.Sprintf("Rendered %d file(s)", len(result.Files)))
	return nil
}

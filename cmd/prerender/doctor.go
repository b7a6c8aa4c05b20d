package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/3-lines-studio/prerender/internal/adapters/cli"
	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/assets"
	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/3-lines-studio/prerender/internal/ctxlog"
)

var errDoctorFailed = errors.New("project check failed")

func newDoctorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the config, stats file and entry chunk can be resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())
			ctx := ctxlog.WithLogger(cmd.Context(), logger)
			output := cli.NewOutputTo(cmd.OutOrStdout(), cmd.ErrOrStderr())

			return runDoctor(ctx, output, fs.NewOSFileSystem(), opts, cmd.Flags())
		},
	}
}

func runDoctor(ctx context.Context, output *cli.Output, fsys fs.FileSystem, opts *options, flags *pflag.FlagSet) error {
	proj, err := loadProject(ctx, fsys, opts, flags)
	if err != nil {
		output.PrintError("%v", err)
		return errDoctorFailed
	}
	return checkProject(output, fsys, proj)
}

func checkProject(output *cli.Output, fsys fs.FileSystem, proj *project) error {
	output.PrintHeader("Prerender Doctor")
	ok := true

	if proj.configPath != "" {
		output.PrintSuccess("Config: %s", proj.configPath)
	} else {
		output.PrintWarning("No config file, using flags only")
	}

	if proj.statsPath != "" {
		output.PrintSuccess("Stats: %s (%d chunks)", proj.statsPath, proj.chunks.Len())
	} else {
		output.PrintWarning("No stats file in %s, entry must be an asset name", proj.dir)
	}

	store, err := assets.LoadDir(fsys, proj.dir)
	if err != nil {
		output.PrintError("%v", err)
		return errDoctorFailed
	}
	output.PrintSuccess("Build output: %s (%d assets)", proj.dir, len(store.Names()))

	entry := proj.config.Entry
	if entry == "" {
		output.PrintError("No entry configured")
		ok = false
	} else if _, found := core.FindAsset(entry, store, proj.chunks); !found {
		output.PrintError("%v", &core.EntryNotFoundError{Entry: entry})
		ok = false
	} else {
		output.PrintSuccess("Entry: %s", entry)
	}

	for _, chunk := range []string{"manifest", "vendor"} {
		if _, found := core.FindAsset(chunk, store, proj.chunks); found {
			output.PrintStep("", "%s chunk runs before the entry", chunk)
		}
	}

	for _, p := range proj.config.Paths {
		output.PrintFile(core.PathToAssetName(p))
	}

	if !ok {
		return errDoctorFailed
	}
	output.PrintDone("Project looks good")
	return nil
}

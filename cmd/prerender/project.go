package main

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/3-lines-studio/prerender/internal/adapters/config"
	"github.com/3-lines-studio/prerender/internal/adapters/env"
	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/adapters/stats"
	"github.com/3-lines-studio/prerender/internal/core"
)

// project is the resolved input of one run: config file values overridden
// by flags, plus what the stats file says about the build.
type project struct {
	configPath string
	statsPath  string
	dir        string
	config     core.RenderConfig
	chunks     *core.ChunkIndex
	publicPath string
	buildStats any
}

func loadProject(ctx context.Context, fsys fs.FileSystem, opts *options, flags *pflag.FlagSet) (*project, error) {
	p := &project{dir: opts.dir}

	file := &config.File{}
	if p.configPath = env.ConfigPath(fsys, opts.config); p.configPath != "" {
		loaded, err := config.Load(ctx, fsys, p.configPath, config.EnvMap(os.Environ()))
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	entry := file.Entry
	if flags.Changed("entry") {
		entry = opts.entry
	}
	paths := file.Paths
	if flags.Changed("path") {
		paths = opts.paths
	}
	if file.OutputDir != "" && !flags.Changed("dir") {
		p.dir = file.OutputDir
	}

	p.statsPath = file.Stats
	if flags.Changed("stats") {
		p.statsPath = opts.stats
	}
	explicitStats := p.statsPath != ""
	if !explicitStats {
		p.statsPath = filepath.Join(p.dir, "stats.json")
	}

	p.chunks = core.NewChunkIndex()
	data, err := fsys.ReadFile(p.statsPath)
	switch {
	case err == nil:
		st, err := stats.Parse(data)
		if err != nil {
			return nil, err
		}
		p.chunks = st.Chunks
		p.publicPath = st.PublicPath
		p.buildStats = st.Raw
	case errors.Is(err, iofs.ErrNotExist) && !explicitStats:
		// Without stats the entry must name an asset directly.
		p.statsPath = ""
	default:
		return nil, err
	}

	if file.PublicPath != nil {
		p.publicPath = *file.PublicPath
	}
	if flags.Changed("public-path") {
		p.publicPath = opts.publicPath
	}

	renderOpts := []core.RenderOption{core.WithPaths(paths...)}
	if file.Locals != nil {
		renderOpts = append(renderOpts, core.WithLocals(file.Locals))
	}
	if file.Globals != nil {
		renderOpts = append(renderOpts, core.WithGlobals(file.Globals))
	}
	p.config = core.NewRenderConfig(entry, renderOpts...)

	return p, nil
}

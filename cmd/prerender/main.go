package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type options struct {
	config     string
	stats      string
	dir        string
	entry      string
	paths      []string
	publicPath string
	report     string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "prerender",
		Short: "Render a compiled JavaScript bundle into static HTML files",
		Long: `prerender loads the entry chunk of a finished bundler build, calls its
exported render function once per path and writes the returned HTML next to
the compiled assets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	addProjectFlags(cmd.PersistentFlags(), opts)
	cmd.Flags().StringVar(&opts.report, "report", "", "write a JSON render report to this file")

	cmd.AddCommand(newDoctorCmd(opts))

	return cmd
}

func addProjectFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVarP(&opts.config, "config", "c", "", "config file (.hcl, .yaml); defaults to $PRERENDER_CONFIG or ./prerender.hcl")
	flags.StringVar(&opts.stats, "stats", "", "bundler stats file (default <dir>/stats.json)")
	flags.StringVarP(&opts.dir, "dir", "d", "dist", "build output directory")
	flags.StringVarP(&opts.entry, "entry", "e", "", "entry chunk or asset name")
	flags.StringArrayVarP(&opts.paths, "path", "p", nil, "output path to render (repeatable)")
	flags.StringVar(&opts.publicPath, "public-path", "", "prefix for asset URLs (default from stats)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")
}

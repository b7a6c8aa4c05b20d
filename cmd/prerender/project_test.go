package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/3-lines-studio/prerender/internal/adapters/env"
	"github.com/3-lines-studio/prerender/internal/adapters/fs"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func parseFlags(t *testing.T, args ...string) (*options, *pflag.FlagSet) {
	t.Helper()
	opts := &options{}
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addProjectFlags(flags, opts)
	if err := flags.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return opts, flags
}

const statsJSON = `{
	"publicPath": "/static/",
	"hash": "deadbeef",
	"assetsByChunkName": {"main": ["main.js", "main.js.map"]}
}`

func TestLoadProjectFromConfigFile(t *testing.T) {
	t.Setenv(env.ConfigVar, "")
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"prerender.hcl": `
entry      = "main"
paths      = ["/", "/about"]
output_dir = "` + filepath.ToSlash(filepath.Join(root, "public")) + `"
locals     = { title = "Site" }
`,
		"public/stats.json": statsJSON,
	})

	opts, flags := parseFlags(t, "--config", filepath.Join(root, "prerender.hcl"))
	proj, err := loadProject(context.Background(), fs.NewOSFileSystem(), opts, flags)
	if err != nil {
		t.Fatalf("loadProject() error = %v", err)
	}

	if proj.config.Entry != "main" {
		t.Errorf("Entry = %q", proj.config.Entry)
	}
	if diff := cmp.Diff([]string{"/", "/about"}, proj.config.Paths); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
	if proj.config.Locals["title"] != "Site" {
		t.Errorf("Locals = %v", proj.config.Locals)
	}
	if proj.config.Globals != nil {
		t.Errorf("Globals = %v, want nil", proj.config.Globals)
	}
	if proj.publicPath != "/static/" {
		t.Errorf("publicPath = %q, want the stats value", proj.publicPath)
	}
	if primary, _ := proj.chunks.Primary("main"); primary != "main.js" {
		t.Errorf("Primary(main) = %q", primary)
	}
	if stats, ok := proj.buildStats.(map[string]any); !ok || stats["hash"] != "deadbeef" {
		t.Errorf("buildStats = %v", proj.buildStats)
	}
}

func TestLoadProjectFlagsOverrideConfig(t *testing.T) {
	t.Setenv(env.ConfigVar, "")
	root := t.TempDir()
	dist := filepath.Join(root, "dist")
	writeFiles(t, root, map[string]string{
		"prerender.yaml":  "entry: main\npaths: /from-file\npublic_path: /file/\n",
		"dist/stats.json": statsJSON,
	})

	opts, flags := parseFlags(t,
		"--config", filepath.Join(root, "prerender.yaml"),
		"--dir", dist,
		"--entry", "main.js",
		"--path", "/a", "--path", "/b",
		"--public-path", "/cdn/",
	)
	proj, err := loadProject(context.Background(), fs.NewOSFileSystem(), opts, flags)
	if err != nil {
		t.Fatalf("loadProject() error = %v", err)
	}

	if proj.config.Entry != "main.js" {
		t.Errorf("Entry = %q, want the flag value", proj.config.Entry)
	}
	if diff := cmp.Diff([]string{"/a", "/b"}, proj.config.Paths); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
	if proj.publicPath != "/cdn/" {
		t.Errorf("publicPath = %q, want the flag value", proj.publicPath)
	}
	if proj.dir != dist {
		t.Errorf("dir = %q", proj.dir)
	}
}

func TestLoadProjectWithoutStats(t *testing.T) {
	t.Setenv(env.ConfigVar, "")
	dist := t.TempDir()

	opts, flags := parseFlags(t, "--dir", dist, "--entry", "main.js")
	proj, err := loadProject(context.Background(), fs.NewOSFileSystem(), opts, flags)
	if err != nil {
		t.Fatalf("loadProject() error = %v", err)
	}
	if proj.statsPath != "" || proj.chunks.Len() != 0 {
		t.Errorf("stats = %q with %d chunks, want none", proj.statsPath, proj.chunks.Len())
	}
	if diff := cmp.Diff([]string{"/"}, proj.config.Paths); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProjectErrors(t *testing.T) {
	t.Setenv(env.ConfigVar, "")
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"bad.hcl":         `entry = `,
		"dist/stats.json": `{"assetsByChunkName": `,
	})

	tests := []struct {
		name string
		args []string
	}{
		{name: "broken config", args: []string{"--config", filepath.Join(root, "bad.hcl")}},
		{name: "missing explicit stats", args: []string{"--dir", root, "--stats", filepath.Join(root, "nope.json")}},
		{name: "broken stats", args: []string{"--dir", filepath.Join(root, "dist")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, flags := parseFlags(t, tt.args...)
			if _, err := loadProject(context.Background(), fs.NewOSFileSystem(), opts, flags); err == nil {
				t.Error("loadProject() error = nil")
			}
		})
	}
}

package env

import (
	"testing"
	"testing/fstest"

	"github.com/3-lines-studio/prerender/internal/adapters/fs"
)

func TestConfigPath(t *testing.T) {
	withYAML := fs.NewReadOnlyFileSystem(fstest.MapFS{"prerender.yaml": {Data: []byte("entry: main\n")}})
	empty := fs.NewReadOnlyFileSystem(fstest.MapFS{})

	tests := []struct {
		name     string
		fsys     fs.FileSystem
		explicit string
		envValue string
		want     string
	}{
		{name: "explicit wins", fsys: withYAML, explicit: "site.hcl", envValue: "env.hcl", want: "site.hcl"},
		{name: "environment", fsys: withYAML, envValue: "env.hcl", want: "env.hcl"},
		{name: "default file", fsys: withYAML, want: "prerender.yaml"},
		{name: "nothing", fsys: empty, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigVar, tt.envValue)
			if got := ConfigPath(tt.fsys, tt.explicit); got != tt.want {
				t.Errorf("ConfigPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

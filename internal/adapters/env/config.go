package env

import (
	"os"

	"github.com/3-lines-studio/prerender/internal/adapters/fs"
)

const ConfigVar = "PRERENDER_CONFIG"

var defaultConfigFiles = []string{"prerender.hcl", "prerender.yaml", "prerender.yml"}

// ConfigPath picks the project config file: an explicit path first, then
// PRERENDER_CONFIG, then the first default file present in the working
// directory. It returns "" when there is none.
func ConfigPath(fsys fs.FileSystem, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(ConfigVar); p != "" {
		return p
	}
	for _, name := range defaultConfigFiles {
		if fsys.FileExists(name) {
			return name
		}
	}
	return ""
}

package core

import (
	"path"
	"strings"
)

// PathToAssetName derives the output asset name for a request path:
// "/about" -> "about/index.html", "/about.html" -> "about.html".
func PathToAssetName(outputPath string) string {
	name := outputPath
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		name = name[1:]
	}

	if !hasHTMLExt(name) {
		name = path.Join(name, "index.html")
	}

	return name
}

func hasHTMLExt(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

// NormalizePaths returns the paths to render, defaulting to the site root.
func NormalizePaths(paths []string) []string {
	if len(paths) == 0 {
		return []string{"/"}
	}
	return append([]string(nil), paths...)
}

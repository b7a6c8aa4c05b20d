package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/ctxlog"
)

var ErrUnknownFormat = errors.New("unknown config format")

// File is a project configuration file. Empty fields are left to flags and
// defaults.
type File struct {
	Entry      string
	Paths      []string
	Locals     map[string]any
	Globals    map[string]any
	Stats      string
	OutputDir  string
	PublicPath *string
}

// Load reads a config file, choosing the decoder from its extension.
func Load(ctx context.Context, fsys fs.FileSystem, path string, env map[string]string) (*File, error) {
	logger := ctxlog.FromContext(ctx)

	src, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		file, err = DecodeHCL(path, src, env)
	case ".yaml", ".yml":
		file, err = DecodeYAML(src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("config loaded", "path", path, "entry", file.Entry, "paths", len(file.Paths))
	return file, nil
}

// pathList accepts the paths setting as one string or a list of strings.
func pathList(v any) ([]string, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{tv}, nil
	case []string:
		return tv, nil
	case []any:
		paths := make([]string, 0, len(tv))
		for i, item := range tv {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("paths[%d]: expected a string, got %T", i, item)
			}
			paths = append(paths, s)
		}
		return paths, nil
	default:
		return nil, fmt.Errorf("paths: expected a string or a list of strings, got %T", v)
	}
}

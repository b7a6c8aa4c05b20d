package core

// RenderConfig describes one build's render run.
type RenderConfig struct {
	Entry   string
	Paths   []string
	Locals  map[string]any
	Globals map[string]any
}

type RenderOption func(*RenderConfig)

func NewRenderConfig(entry string, opts ...RenderOption) RenderConfig {
	config := RenderConfig{Entry: entry}
	for _, opt := range opts {
		opt(&config)
	}
	config.Paths = NormalizePaths(config.Paths)
	return config
}

func WithPaths(paths ...string) RenderOption {
	return func(c *RenderConfig) {
		c.Paths = append(c.Paths, paths...)
	}
}

func WithLocals(locals map[string]any) RenderOption {
	return func(c *RenderConfig) {
		if c.Locals == nil {
			c.Locals = make(map[string]any, len(locals))
		}
		for k, v := range locals {
			c.Locals[k] = v
		}
	}
}

func WithGlobals(globals map[string]any) RenderOption {
	return func(c *RenderConfig) {
		if c.Globals == nil {
			c.Globals = make(map[string]any, len(globals))
		}
		for k, v := range globals {
			c.Globals[k] = v
		}
	}
}

// GlobalScope returns the seed scope built from Globals, or nil when none
// were configured.
func (c RenderConfig) GlobalScope() *Scope {
	if c.Globals == nil {
		return nil
	}
	return ScopeFromMap(c.Globals)
}

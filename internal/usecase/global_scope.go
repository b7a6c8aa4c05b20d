package usecase

import (
	"github.com/3-lines-studio/prerender/internal/core"
)

const (
	manifestChunk = "manifest"
	vendorChunk   = "vendor"
	windowKey     = "window"
)

// BuildGlobalScope runs the manifest and vendor chunks in one shared sandbox
// and returns the window namespace they populated. Without both chunks the
// seed is returned untouched.
func BuildGlobalScope(sb Sandbox, seed *core.Scope, store core.AssetStore, chunks *core.ChunkIndex) (*core.Scope, error) {
	manifest, ok := core.FindAsset(manifestChunk, store, chunks)
	if !ok {
		return seed, nil
	}
	vendor, ok := core.FindAsset(vendorChunk, store, chunks)
	if !ok {
		return seed, nil
	}

	sandbox := seed.Clone()
	window := sandbox.Namespace(windowKey)

	if err := sb.RunScript(manifestChunk, manifest.Source(), sandbox); err != nil {
		return nil, err
	}

	sandbox.Merge(window)

	if err := sb.RunScript(vendorChunk, vendor.Source(), sandbox); err != nil {
		return nil, err
	}

	return sandbox.Namespace(windowKey), nil
}

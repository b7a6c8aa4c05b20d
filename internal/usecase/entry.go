package usecase

import (
	"github.com/3-lines-studio/prerender/internal/core"
)

// EvaluateEntry evaluates the entry chunk once and returns its render
// function. Both `module.exports = fn` and a default export are accepted.
func EvaluateEntry(sb Sandbox, entry string, store core.AssetStore, chunks *core.ChunkIndex, scope *core.Scope) (core.RenderFunc, error) {
	if entry == "" {
		return nil, &core.EntryNotFoundError{Entry: entry}
	}

	asset, ok := core.FindAsset(entry, store, chunks)
	if !ok {
		return nil, &core.EntryNotFoundError{Entry: entry}
	}

	exports, err := sb.EvalModule(entry, asset.Source(), scope)
	if err != nil {
		return nil, err
	}

	if def, ok := exports.Property("default"); ok {
		exports = def
	}

	render, ok := exports.RenderFunc()
	if !ok {
		return nil, &core.InvalidEntryExportError{Entry: entry}
	}
	return render, nil
}

package core

// FindAsset resolves a logical chunk name to its compiled asset. An empty
// name selects the first chunk of the index. Names that are already asset
// names resolve directly.
func FindAsset(name string, store AssetStore, chunks *ChunkIndex) (Asset, bool) {
	if name == "" {
		names := chunks.Names()
		if len(names) == 0 {
			return nil, false
		}
		name = names[0]
	}

	if store == nil {
		return nil, false
	}

	if asset, ok := store.Asset(name); ok {
		return asset, true
	}

	assetName, ok := chunks.Primary(name)
	if !ok {
		return nil, false
	}
	return store.Asset(assetName)
}

package core

// Asset is a named text output of a compilation.
type Asset interface {
	Source() string
}

// RawSource is an Asset holding its text verbatim.
type RawSource string

func (s RawSource) Source() string {
	return string(s)
}

// AssetStore is the compilation's mutable asset set. Renders only add or
// overwrite entries; nothing is ever removed.
type AssetStore interface {
	Asset(name string) (Asset, bool)
	SetAsset(name string, asset Asset)
}

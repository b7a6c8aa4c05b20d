package core

// ChunkIndex maps logical chunk names to the asset names the bundler emitted
// for them, in the order the chunks were reported.
type ChunkIndex struct {
	names  []string
	assets map[string][]string
}

func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{assets: make(map[string][]string)}
}

// Add registers assets for a chunk. Adding to an existing chunk appends
// without changing its position.
func (c *ChunkIndex) Add(chunk string, assets ...string) {
	if c.assets == nil {
		c.assets = make(map[string][]string)
	}
	if _, ok := c.assets[chunk]; !ok {
		c.names = append(c.names, chunk)
	}
	c.assets[chunk] = append(c.assets[chunk], assets...)
}

func (c *ChunkIndex) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

func (c *ChunkIndex) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

func (c *ChunkIndex) Lookup(chunk string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	assets, ok := c.assets[chunk]
	return assets, ok
}

// Primary returns the canonical asset of a chunk. Bundlers emitting source
// maps list the bundle first.
func (c *ChunkIndex) Primary(chunk string) (string, bool) {
	assets, ok := c.Lookup(chunk)
	if !ok || len(assets) == 0 {
		return "", false
	}
	return assets[0], true
}

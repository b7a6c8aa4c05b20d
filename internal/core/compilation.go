package core

import "sync"

// Compilation is the state of one build shared with the host build tool. It
// is created at build start and read when the build is finalised.
type Compilation struct {
	Assets     AssetStore
	Chunks     *ChunkIndex
	PublicPath string
	Stats      any

	mu     sync.Mutex
	errors []string
}

func NewCompilation(assets AssetStore, chunks *ChunkIndex) *Compilation {
	if chunks == nil {
		chunks = NewChunkIndex()
	}
	return &Compilation{Assets: assets, Chunks: chunks}
}

func (c *Compilation) AddError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, Diagnostic(err))
}

func (c *Compilation) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}

func (c *Compilation) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors) > 0
}

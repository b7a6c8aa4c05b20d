package stats

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/3-lines-studio/prerender/internal/core"
)

var ErrInvalidStats = errors.New("invalid stats file")

// Stats is the part of a bundler stats file a render run needs.
type Stats struct {
	PublicPath string
	Chunks     *core.ChunkIndex
	// Raw is the whole decoded document, handed to renders as buildStats.
	Raw any
}

// Parse reads a stats.json document. Chunks keep the order in which the
// bundler listed them so the first chunk stays the default entry.
func Parse(data []byte) (*Stats, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidStats
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidStats)
	}

	byChunk := doc.Get("assetsByChunkName")
	if !byChunk.Exists() {
		// Multi-compiler stats nest one compilation per child.
		byChunk = doc.Get("children.0.assetsByChunkName")
	}

	chunks := core.NewChunkIndex()
	var chunkErr error
	byChunk.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.Type == gjson.String:
			chunks.Add(key.String(), value.String())
		case value.IsArray():
			var names []string
			for _, item := range value.Array() {
				names = append(names, item.String())
			}
			chunks.Add(key.String(), names...)
		default:
			chunkErr = fmt.Errorf("%w: chunk %q has no asset names", ErrInvalidStats, key.String())
			return false
		}
		return true
	})
	if chunkErr != nil {
		return nil, chunkErr
	}

	return &Stats{
		PublicPath: doc.Get("publicPath").String(),
		Chunks:     chunks,
		Raw:        doc.Value(),
	}, nil
}

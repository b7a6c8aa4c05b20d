package core

// BuildAssetURLs projects the chunk index into chunk name -> public URL. The
// public path is prepended verbatim.
func BuildAssetURLs(chunks *ChunkIndex, publicPath string) map[string]string {
	urls := make(map[string]string, chunks.Len())
	for _, chunk := range chunks.Names() {
		assetName, ok := chunks.Primary(chunk)
		if !ok {
			continue
		}
		urls[chunk] = publicPath + assetName
	}
	return urls
}

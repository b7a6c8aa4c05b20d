package core

// Document is one rendered HTML document.
type Document struct {
	Path string
	HTML string
}

// RenderFunc is the normalised render capability of an entry module. It must
// call settle exactly once.
type RenderFunc func(locals map[string]any, settle func(RenderResult, error))

// RenderResult is what one render call produced: either a single HTML string
// for the requested path or a mapping of paths to HTML.
type RenderResult struct {
	html  string
	docs  []Document
	multi bool
}

func SingleResult(html string) RenderResult {
	return RenderResult{html: html}
}

func MultiResult(docs ...Document) RenderResult {
	return RenderResult{docs: docs, multi: true}
}

func (r RenderResult) IsMulti() bool {
	return r.multi
}

// Documents returns the documents to emit for a render of requestPath.
func (r RenderResult) Documents(requestPath string) []Document {
	if r.multi {
		return append([]Document(nil), r.docs...)
	}
	return []Document{{Path: requestPath, HTML: r.html}}
}

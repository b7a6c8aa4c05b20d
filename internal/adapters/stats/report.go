package stats

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/3-lines-studio/prerender/internal/usecase"
)

// EncodeReport renders the outcome of a render run as JSON. errs are the
// build diagnostics recorded on the compilation.
func EncodeReport(out usecase.RenderSiteOutput, errs []string) ([]byte, error) {
	doc := []byte(`{"ok":true,"pages":[],"errors":[]}`)

	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	set("ok", out.Error == nil && len(out.Failed()) == 0 && len(errs) == 0)
	if out.Error != nil {
		set("setupError", out.Error.Error())
	}

	for _, page := range out.Pages {
		entry := map[string]any{
			"path":       page.Path,
			"assets":     page.Assets,
			"durationMs": page.Duration.Milliseconds(),
		}
		if page.Assets == nil {
			entry["assets"] = []string{}
		}
		if page.Err != nil {
			entry["error"] = page.Err.Error()
		}
		set("pages.-1", entry)
	}

	for _, e := range errs {
		set("errors.-1", e)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to encode render report: %w", err)
	}
	return doc, nil
}

package document

import (
	"encoding/json"
	"log/slog"
	"maps"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// CopyData deep-copies a node's data payload by a JSON round trip, so the
// copy shares no nested maps or slices with the source. Payloads that do not
// survive encoding fall back to a shallow copy.
func CopyData(d scene.Data) scene.Data {
	if d == nil {
		return nil
	}
	raw, err := json.Marshal(d)
	if err == nil {
		var out scene.Data
		if err = json.Unmarshal(raw, &out); err == nil {
			if out == nil {
				out = scene.Data{}
			}
			return out
		}
	}
	slog.Warn("data payload is not JSON, copying shallow", "error", err)
	return maps.Clone(d)
}

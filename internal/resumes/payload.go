package resumes

import "encoding/json"

// DefaultData builds the starting payload for a new resume, seeded with the
// owner's basic profile fields. The payload is opaque to the store; this
// shape only matters to clients and the printer.
func DefaultData(name, email, pictureURL string) json.RawMessage {
	data := map[string]any{
		"basics": map[string]any{
			"name":  name,
			"email": email,
			"picture": map[string]any{
				"url": pictureURL,
			},
		},
		"sections": map[string]any{
			"summary":    map[string]any{"content": ""},
			"experience": map[string]any{"items": []any{}},
			"education":  map[string]any{"items": []any{}},
			"skills":     map[string]any{"items": []any{}},
		},
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

// extractedData wraps plain text pulled out of an uploaded file into a
// minimal payload the editor can refine.
func extractedData(text string) json.RawMessage {
	data := map[string]any{
		"basics": map[string]any{},
		"sections": map[string]any{
			"summary": map[string]any{"content": text},
		},
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

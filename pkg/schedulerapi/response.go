package schedulerapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 64 << 10

var messageKeys = []string{"detail", "message", "error"}

// readErrorMessage extracts a human-readable message from a failed
// response. JSON bodies yield their detail/message/error field, or the
// compacted document; anything else is returned as text. It never fails.
func readErrorMessage(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil && len(data) == 0 {
		return ""
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var payload any
		if err := json.Unmarshal(data, &payload); err == nil {
			if obj, ok := payload.(map[string]any); ok {
				for _, key := range messageKeys {
					if v, ok := obj[key].(string); ok && v != "" {
						return v
					}
				}
			}

			var buf bytes.Buffer
			if err := json.Compact(&buf, data); err == nil {
				return buf.String()
			}
		}
	}

	return strings.TrimSpace(string(data))
}

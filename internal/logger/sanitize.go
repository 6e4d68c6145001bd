package logger

import "strings"

// Redacted replaces sensitive values in sanitized payloads.
const Redacted = "REDACTED"

var sensitiveKeys = map[string]struct{}{
	"access_token":  {},
	"client_id":     {},
	"client_secret": {},
	"member_cid":    {},
	"token":         {},
}

// Sanitize returns a copy of payload that is safe to log. Credential
// fields are redacted, an Authorization header becomes "Bearer REDACTED"
// and resources lists are cut to maxRecords entries. Nested maps are
// sanitized recursively.
func Sanitize(payload map[string]any, maxRecords int) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		switch {
		case isSensitive(k):
			out[k] = Redacted
		case strings.EqualFold(k, "Authorization"):
			out[k] = "Bearer " + Redacted
		case k == "resources":
			out[k] = truncate(v, maxRecords)
		default:
			if nested, ok := v.(map[string]any); ok {
				out[k] = Sanitize(nested, maxRecords)
			} else {
				out[k] = v
			}
		}
	}
	return out
}

// SanitizeHeaders redacts Authorization and credential headers.
func SanitizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		switch {
		case strings.EqualFold(k, "Authorization"):
			out[k] = "Bearer " + Redacted
		case isSensitive(k):
			out[k] = Redacted
		default:
			out[k] = v
		}
	}
	return out
}

// SanitizeForm redacts form fields such as client_secret.
func SanitizeForm(form map[string]string) map[string]string {
	out := make(map[string]string, len(form))
	for k, v := range form {
		if isSensitive(k) {
			out[k] = Redacted
			continue
		}
		out[k] = v
	}
	return out
}

func isSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

func truncate(v any, maxRecords int) any {
	list, ok := v.([]any)
	if !ok || maxRecords <= 0 || len(list) <= maxRecords {
		return v
	}
	return list[:maxRecords]
}

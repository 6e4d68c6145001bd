package dispatch

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// interpret converts resp into the domain envelope.
func interpret(resp *http.Response, req domain.Request) *domain.Response {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ErrorResponse(domain.NewError(domain.KindTransport, "%s", err.Error()))
	}
	headers := flattenHeaders(resp.Header)

	if req.Container || isJSON(resp.Header.Get("Content-Type")) {
		return decodeJSON(raw, resp.StatusCode, headers)
	}

	if len(raw) == 0 && req.Authenticating {
		e := domain.NewError(domain.KindRegionSelect, "Unable to select a region from the authentication response.")
		return domain.ErrorResponse(e.WithHeaders(headers))
	}
	return domain.BinaryResponse(raw, resp.StatusCode, headers, req.ExpandResult)
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mediaType == "application/json" || mediaType == "text/plain"
}

func decodeJSON(raw []byte, status int, headers map[string]string) *domain.Response {
	if len(bytes.TrimSpace(raw)) == 0 {
		return domain.NewResponse(domain.Result{
			StatusCode: status,
			Headers:    headers,
			Body:       map[string]any{"errors": []any{}, "resources": []any{}},
		})
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if status >= 200 && status < 300 {
			e := domain.NewError(domain.KindProtocol, "Unable to parse API response: %s", err.Error())
			e.Status = http.StatusInternalServerError
			return domain.ErrorResponse(e.WithHeaders(headers))
		}
		msg := strings.TrimSpace(string(raw))
		if msg == "" || len(msg) > 512 {
			msg = http.StatusText(status)
		}
		e := domain.NewError(domain.KindProtocol, "%s", msg)
		e.Status = status
		return domain.ErrorResponse(e.WithHeaders(headers))
	}

	var body map[string]any
	switch v := decoded.(type) {
	case map[string]any:
		body = v
	case []any:
		body = map[string]any{"resources": v}
	default:
		body = map[string]any{"resources": []any{v}}
	}
	return domain.NewResponse(domain.Result{StatusCode: status, Headers: headers, Body: body})
}

// flattenHeaders joins repeated values with ", " under canonical keys.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[http.CanonicalHeaderKey(k)] = strings.Join(vs, ", ")
	}
	return out
}

package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// HeaderSDK identifies the SDK to the API alongside the user agent.
const HeaderSDK = "CrowdStrike-SDK"

func buildRequest(ctx context.Context, method string, req domain.Request) (*http.Request, error) {
	endpoint, err := withQuery(req.URL, req.Params)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && (len(req.Files) > 0 || httpReq.Header.Get("Content-Type") == "") {
		httpReq.Header.Set("Content-Type", contentType)
	}
	ua := req.Connection.EffectiveUserAgent()
	httpReq.Header.Set("User-Agent", ua)
	httpReq.Header.Set(HeaderSDK, ua)
	return httpReq, nil
}

// withQuery appends params to rawURL. Booleans are lower-cased and list
// values repeat the key.
func withQuery(rawURL string, params map[string]any) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", rawURL, err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range queryValues(params[k]) {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func queryValues(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, queryScalar(item))
		}
		return out
	default:
		return []string{queryScalar(val)}
	}
}

func queryScalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

// encodeBody returns the request body and its content type. Files take
// precedence and are sent multipart with Data as extra fields; otherwise
// Body is sent as JSON and Data form-encoded or verbatim.
func encodeBody(req domain.Request) (io.Reader, string, error) {
	if len(req.Files) > 0 {
		return encodeMultipart(req)
	}
	if req.Body != nil {
		if raw, ok := req.Body.([]byte); ok {
			return bytes.NewReader(raw), "application/json", nil
		}
		buf, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(buf), "application/json", nil
	}
	switch data := req.Data.(type) {
	case nil:
		return nil, "", nil
	case map[string]string:
		form := url.Values{}
		for k, v := range data {
			form.Set(k, v)
		}
		return strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil
	case []byte:
		return bytes.NewReader(data), "", nil
	case string:
		return strings.NewReader(data), "", nil
	default:
		return nil, "", fmt.Errorf("unsupported data payload %T", req.Data)
	}
}

func encodeMultipart(req domain.Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if fields, ok := req.Data.(map[string]string); ok {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := w.WriteField(k, fields[k]); err != nil {
				return nil, "", err
			}
		}
	}

	for _, f := range req.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.Field), escapeQuotes(f.Name)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

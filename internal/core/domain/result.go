package domain

// Result is the envelope every dispatched call returns, success or failure.
type Result struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       map[string]any    `json:"body"`
}

// Errors returns the messages listed under body.errors.
func (r Result) Errors() []string {
	list, ok := r.Body["errors"].([]any)
	if !ok {
		return nil
	}
	messages := make([]string, 0, len(list))
	for _, item := range list {
		if entry, ok := item.(map[string]any); ok {
			if msg, ok := entry["message"].(string); ok {
				messages = append(messages, msg)
			}
		}
	}
	return messages
}

// FirstError returns the first body.errors message, or "".
func (r Result) FirstError() string {
	if errs := r.Errors(); len(errs) > 0 {
		return errs[0]
	}
	return ""
}

// Resources returns body.resources.
func (r Result) Resources() []any {
	list, _ := r.Body["resources"].([]any)
	return list
}

// OK reports whether the status code is 2xx.
func (r Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Response is what the dispatch pipeline hands back. A JSON response
// carries Body; a binary download carries Raw and sets Binary. Binary
// responses only carry StatusCode and Headers when the caller asked for
// an expanded result.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       map[string]any
	Raw        []byte
	Binary     bool
}

// NewResponse wraps a Result.
func NewResponse(r Result) *Response {
	return &Response{StatusCode: r.StatusCode, Headers: r.Headers, Body: r.Body}
}

// BinaryResponse wraps a raw payload. Status and headers are kept only
// when expand is set.
func BinaryResponse(raw []byte, status int, headers map[string]string, expand bool) *Response {
	resp := &Response{Raw: raw, Binary: true}
	if expand {
		resp.StatusCode = status
		resp.Headers = headers
	}
	return resp
}

// IsBinary reports whether the response is an opaque payload.
func (r *Response) IsBinary() bool {
	return r.Binary
}

// Result returns the JSON envelope. It is the zero Result for binary payloads.
func (r *Response) Result() Result {
	if r.Binary {
		return Result{}
	}
	return Result{StatusCode: r.StatusCode, Headers: r.Headers, Body: r.Body}
}

// Expanded returns status, headers and content. Content is the Result
// envelope for JSON responses and the raw bytes for binary ones.
func (r *Response) Expanded() (int, map[string]string, any) {
	if r.Binary {
		return r.StatusCode, r.Headers, r.Raw
	}
	return r.StatusCode, r.Headers, r.Result()
}

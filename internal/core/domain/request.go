package domain

// File is one part of a multipart upload.
type File struct {
	Field       string
	Name        string
	Content     []byte
	ContentType string
}

// Request is a fully resolved call handed to the dispatcher.
type Request struct {
	// Operation names the call for logs and metrics.
	Operation string
	Method    string
	// URL is the absolute endpoint without query string.
	URL     string
	Headers map[string]string
	Params  map[string]any
	// Body is sent as JSON when non-nil.
	Body any
	// Data is sent form-encoded when it is a map[string]string and
	// verbatim when it is a []byte.
	Data          any
	Files         []File
	BodyValidator BodyValidator
	BodyRequired  []string
	Connection    Connection
	// Container forces JSON parsing regardless of content type.
	Container    bool
	ExpandResult bool
	// Authenticating marks token and revoke requests.
	Authenticating bool
}

// CommandOptions are the inputs of a generic command. Keywords is the
// untyped bag for query parameters matched by name against the operation.
type CommandOptions struct {
	Parameters  map[string]any
	Keywords    map[string]any
	Body        any
	Data        any
	Files       []File
	Headers     map[string]string
	ContentType string

	// Path placeholder values.
	Partition     string
	DistinctField string
	ImageID       string

	// Override is "METHOD,/route" for operations missing from the catalog.
	Override     string
	ExpandResult bool
}

// Keyword returns a keyword value and whether it was supplied.
func (o CommandOptions) Keyword(name string) (any, bool) {
	v, ok := o.Keywords[name]
	return v, ok
}

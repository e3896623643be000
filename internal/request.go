package internal

import "net/url"

// Request is the normalized request value handed to the dispatcher by a
// transport adapter. The core never reads from the network itself: by the
// time a Request exists, the query string and body have already been parsed
// and any uploaded files have been read into memory.
type Request struct {
	// Method is the HTTP method (GET, POST, ...), upper-case.
	Method string

	// Path is the request path, e.g. "/users/42". No query string.
	Path string

	// Query holds the parsed query string.
	Query url.Values

	// Body holds the parsed request body fields (JSON object or form fields).
	Body map[string]any

	// Headers holds the request headers, one value per name.
	Headers map[string]string

	// Files holds uploaded files keyed by field name.
	Files map[string]*UploadedFile
}

// Header returns the named header value or empty string.
// Lookup is exact; transports are expected to canonicalize names.
func (r *Request) Header(name string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers[name]
}

// Field returns the named body field. Uploaded files participate in the
// lookup so validation rules can treat file inputs like any other field.
func (r *Request) Field(name string) (any, bool) {
	if v, ok := r.Body[name]; ok {
		return v, true
	}
	if f, ok := r.Files[name]; ok {
		return f, true
	}
	return nil, false
}

// UploadedFile is an uploaded file as normalized by the transport.
// Content is fully read; Size is len(Content).
type UploadedFile struct {
	Filename string
	Size     int64
	Content  []byte
}

// FileName implements validator.File.
func (f *UploadedFile) FileName() string { return f.Filename }

// FileSize implements validator.File.
func (f *UploadedFile) FileSize() int64 { return f.Size }

// Bytes implements validator.File.
func (f *UploadedFile) Bytes() []byte { return f.Content }

// Response is the normalized response value returned to the transport.
type Response struct {
	// StatusCode is the HTTP status code (e.g. 200, 404, 422).
	StatusCode int

	// Body is the response payload. Transports encode it (typically JSON).
	Body any

	// Headers holds response headers to set, one value per name.
	Headers map[string]string
}

// NewResponse creates a Response with the given status code and body.
func NewResponse(code int, body any) *Response {
	return &Response{StatusCode: code, Body: body}
}

// SetHeader sets a response header, allocating the map lazily.
func (r *Response) SetHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[name] = value
}

package internal

import "net/http"

// Outcome is the structured API result a target method may return instead
// of a raw Response. The router converts it to a Response deterministically:
// the status code is taken from StatusCode when set, otherwise 200 for
// success and 400 for failure, and the Outcome itself becomes the body.
type Outcome struct {
	// Success reports whether the operation succeeded.
	Success bool `json:"success"`

	// Data is the operation payload.
	Data any `json:"data,omitempty"`

	// Message is an optional human-readable summary.
	Message string `json:"message,omitempty"`

	// Errors maps field names to their validation messages.
	Errors map[string][]string `json:"errors,omitempty"`

	// Meta carries auxiliary data (pagination, counters).
	Meta map[string]any `json:"meta,omitempty"`

	// StatusCode overrides the derived HTTP status code.
	StatusCode int `json:"-"`
}

// OK creates a successful outcome with the given payload.
func OK(data any) *Outcome {
	return &Outcome{Success: true, Data: data}
}

// Fail creates a failed outcome with the given status code and message.
func Fail(code int, message string) *Outcome {
	return &Outcome{Success: false, Message: message, StatusCode: code}
}

// WithMessage sets the outcome message.
func (o *Outcome) WithMessage(msg string) *Outcome {
	o.Message = msg
	return o
}

// WithMeta attaches one meta entry, allocating the map lazily.
func (o *Outcome) WithMeta(key string, value any) *Outcome {
	if o.Meta == nil {
		o.Meta = make(map[string]any)
	}
	o.Meta[key] = value
	return o
}

// WithStatus overrides the derived status code.
func (o *Outcome) WithStatus(code int) *Outcome {
	o.StatusCode = code
	return o
}

// Response converts the outcome to a normalized response value.
func (o *Outcome) Response() *Response {
	code := o.StatusCode
	if code == 0 {
		if o.Success {
			code = http.StatusOK
		} else {
			code = http.StatusBadRequest
		}
	}
	return &Response{StatusCode: code, Body: o}
}

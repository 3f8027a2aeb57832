package lambda

import (
	"fmt"
	"io"
	"net/http"
)

// FromHTTPRequest converts a net/http request into a Request.
// The path stays escaped; routers decode segments themselves.
func FromHTTPRequest(r *http.Request) (*Request, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	headers := make(map[string]string, len(r.Header))
	for k, vs := range r.Header {
		if len(vs) > 0 {
			headers[k] = vs[0]
		}
	}

	query := make(map[string]string)
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			query[k] = vs[0]
		}
	}

	return &Request{
		Method:      r.Method,
		Path:        r.URL.EscapedPath(),
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  make(map[string]string),
	}, nil
}

// Write copies the response onto a net/http response writer
func (r *Response) Write(w http.ResponseWriter) error {
	for k, v := range r.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(r.StatusCode)
	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

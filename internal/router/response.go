package router

import (
	"errors"
	"fmt"
	"net/http"
)

// Redirect is returned by actions to send the user elsewhere.
type Redirect struct {
	To      string
	Replace bool
}

// RedirectTo builds a pushing Redirect.
func RedirectTo(to string) Redirect { return Redirect{To: to} }

// Response is an error with a status, shown by the error boundary.
type Response struct {
	Status  int
	Message string
}

func (r *Response) Error() string {
	if r.Message == "" {
		return http.StatusText(r.Status)
	}
	return r.Message
}

// NotFound builds a 404 Response.
func NotFound(format string, args ...any) *Response {
	return &Response{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// StatusOf returns the status carried by err, 500 for plain errors and 0 for nil.
func StatusOf(err error) int {
	if err == nil {
		return 0
	}
	var resp *Response
	if errors.As(err, &resp) {
		return resp.Status
	}
	return http.StatusInternalServerError
}

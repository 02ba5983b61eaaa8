package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoHomeContent is returned when the API answers with an empty home-content list.
var ErrNoHomeContent = errors.New("content: no home content")

// NetworkError reports a request that did not produce a usable response: the
// transport failed, it timed out, or the server answered with an error status.
type NetworkError struct {
	Method     string
	Endpoint   string
	StatusCode int // zero when no response arrived
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not the expected JSON.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a submission the API rejected with a 4xx status.
// Fields holds per-field messages when the API sent them.
type ValidationError struct {
	StatusCode int
	Fields     map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("submission rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("submission rejected with status %d: %s", e.StatusCode, strings.Join(e.Messages(), "; "))
}

// Messages flattens Fields into "field: message" lines, sorted by field name.
func (e *ValidationError) Messages() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	var out []string
	for _, name := range names {
		for _, msg := range e.Fields[name] {
			out = append(out, name+": "+msg)
		}
	}
	return out
}

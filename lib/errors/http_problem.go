package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Problem is the RFC 7807 response body for API errors.
type Problem struct {
	// A URI reference that identifies the problem type; "about:blank" when
	// it carries no more information than the status code.
	Type string `json:"type"`

	// A short, human-readable summary of the problem type.
	Title string `json:"title,omitempty"`

	// The HTTP status code for this occurrence of the problem.
	Status int `json:"status,omitempty"`

	// A human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// A URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`
}

func NewStatusProblem(status int) Problem {
	return Problem{Type: "about:blank", Status: status, Detail: http.StatusText(status)}
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail
	return p
}

// NewErrorProblem maps a coded error to a problem whose type carries the
// error code.
func NewErrorProblem(err error, status int) Problem {
	p := Problem{Type: "about:blank", Status: status, Title: err.Error()}
	if e, ok := err.(*Error); ok {
		p.Type = fmt.Sprintf("https://devoter.xyz/problems/%d", e.Code)
	}

	return p
}

func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}

func (p Problem) SetDetail(detail string) Problem {
	p.Detail = detail
	return p
}

func (p Problem) Serialize() ([]byte, error) {
	return json.Marshal(p)
}

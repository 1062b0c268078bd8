package atlassian

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// Error represents a Jira REST error response.
type Error struct {
	StatusCode    int               `json:"-"`
	Message       string            `json:"message"`
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("atlassian: %d %s", e.StatusCode, detail)
	}

	return fmt.Sprintf("atlassian: %d", e.StatusCode)
}

// Detail flattens the response into one line: top-level messages first, then
// "field: message" pairs ordered by field, joined with "; ".
func (e *Error) Detail() string {
	if e == nil {
		return ""
	}

	parts := make([]string, 0, 1+len(e.ErrorMessages)+len(e.Errors))
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	for _, msg := range e.ErrorMessages {
		if msg = strings.TrimSpace(msg); msg != "" {
			parts = append(parts, msg)
		}
	}

	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Errors[field]))
	}

	return strings.Join(parts, "; ")
}

func parseError(res *http.Response) error {
	data, _ := io.ReadAll(res.Body)
	errRes := &Error{StatusCode: res.StatusCode}
	if len(data) > 0 {
		_ = json.Unmarshal(data, errRes)
	}

	if errRes.Message == "" && len(errRes.ErrorMessages) == 0 && len(errRes.Errors) == 0 {
		errRes.Message = strings.TrimSpace(string(data))
	}

	return errRes
}

package workflow

import (
	"errors"

	"github.com/ylchen07/jflow/internal/atlassian"
	"github.com/ylchen07/jflow/internal/config"
)

type messager interface {
	Message() string
}

// Message returns the single corrective line for err: the typed message of a
// resolution, validation or assign failure, the flattened Jira error, or err's text.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var m messager
	if errors.As(err, &m) {
		return m.Message()
	}

	var apiErr *atlassian.Error
	if errors.As(err, &apiErr) {
		if detail := apiErr.Detail(); detail != "" {
			return detail
		}
		return apiErr.Error()
	}

	var credErr *config.CredentialsError
	if errors.As(err, &credErr) {
		return credErr.Error()
	}

	return err.Error()
}

// Failures splits an error returned by Run into its per-action failures. Errors not
// produced by Run come back as a single unlabelled failure.
func Failures(err error) []*ActionError {
	if err == nil {
		return nil
	}

	var out []*ActionError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, Failures(e)...)
		}
		return out
	}

	var ae *ActionError
	if errors.As(err, &ae) {
		return []*ActionError{ae}
	}
	return []*ActionError{{Err: err}}
}

package auth

import (
	"encoding/base64"
	"net/http"

	"github.com/ylchen07/jflow/internal/config"
)

// UserAgent is sent with every request.
const UserAgent = "jflow"

// Authorization returns the Authorization header for creds. An OAuth token wins over
// user and API token; neither yields a *config.CredentialsError.
func Authorization(creds config.ServiceCredentials) (string, error) {
	switch {
	case creds.OAuthToken != "":
		return "Bearer " + creds.OAuthToken, nil
	case creds.User != "" && creds.APIToken != "":
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds.User+":"+creds.APIToken)), nil
	default:
		return "", &config.CredentialsError{Reason: "no oauth_token or user/api_token for Jira"}
	}
}

// Transport adds the Jira credentials and JSON headers to outbound requests. Requests
// fail before reaching the network when the credentials are unusable.
type Transport struct {
	base   http.RoundTripper
	header string
	err    error
}

// NewTransport wraps base, http.DefaultTransport when nil.
func NewTransport(base http.RoundTripper, creds config.ServiceCredentials) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	header, err := Authorization(creds)
	return &Transport{base: base, header: header, err: err}
}

// RoundTrip implements http.RoundTripper. The caller's request is not modified.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, t.err
	}

	out := req.Clone(req.Context())
	out.Header.Set("Authorization", t.header)
	out.Header.Set("Accept", "application/json")
	if out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", UserAgent)
	}
	return t.base.RoundTrip(out)
}

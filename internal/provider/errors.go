package provider

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jeanpaul/studymentor/internal/jsontext"
)

var (
	// ErrUnavailable is returned by Ask on a provider without a credential.
	ErrUnavailable = errors.New("AI provider not available")
	// ErrCredentialMissing is wrapped inside the unavailable error.
	ErrCredentialMissing = errors.New("API key not set")
)

func unavailable(name, hint string) error {
	return fmt.Errorf("%w: %s: %w (set %s)", ErrUnavailable, name, ErrCredentialMissing, hint)
}

// APIError is a non-success HTTP response. Body holds the raw response.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Body)
}

// Hint extracts a human-readable reason from the response.
func (e *APIError) Hint() string {
	if msg := jsontext.ExtractField(e.Body, "message"); msg != "" {
		return msg
	}

	switch e.StatusCode {
	case 400:
		return "bad request — the provider rejected the prompt"
	case 401:
		return "authentication failed — check your API key"
	case 403:
		return "access denied — your API key may not have the required permissions"
	case 404:
		return "model or endpoint not found"
	case 429:
		return "rate limited or quota exceeded, please wait"
	case 500:
		return "internal server error on the provider side"
	case 502, 503:
		return "provider service temporarily unavailable"
	}

	s := e.Body
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, s)
}

// TransportError is a network-level failure during the round trip.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error calling %s API: %s", e.Provider, friendlyTransportError(e.Err))
}

func (e *TransportError) Unwrap() error { return e.Err }

// friendlyTransportError converts common network errors to user-friendly messages.
func friendlyTransportError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "connection refused") {
		return "connection refused"
	}
	if strings.Contains(msg, "no such host") {
		return "host not found (check your network)"
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return "connection timed out"
	}
	if strings.Contains(msg, "EOF") {
		return "connection closed unexpectedly"
	}
	if strings.Contains(msg, "reset by peer") {
		return "connection reset by server"
	}
	return msg
}

// redact strips the query string from URLs in transport errors; the Gemini
// key travels there.
func redact(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil || u.RawQuery == "" {
		return err
	}
	u.RawQuery = ""
	return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
}

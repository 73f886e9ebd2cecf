// Package provider talks to the text-generation backends. Each backend is a
// strategy type that owns its request shape, how the API key travels and how
// the answer is cut out of the raw response body.
package provider

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jeanpaul/studymentor/internal/types"
)

// Environment variables holding credentials.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvGoogleKey = "GOOGLE_API_KEY" // fallback for Gemini
)

// Provider answers one question per blocking round trip.
type Provider interface {
	Name() string
	Kind() types.ProviderKind
	// Available reports whether a credential was found at construction.
	Available() bool
	Ask(ctx context.Context, question string) (string, error)
}

type options struct {
	model   string
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

type Option func(*options)

// WithModel overrides the provider's default model. Empty keeps the default.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithBaseURL points the provider at another API root. Empty keeps the default.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(model, baseURL string, opts []Option) options {
	o := options{
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{},
		log:     logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds the provider for kind with the credential found in the
// environment. A missing credential yields an unavailable provider, not an
// error.
func New(kind types.ProviderKind, opts ...Option) Provider {
	key := ResolveKey(kind)
	if kind == types.Gemini {
		return NewGoogle(key, opts...)
	}
	return NewOpenAI(key, opts...)
}

// ResolveKey looks up the credential for kind. Gemini reads GEMINI_API_KEY
// and falls back to GOOGLE_API_KEY when that is unset or empty.
func ResolveKey(kind types.ProviderKind) string {
	if kind == types.Gemini {
		if key := os.Getenv(EnvGeminiKey); key != "" {
			return key
		}
		return os.Getenv(EnvGoogleKey)
	}
	return os.Getenv(EnvOpenAIKey)
}

// KeyHint names the variables a user can set for kind.
func KeyHint(kind types.ProviderKind) string {
	if kind == types.Gemini {
		return EnvGeminiKey + " or " + EnvGoogleKey
	}
	return EnvOpenAIKey
}

// send performs the round trip and returns the body of a 2xx response.
// The body is read in full whatever the status, and always closed.
func send(client *http.Client, log *logrus.Entry, name string, req *http.Request) (string, error) {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return "", &TransportError{Provider: name, Err: redact(err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Provider: name, Err: redact(err)}
	}

	log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"bytes":   len(data),
		"latency": time.Since(start).Round(time.Millisecond),
	}).Debug("Provider round trip")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Provider: name, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return string(data), nil
}

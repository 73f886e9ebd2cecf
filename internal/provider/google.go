package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jeanpaul/studymentor/internal/jsontext"
	"github.com/jeanpaul/studymentor/internal/types"
)

const (
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// geminiMarker precedes the answer in generateContent output:
	// {"candidates":[{"content":{"parts":[{"text":"..."}]}}]}
	geminiMarker = `"text":`
)

// GoogleProvider calls the Gemini generateContent endpoint. The key travels
// as the "key" query parameter.
type GoogleProvider struct {
	apiKey string
	options
}

var _ Provider = (*GoogleProvider)(nil)

func NewGoogle(apiKey string, opts ...Option) *GoogleProvider {
	o := buildOptions(DefaultGeminiModel, DefaultGeminiBaseURL, opts)
	o.baseURL = strings.TrimRight(o.baseURL, "/")
	o.log = o.log.WithField("provider", "gemini")
	return &GoogleProvider{apiKey: apiKey, options: o}
}

func (g *GoogleProvider) Name() string             { return "Gemini" }
func (g *GoogleProvider) Kind() types.ProviderKind { return types.Gemini }
func (g *GoogleProvider) Available() bool          { return g.apiKey != "" }
func (g *GoogleProvider) ModelName() string        { return g.model }

func (g *GoogleProvider) Ask(ctx context.Context, question string) (string, error) {
	if !g.Available() {
		return "", unavailable(g.Name(), KeyHint(types.Gemini))
	}
	req, err := g.newRequest(ctx, question)
	if err != nil {
		return "", err
	}
	body, err := send(g.client, g.log, g.Name(), req)
	if err != nil {
		return "", err
	}
	return g.extractAnswer(body), nil
}

func (g *GoogleProvider) requestBody(question string) string {
	return `{"contents": [{"parts": [{"text": "` + jsontext.Wire.Escape(question) + `"}]}]}`
}

func (g *GoogleProvider) endpoint() string {
	return g.baseURL + "/models/" + url.PathEscape(g.model) + ":generateContent?key=" + url.QueryEscape(g.apiKey)
}

func (g *GoogleProvider) newRequest(ctx context.Context, question string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(),
		strings.NewReader(g.requestBody(question)))
	if err != nil {
		return nil, redact(err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	return req, nil
}

func (g *GoogleProvider) extractAnswer(body string) string {
	return scanAnswer(body, geminiMarker)
}

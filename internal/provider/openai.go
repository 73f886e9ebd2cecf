package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/jeanpaul/studymentor/internal/jsontext"
	"github.com/jeanpaul/studymentor/internal/types"
)

const (
	DefaultOpenAIModel   = "gpt-3.5-turbo"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	// openAIMarker precedes the answer in a chat completion:
	// {"choices":[{"message":{"role":"assistant","content":"..."}}]}
	openAIMarker = `"content":`
)

// OpenAIProvider sends one user message to the chat completions endpoint.
// The key travels as a bearer token.
type OpenAIProvider struct {
	apiKey string
	options
}

var _ Provider = (*OpenAIProvider)(nil)

func NewOpenAI(apiKey string, opts ...Option) *OpenAIProvider {
	o := buildOptions(DefaultOpenAIModel, DefaultOpenAIBaseURL, opts)
	o.baseURL = strings.TrimRight(o.baseURL, "/")
	o.log = o.log.WithField("provider", "openai")
	return &OpenAIProvider{apiKey: apiKey, options: o}
}

func (o *OpenAIProvider) Name() string             { return "OpenAI" }
func (o *OpenAIProvider) Kind() types.ProviderKind { return types.OpenAI }
func (o *OpenAIProvider) Available() bool          { return o.apiKey != "" }
func (o *OpenAIProvider) ModelName() string        { return o.model }

func (o *OpenAIProvider) Ask(ctx context.Context, question string) (string, error) {
	if !o.Available() {
		return "", unavailable(o.Name(), KeyHint(types.OpenAI))
	}
	req, err := o.newRequest(ctx, question)
	if err != nil {
		return "", err
	}
	body, err := send(o.client, o.log, o.Name(), req)
	if err != nil {
		return "", err
	}
	return o.extractAnswer(body), nil
}

func (o *OpenAIProvider) requestBody(question string) string {
	esc := jsontext.Wire.Escape
	return `{"model": "` + esc(o.model) + `",` +
		`"messages": [{"role": "user", "content": "` + esc(question) + `"}]}`
}

func (o *OpenAIProvider) newRequest(ctx context.Context, question string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions",
		strings.NewReader(o.requestBody(question)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	return req, nil
}

func (o *OpenAIProvider) extractAnswer(body string) string {
	return scanAnswer(body, openAIMarker)
}

// scanAnswer reads the quoted string after the first marker. Without one the
// raw body is handed back as a best-effort answer.
func scanAnswer(body, marker string) string {
	i := strings.Index(body, marker)
	if i < 0 {
		return body
	}
	raw, ok := jsontext.ReadQuoted(body, i+len(marker))
	if !ok {
		return body
	}
	return jsontext.Wire.Unescape(raw)
}

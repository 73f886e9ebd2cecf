package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatCompletion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "choices": [{
    "index": 0,
    "message": {"role": "assistant", "content": "Photosynthesis turns \"light\" into sugar.\nDone."},
    "finish_reason": "stop"
  }]
}`

func TestOpenAI_RequestShape(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(chatCompletion))
	}))
	defer server.Close()

	p := NewOpenAI("sk-test", WithBaseURL(server.URL+"/"))
	answer, err := p.Ask(context.Background(), "What is \"photosynthesis\"?\n\tExplain.")
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis turns \"light\" into sugar.\nDone.", answer)

	// the hand-built body must still be valid JSON carrying the question verbatim
	assert.JSONEq(t, `{
		"model": "gpt-3.5-turbo",
		"messages": [{"role": "user", "content": "What is \"photosynthesis\"?\n\tExplain."}]
	}`, gotBody)

	var decoded struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(gotBody), &decoded))
	assert.Equal(t, "What is \"photosynthesis\"?\n\tExplain.", decoded.Messages[0].Content)
}

func TestOpenAI_WithModel(t *testing.T) {
	p := NewOpenAI("k", WithModel("gpt-4o-mini"))
	assert.Equal(t, "gpt-4o-mini", p.ModelName())
	assert.Contains(t, p.requestBody("hi"), `"model": "gpt-4o-mini"`)

	p = NewOpenAI("k", WithModel(""))
	assert.Equal(t, DefaultOpenAIModel, p.ModelName())
}

func TestOpenAI_ErrorStatusCarriesBody(t *testing.T) {
	const body = `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(body))
	}))
	defer server.Close()

	p := NewOpenAI("bad", WithBaseURL(server.URL))
	_, err := p.Ask(context.Background(), "hi")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "OpenAI", apiErr.Provider)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, body, apiErr.Body)
	assert.Equal(t, "Incorrect API key provided", apiErr.Hint())
	assert.Contains(t, err.Error(), "OpenAI API error: 401")
}

func TestOpenAI_DegradedExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no marker", `{"result": "unexpected shape"}`},
		{"marker without string", `{"choices":[{"message":{"content": null}}]}`},
		{"plain text", "just text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			answer, err := NewOpenAI("k", WithBaseURL(server.URL)).Ask(context.Background(), "q")
			require.NoError(t, err)
			assert.Equal(t, tt.body, answer)
		})
	}
}

func TestOpenAI_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewOpenAI("k", WithBaseURL(url)).Ask(context.Background(), "q")
	require.Error(t, err)

	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "OpenAI", tErr.Provider)
	assert.Contains(t, err.Error(), "error calling OpenAI API")
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestScanAnswer(t *testing.T) {
	assert.Equal(t, "a\tb", scanAnswer(`{"content": "a\tb"}`, openAIMarker))
	assert.Equal(t, `é`, scanAnswer(`{"content":"é"}`, openAIMarker))
	assert.Equal(t, "first", scanAnswer(`"content":"first","content":"second"`, openAIMarker))
	assert.Equal(t, `{"content": "open`, scanAnswer(`{"content": "open`, openAIMarker))
}

// Package health checks that the configured providers answer.
package health

import (
	"context"
	"errors"
	"time"

	"github.com/jeanpaul/studymentor/internal/provider"
	"github.com/jeanpaul/studymentor/internal/types"
)

const (
	probePrompt  = "Say 'test successful' in 3 words"
	probeTimeout = 15 * time.Second
	previewLen   = 50
)

// DefaultModels are tried by ProbeModels when no list is given, cheapest first.
var DefaultModels = map[types.ProviderKind][]string{
	types.Gemini: {
		"gemini-2.0-flash-lite",
		"gemini-2.0-flash-lite-001",
		"gemini-2.0-flash",
		"gemini-2.5-flash-lite",
		"gemini-2.5-flash",
	},
	types.OpenAI: {
		"gpt-4o-mini",
		"gpt-3.5-turbo",
	},
}

type Status struct {
	Provider  string
	Model     string
	Available bool // a credential is configured
	Reachable bool // the probe prompt was answered
	Answer    string
	Error     string
	Latency   time.Duration
}

type modelNamer interface {
	ModelName() string
}

// Check sends a short prompt to p. An unavailable provider is reported
// without any request being made.
func Check(ctx context.Context, p provider.Provider) Status {
	s := Status{Provider: p.Name(), Available: p.Available()}
	if m, ok := p.(modelNamer); ok {
		s.Model = m.ModelName()
	}
	if !s.Available {
		s.Error = "no API key configured (set " + provider.KeyHint(p.Kind()) + ")"
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	answer, err := p.Ask(ctx, probePrompt)
	s.Latency = time.Since(start)
	if err != nil {
		s.Error = describe(err)
		return s
	}
	s.Reachable = true
	s.Answer = preview(answer)
	return s
}

// ProbeModels tries models in order with apiKey and stops at the first one
// that answers. Every attempted model is reported.
func ProbeModels(ctx context.Context, kind types.ProviderKind, apiKey string, models []string, opts ...provider.Option) []Status {
	if len(models) == 0 {
		models = DefaultModels[kind]
	}
	var out []Status
	for _, m := range models {
		o := append([]provider.Option{provider.WithModel(m)}, opts...)
		var p provider.Provider
		if kind == types.Gemini {
			p = provider.NewGoogle(apiKey, o...)
		} else {
			p = provider.NewOpenAI(apiKey, o...)
		}

		s := Check(ctx, p)
		out = append(out, s)
		if s.Reachable || !s.Available {
			break
		}
	}
	return out
}

// Working returns the first reachable status.
func Working(results []Status) (Status, bool) {
	for _, s := range results {
		if s.Reachable {
			return s, true
		}
	}
	return Status{}, false
}

func describe(err error) string {
	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Hint()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out after " + probeTimeout.String()
	}
	return err.Error()
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}

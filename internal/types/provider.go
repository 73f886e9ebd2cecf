package types

import "strings"

// ProviderKind identifies one of the supported text-generation backends.
type ProviderKind int

const (
	OpenAI ProviderKind = iota
	Gemini
)

// Kinds lists every provider in menu order.
func Kinds() []ProviderKind {
	return []ProviderKind{OpenAI, Gemini}
}

func (k ProviderKind) String() string {
	switch k {
	case Gemini:
		return "Gemini"
	default:
		return "OpenAI"
	}
}

// ParseProviderKind matches s case-insensitively against the provider names.
func ParseProviderKind(s string) (ProviderKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai":
		return OpenAI, true
	case "gemini", "google":
		return Gemini, true
	}
	return OpenAI, false
}

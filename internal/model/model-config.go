package model

type ProviderKind string

const (
	ProviderKindOpenAI  = ProviderKind("openai")
	ProviderKindNova    = ProviderKind("nova")
	ProviderKindOllama  = ProviderKind("ollama")
	ProviderKindOffline = ProviderKind("offline")
)

// ModelConfig is one row of the model registry. The table is built
// once at startup and never mutated.
type ModelConfig struct {
	Name      string
	ID        string
	Kind      ProviderKind
	MaxTokens int
}

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mohameodo/nova-v5/internal/model"
)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message  ollamaMessage `json:"message"`
	Response string        `json:"response"`
}

// OllamaProvider serves a self-hosted model server speaking the
// Ollama chat API.
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewOllamaProvider(baseURL string, httpClient *http.Client) *OllamaProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaProvider{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (p *OllamaProvider) SendMessage(ctx context.Context, messages []model.Message, modelID string) (string, error) {
	if err := validateHistory(messages); err != nil {
		return "", err
	}

	wireMessages := make([]ollamaMessage, 0, len(messages))
	for _, msg := range messages {
		wireMessages = append(
			wireMessages, ollamaMessage{
				Role:    string(msg.Role),
				Content: msg.Content,
			},
		)
	}

	body, err := json.Marshal(
		ollamaChatRequest{
			Model:    modelID,
			Messages: wireMessages,
			Stream:   false,
		},
	)
	if err != nil {
		return "", model.NewProviderError("failed to marshal chat request", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body),
	)
	if err != nil {
		return "", model.NewProviderError("failed to build chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", model.NewProviderError("model server unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.NewProviderError(fmt.Sprintf("model server error: %s", resp.Status), nil)
	}

	var chatResp ollamaChatResponse
	if err = json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", model.NewProviderError("malformed model server response", err)
	}
	if chatResp.Message.Content != "" {
		return chatResp.Message.Content, nil
	}
	return chatResp.Response, nil
}

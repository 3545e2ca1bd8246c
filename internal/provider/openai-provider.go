package provider

import (
	"context"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/mohameodo/nova-v5/internal/model"
)

const visionMaxTokens = 4096

var imageRefPattern = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)

// OpenAIProvider serves any OpenAI-compatible chat-completion API.
// The hosted default and the DeepSeek-backed "nova" backend are both
// this type with different base URLs.
type OpenAIProvider struct {
	client      *openai.Client
	temperature float32
}

func NewOpenAIProvider(apiKey, baseURL string, temperature float32) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(clientConfig),
		temperature: temperature,
	}
}

func (p *OpenAIProvider) SendMessage(ctx context.Context, messages []model.Message, modelID string) (string, error) {
	if err := validateHistory(messages); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:       modelID,
		Temperature: p.temperature,
		TopP:        1,
		N:           1,
		MaxTokens:   visionMaxTokens,
		Messages:    buildChatMessages(messages),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", model.NewProviderError("chat completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", model.NewProviderError("chat completion returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// buildChatMessages maps the transcript to the wire format. Messages
// carrying a markdown image reference are reshaped into multi-part
// content so vision-capable models receive the image separately from
// the text.
func buildChatMessages(messages []model.Message) []openai.ChatCompletionMessage {
	wireMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		imageURL, text, ok := splitImageRef(msg.Content)
		if !ok {
			wireMessages = append(
				wireMessages, openai.ChatCompletionMessage{
					Role:    string(msg.Role),
					Content: msg.Content,
				},
			)
			continue
		}
		wireMessages = append(
			wireMessages, openai.ChatCompletionMessage{
				Role: string(msg.Role),
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: text,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		)
	}
	return wireMessages
}

func splitImageRef(content string) (imageURL, text string, ok bool) {
	match := imageRefPattern.FindStringSubmatch(content)
	if match == nil {
		return "", "", false
	}
	text = strings.TrimSpace(imageRefPattern.ReplaceAllString(content, ""))
	return match[1], text, true
}

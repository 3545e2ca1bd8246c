// Package imagegen generates images through the OpenAI images API.
package imagegen

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/mohameodo/nova-v5/internal/model"
)

type Client struct {
	client *openai.Client
}

func NewClient(apiKey, baseURL string) *Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Generate renders one image for the prompt and returns it as a data
// URL, so the result embeds directly into a markdown message.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateImage(
		ctx, openai.ImageRequest{
			Model:          openai.CreateImageModelDallE2,
			Prompt:         prompt,
			N:              1,
			Size:           openai.CreateImageSize1024x1024,
			Quality:        openai.CreateImageQualityStandard,
			ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		},
	)
	if err != nil {
		return "", model.NewProviderError("image generation failed", err)
	}
	if len(resp.Data) == 0 {
		return "", model.NewProviderError("image generation returned no data", nil)
	}
	return fmt.Sprintf("data:image/png;base64,%s", resp.Data[0].B64JSON), nil
}

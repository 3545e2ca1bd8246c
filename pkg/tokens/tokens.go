package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mohameodo/nova-v5/internal/model"
)

const fallbackEncoding = "cl100k_base"

// Count estimates the prompt token footprint of a message history the
// way OpenAI meters chat completions: per-message framing overhead
// plus the encoded content.
func Count(messages []model.Message, modelID string) (int, error) {
	tke, err := tiktoken.EncodingForModel(modelID)
	if err != nil {
		tke, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return 0, fmt.Errorf("failed to load token encoding: %w", err)
		}
	}

	const tokensPerMessage = 4
	count := 3
	for _, msg := range messages {
		count += tokensPerMessage
		count += len(tke.Encode(string(msg.Role), nil, nil))
		count += len(tke.Encode(msg.Content, nil, nil))
	}
	return count, nil
}

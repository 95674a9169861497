package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rentradar/internal/models"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const blurbSystemPrompt = "You write one enthusiastic sentence (max 25 words) " +
	"telling a home seeker why a rental listing fits their search. " +
	"Plain text only, no emoji, no markdown."

// BlurbGenerator produces a short personalized line for a notification.
// Optional: when no API key is configured the dispatcher skips it and
// falls back to plain formatting.
type BlurbGenerator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewBlurbGenerator(apiKey, model string, logger *zap.Logger) *BlurbGenerator {
	return &BlurbGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

func (g *BlurbGenerator) Generate(ctx context.Context, property *models.Property) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	prompt := fmt.Sprintf("Listing: %s in %s, %s. Description: %s",
		property.Title, property.City, FormatPrice(property.Price), property.Description)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: blurbSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   60,
		Temperature: 0.7,
	})
	if err != nil {
		g.logger.Warn("blurb generation failed",
			zap.String("property_id", property.ID),
			zap.Error(err),
		)
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

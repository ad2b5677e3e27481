package openaix

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Config struct {
	BaseURL     string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey      string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model       string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-mini"`
	Temperature float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// Client produces free-form assistant replies. It is the external
// collaborator boundary: callers must treat failures as recoverable and keep
// their own state intact.
type Client struct {
	api          openaisdk.Client
	model        string
	temperature  float64
	systemPrompt string
}

func NewClient(cfg Config, systemPrompt string) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	return &Client{
		api:          openaisdk.NewClient(opts...),
		model:        strings.TrimSpace(cfg.Model),
		temperature:  cfg.Temperature,
		systemPrompt: systemPrompt,
	}, nil
}

func MustNew(cfg Config, systemPrompt string) *Client {
	client, err := NewClient(cfg, systemPrompt)
	if err != nil {
		panic(err)
	}
	return client
}

// Reply sends one structured {role, content} message and returns the model's
// reply. Unknown roles are coerced to "user", the way chat APIs expect.
func (c *Client) Reply(ctx context.Context, role, content string) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if c.systemPrompt != "" {
		messages = append(messages, openaisdk.SystemMessage(c.systemPrompt))
	}

	switch role {
	case "assistant":
		messages = append(messages, openaisdk.AssistantMessage(content))
	default:
		messages = append(messages, openaisdk.UserMessage(content))
	}

	completion, err := c.api.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(c.model),
		Messages:    messages,
		Temperature: openaisdk.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai: empty completion")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

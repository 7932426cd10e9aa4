package advisor

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// APIKeySetting is the settings key for the OpenAI API key.
const APIKeySetting = "OPENAI_API_KEY"

var ErrNotConfigured = errors.New("advisor: OPENAI_API_KEY not configured")

type Message struct {
	Role    string
	Content string
}

type CompletionRequest struct {
	Model       string
	System      string
	Messages    []Message
	Temperature float64
}

// LLMClient completes a chat transcript.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAIClient wraps the OpenAI SDK. The key can be replaced while the node is
// running, so the underlying client is rebuilt on SetAPIKey.
type OpenAIClient struct {
	mu      sync.RWMutex
	client  *openai.Client
	baseURL string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	c := &OpenAIClient{}
	c.SetAPIKey(apiKey)
	return c
}

func newOpenAIClientWithBaseURL(apiKey, baseURL string) *OpenAIClient {
	c := &OpenAIClient{baseURL: baseURL}
	c.SetAPIKey(apiKey)
	return c
}

func (c *OpenAIClient) SetAPIKey(apiKey string) {
	apiKey = strings.TrimSpace(apiKey)
	c.mu.Lock()
	defer c.mu.Unlock()
	if apiKey == "" {
		c.client = nil
		return
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(1)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)
	c.client = &client
}

func (c *OpenAIClient) Configured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client != nil
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client == nil {
		return "", ErrNotConfigured
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("advisor: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

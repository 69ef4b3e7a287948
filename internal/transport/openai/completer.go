package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/metrics"
)

// Compile-time check: Completer implements domain.Completer.
var _ domain.Completer = (*Completer)(nil)

// ChatConfig holds the chat completion provider settings.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Completer is an LLM provider over the OpenAI-compatible chat completions API.
// Each pipeline component gets its own copy via ForCallSite so metrics are labelled.
type Completer struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	callSite    string
	logger      *zap.Logger
}

// NewCompleter creates a chat completion provider.
func NewCompleter(cfg *ChatConfig) *Completer {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Completer{
		client:      newClient(cfg.APIKey, cfg.BaseURL),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     timeout,
		callSite:    "default",
		logger:      cfg.Logger,
	}
}

// ForCallSite returns a copy that labels metrics and logs with the given call site.
func (c *Completer) ForCallSite(site string) *Completer {
	cp := *c
	cp.callSite = site
	cp.logger = c.logger.With(zap.String("call_site", site))
	return &cp
}

// Complete sends instructions as the system message and input as the user message.
// The reply is returned trimmed; an empty reply is an error.
func (c *Completer) Complete(ctx context.Context, instructions, input string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instructions},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	metrics.LLMRequestDuration.WithLabelValues(c.callSite).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.callSite, "error").Inc()
		c.logger.Warn("LLM request failed", zap.Error(err))
		return "", parseAPIError("llm", err, domain.ErrLLMProviderError)
	}

	domain.UsageFromContext(ctx).AddLLMCall(resp.Usage.TotalTokens)
	metrics.LLMTokensTotal.WithLabelValues(c.callSite, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensTotal.WithLabelValues(c.callSite, "completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.LLMRequestsTotal.WithLabelValues(c.callSite, "empty").Inc()
		return "", fmt.Errorf("empty completion: %w", domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.callSite, "success").Inc()
	c.logger.Debug("LLM response received",
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability via ListModels.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

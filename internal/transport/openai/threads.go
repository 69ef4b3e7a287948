package openai

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// ThreadsConfig holds the hosted conversation service settings.
type ThreadsConfig struct {
	APIKey       string
	BaseURL      string
	AssistantID  string
	PollInterval time.Duration
	PollTimeout  time.Duration
	Logger       *zap.Logger
}

// Threads is the stateful conversation thread service (assistants threads and runs).
type Threads struct {
	client       *openai.Client
	assistantID  string
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *zap.Logger
}

// NewThreads creates a thread service client.
func NewThreads(cfg *ThreadsConfig) *Threads {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Threads{
		client:       newClient(cfg.APIKey, cfg.BaseURL),
		assistantID:  cfg.AssistantID,
		pollInterval: interval,
		pollTimeout:  timeout,
		logger:       cfg.Logger,
	}
}

// HasAssistant reports whether hosted runs are configured.
func (t *Threads) HasAssistant() bool {
	return t.assistantID != ""
}

// CreateThread opens an empty thread.
func (t *Threads) CreateThread(ctx context.Context) (string, error) {
	th, err := t.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", parseAPIError("create thread", err, domain.ErrProviderUnavailable)
	}
	return th.ID, nil
}

// AddMessage appends a turn to the thread.
func (t *Threads) AddMessage(ctx context.Context, threadID string, role domain.Role, content string) error {
	_, err := t.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    string(role),
		Content: content,
	})
	if err != nil {
		return parseAPIError("add message", err, domain.ErrProviderUnavailable)
	}
	return nil
}

// Run starts an assistant run on the thread.
func (t *Threads) Run(ctx context.Context, threadID string) (string, error) {
	if t.assistantID == "" {
		return "", fmt.Errorf("assistant id is not configured: %w", domain.ErrThreadRunFailed)
	}
	run, err := t.client.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: t.assistantID})
	if err != nil {
		return "", parseAPIError("create run", err, domain.ErrThreadRunFailed)
	}
	return run.ID, nil
}

// Poll reports the current run status.
func (t *Threads) Poll(ctx context.Context, threadID, runID string) (domain.RunStatus, error) {
	run, err := t.client.RetrieveRun(ctx, threadID, runID)
	if err != nil {
		return "", parseAPIError("retrieve run", err, domain.ErrProviderUnavailable)
	}
	return mapRunStatus(run.Status), nil
}

// RunAndWait starts a run and polls it to completion. It fails closed with
// domain.ErrThreadRunTimeout after the poll timeout.
func (t *Threads) RunAndWait(ctx context.Context, threadID string) error {
	runID, err := t.Run(ctx, threadID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, t.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Warn("Thread run timed out", zap.String("thread_id", threadID), zap.String("run_id", runID))
			return fmt.Errorf("run %s: %w", runID, domain.ErrThreadRunTimeout)
		case <-ticker.C:
			status, err := t.Poll(ctx, threadID, runID)
			if err != nil {
				if ctx.Err() != nil {
					continue // deadline hit mid-request; report as timeout
				}
				return err
			}
			if !status.IsTerminal() {
				continue
			}
			if status != domain.RunCompleted {
				return fmt.Errorf("run %s ended with status %s: %w", runID, status, domain.ErrThreadRunFailed)
			}
			return nil
		}
	}
}

// ListMessages returns the thread turns in chronological order.
func (t *Threads) ListMessages(ctx context.Context, threadID string, limit int) ([]domain.Turn, error) {
	order := "desc"
	list, err := t.client.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		return nil, parseAPIError("list messages", err, domain.ErrProviderUnavailable)
	}

	turns := make([]domain.Turn, 0, len(list.Messages))
	for _, m := range list.Messages {
		role := domain.Role(m.Role)
		if !role.IsValid() {
			continue
		}
		turns = append(turns, domain.Turn{
			Role:      role,
			Content:   messageText(m),
			Timestamp: time.Unix(int64(m.CreatedAt), 0).UTC(),
		})
	}
	slices.Reverse(turns)
	return turns, nil
}

func messageText(m openai.Message) string {
	var parts []string
	for _, c := range m.Content {
		if c.Text != nil && c.Text.Value != "" {
			parts = append(parts, c.Text.Value)
		}
	}
	return strings.Join(parts, "\n")
}

func mapRunStatus(s openai.RunStatus) domain.RunStatus {
	switch string(s) {
	case "queued":
		return domain.RunQueued
	case "in_progress", "cancelling":
		return domain.RunInProgress
	case "completed":
		return domain.RunCompleted
	case "expired":
		return domain.RunTimeout
	default:
		return domain.RunFailed
	}
}

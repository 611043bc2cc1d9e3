package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fluxo-ai/internal/common/config"
	cerrors "fluxo-ai/internal/common/errors"
	"fluxo-ai/internal/common/logger"
)

// HTTPClient talks to an OpenAI-compatible chat-completions endpoint.
type HTTPClient struct {
	cfg    config.LLMConfig
	client *http.Client
	logger logger.Logger
}

func NewHTTPClient(cfg config.LLMConfig, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		// No client-level timeout; the per-request context bounds the call.
		client: &http.Client{},
		logger: log.WithFields(map[string]interface{}{"component": "llm"}),
	}
}

type completionRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completion request. Transient transport errors are
// retried with bounded exponential backoff up to cfg.MaxRetries extra
// attempts; context expiry maps to ErrLLMTimeout.
func (c *HTTPClient) Complete(ctx context.Context, messages []ChatMessage, params Params) (string, error) {
	if params.Model == "" {
		params.Model = c.cfg.Model
	}
	if params.MaxTokens == 0 {
		params.MaxTokens = c.cfg.MaxTokens
	}

	body, err := json.Marshal(completionRequest{
		Model:            params.Model,
		Messages:         messages,
		MaxTokens:        params.MaxTokens,
		Temperature:      params.Temperature,
		PresencePenalty:  params.PresencePenalty,
		FrequencyPenalty: params.FrequencyPenalty,
	})
	if err != nil {
		return "", cerrors.NewLLMUnavailableError(err).WithCause(ErrLLMUnavailable)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", cerrors.NewLLMTimeoutError().WithCause(ErrLLMTimeout)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", cerrors.NewLLMUnavailableError(err).WithCause(ErrLLMUnavailable)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, lastErr = c.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return "", cerrors.NewLLMTimeoutError().WithCause(ErrLLMTimeout)
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		return "", cerrors.NewLLMUnavailableError(lastErr).WithCause(ErrLLMUnavailable)
	}
	if resp == nil {
		return "", cerrors.NewLLMUnavailableError(errors.New("no successful response after retries")).WithCause(ErrLLMUnavailable)
	}
	defer resp.Body.Close()

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", cerrors.NewLLMUnavailableError(err).WithCause(ErrLLMUnavailable)
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", cerrors.NewEmptyCompletionError().WithCause(ErrEmptyCompletion)
	}

	text := completion.Choices[0].Message.Content

	c.logger.Debug("completion received", map[string]interface{}{
		"model":      params.Model,
		"messages":   len(messages),
		"textLength": len(text),
	})

	return text, nil
}

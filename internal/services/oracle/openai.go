package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"TruthSource/internal/domain/service"
	xhttp "TruthSource/pkg/http"
	"TruthSource/pkg/logger"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIConfig configures an OpenAI-compatible chat completions backend.
type OpenAIConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	MaxAttempts int
	Timeout     time.Duration
}

// OpenAI asks a chat completions endpoint for a json_schema constrained answer.
type OpenAI struct {
	cfg    OpenAIConfig
	client *xhttp.Client
	log    *logger.Logger
	// initial retry interval, shortened in tests
	retryInterval time.Duration
}

var _ service.Oracle = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAIConfig, l *logger.Logger, opts ...xhttp.ClientOption) *OpenAI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Timeout > 0 {
		opts = append([]xhttp.ClientOption{xhttp.WithTimeout(cfg.Timeout)}, opts...)
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &OpenAI{
		cfg:           cfg,
		client:        xhttp.NewClient(opts...),
		log:           l,
		retryInterval: 500 * time.Millisecond,
	}
}

func (o *OpenAI) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string          `json:"name"`
	Schema *service.Schema `json:"schema"`
	Strict bool            `json:"strict"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (o *OpenAI) Invoke(ctx context.Context, prompt service.Prompt, schema *service.Schema, dest interface{}) error {
	req := o.buildRequest(prompt, schema)

	attempt := 0
	content, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		var resp chatResponse
		err := o.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: "POST",
			URL:    strings.TrimRight(o.cfg.BaseURL, "/") + "/chat/completions",
			Headers: map[string]string{
				"Authorization": "Bearer " + o.cfg.APIKey,
				"Content-Type":  "application/json",
			},
			Body: req,
		}, &resp)
		if err != nil {
			if retryable(ctx, err) {
				o.log.Warn("openai call failed, retrying",
					logger.Int("attempt", attempt),
					logger.Error(err),
				)
				return "", err
			}
			return "", backoff.Permanent(err)
		}
		if len(resp.Choices) == 0 {
			return "", backoff.Permanent(errors.New("response has no choices"))
		}
		return resp.Choices[0].Message.Content, nil
	}, backoff.WithBackOff(o.newBackOff()), backoff.WithMaxTries(uint(o.cfg.MaxAttempts)))
	if err != nil {
		return service.TransportFailure(o.Name(), fmt.Errorf("chat completion: %w", err))
	}

	return service.DecodeChecked(o.Name(), []byte(content), schema, dest)
}

func (o *OpenAI) buildRequest(prompt service.Prompt, schema *service.Schema) chatRequest {
	req := chatRequest{
		Model:       o.cfg.Model,
		Temperature: o.cfg.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	if schema != nil {
		req.ResponseFormat = responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchemaFormat{Name: schema.Name, Schema: schema},
		}
	}
	return req
}

func (o *OpenAI) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.retryInterval
	return b
}

// retryable reports whether another attempt could succeed: rate limits,
// server errors and network failures, as long as the caller is still waiting.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

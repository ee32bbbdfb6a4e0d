package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/genai"

	"TruthSource/internal/domain/service"
	"TruthSource/pkg/logger"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	Model       string
	APIKey      string
	Temperature float64
	MaxAttempts int
}

// Gemini asks the Gemini API for a ResponseSchema constrained answer.
type Gemini struct {
	cfg    GeminiConfig
	client *genai.Client
	log    *logger.Logger
}

var _ service.Oracle = (*Gemini)(nil)

func NewGemini(ctx context.Context, cfg GeminiConfig, l *logger.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNotConfigured)
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &Gemini{cfg: cfg, client: client, log: l}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Invoke(ctx context.Context, prompt service.Prompt, schema *service.Schema, dest interface{}) error {
	temperature := float32(g.cfg.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    toGenaiSchema(schema),
	}

	attempt := 0
	text, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt.User), config)
		if err != nil {
			if ctx.Err() == nil && geminiRetryable(err) {
				g.log.Warn("gemini call failed, retrying",
					logger.Int("attempt", attempt),
					logger.Error(err),
				)
				return "", err
			}
			return "", backoff.Permanent(err)
		}
		return resp.Text(), nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(uint(g.cfg.MaxAttempts)))
	if err != nil {
		return service.TransportFailure(g.Name(), fmt.Errorf("generate content: %w", err))
	}

	return service.DecodeChecked(g.Name(), []byte(text), schema, dest)
}

func geminiRetryable(err error) bool {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	default:
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return code == http.StatusTooManyRequests || code >= 500
}

var genaiTypes = map[service.SchemaType]genai.Type{
	service.TypeObject:  genai.TypeObject,
	service.TypeArray:   genai.TypeArray,
	service.TypeString:  genai.TypeString,
	service.TypeNumber:  genai.TypeNumber,
	service.TypeInteger: genai.TypeInteger,
	service.TypeBoolean: genai.TypeBoolean,
}

// toGenaiSchema converts the backend-neutral schema. Formats are dropped
// because the Gemini API accepts only a few of them on strings.
func toGenaiSchema(s *service.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGenaiSchema(s.Items),
	}
	if s.Type == service.TypeString && len(s.Enum) > 0 {
		out.Format = "enum"
	}
	if s.Nullable {
		nullable := true
		out.Nullable = &nullable
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		out.PropertyOrdering = s.PropertyNames()
		for _, name := range out.PropertyOrdering {
			out.Properties[name] = toGenaiSchema(s.Properties[name])
		}
	}
	return out
}

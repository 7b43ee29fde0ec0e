package suggest

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"resumescore/internal/config"
	"resumescore/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const maxBackoff = 30 * time.Second

// generateFunc is the single genai call the provider depends on.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiProvider asks a Gemini model for suggestions.
type GeminiProvider struct {
	generate       generateFunc
	cfg            config.SuggestConfig
	circuitBreaker *CircuitBreaker
	logger         *errors.Logger
	baseDelay      time.Duration
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a genai client for cfg.
func NewGeminiProvider(ctx context.Context, cfg config.SuggestConfig, logger *errors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Gemini suggestions need an API key (suggest.apiKey or GEMINI_API_KEY)", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create Gemini client", err)
	}

	return newGeminiProvider(client.Models.GenerateContent, cfg, logger), nil
}

func newGeminiProvider(generate generateFunc, cfg config.SuggestConfig, logger *errors.Logger) *GeminiProvider {
	return &GeminiProvider{
		generate:       generate,
		cfg:            cfg,
		circuitBreaker: NewCircuitBreaker(SourceGemini, cfg.CircuitBreaker, logger),
		logger:         logger,
		baseDelay:      time.Second,
	}
}

func (g *GeminiProvider) Name() string { return SourceGemini }

// CircuitBreaker exposes the breaker for health reporting.
func (g *GeminiProvider) CircuitBreaker() *CircuitBreaker {
	return g.circuitBreaker
}

// Suggest implements Provider.
func (g *GeminiProvider) Suggest(ctx context.Context, req Request) ([]string, error) {
	tracer := otel.Tracer("resumescore.suggest.gemini")
	ctx, span := tracer.Start(ctx, "gemini.suggest_"+string(req.Kind))
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", SourceGemini),
		attribute.String("ai.model", g.cfg.Model),
		attribute.String("suggest.type", string(req.Kind)),
		attribute.Int("input.length", len(req.Input())),
	)

	prompt, err := buildPrompt(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	genCfg := g.contentConfig()
	operation := "suggest_" + string(req.Kind)

	suggestions, err := g.circuitBreaker.Execute(func() ([]string, error) {
		return g.executeWithRetry(ctx, operation, func() ([]string, error) {
			resp, err := g.generate(ctx, g.cfg.Model, genai.Text(prompt), genCfg)
			if err != nil {
				return nil, err
			}
			return parseSuggestions(resp)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to generate suggestions", err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.count", len(suggestions)),
	)
	return suggestions, nil
}

func (g *GeminiProvider) contentConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	}
	if g.cfg.Temperature > 0 {
		temperature := g.cfg.Temperature
		cfg.Temperature = &temperature
	}
	return cfg
}

func parseSuggestions(resp *genai.GenerateContentResponse) ([]string, error) {
	if resp == nil {
		return nil, fmt.Errorf("empty response")
	}
	var raw []string
	if err := json.Unmarshal([]byte(resp.Text()), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	suggestions := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("model returned no suggestions")
	}
	return suggestions, nil
}

// executeWithRetry retries fn with exponential backoff and jitter.
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() ([]string, error)) ([]string, error) {
	var lastErr error
	maxRetries := max(g.cfg.MaxRetries, 0)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if g.logger != nil {
				g.logger.Warn("Retrying suggestion request",
					"operation", operation,
					"attempt", attempt,
					"max_retries", maxRetries,
					"error", lastErr.Error())
			}

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			break
		}
	}

	return nil, fmt.Errorf("operation '%s' failed: %w", operation, lastErr)
}

func (g *GeminiProvider) backoff(attempt int) time.Duration {
	base := time.Duration(math.Pow(2, float64(attempt-1))) * g.baseDelay
	jitter := time.Duration(0)
	if limit := int64(float64(base) * 0.1); limit > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(limit)); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(base+jitter, maxBackoff)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

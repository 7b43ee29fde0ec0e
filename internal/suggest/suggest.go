package suggest

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"resumescore/internal/config"
	"resumescore/internal/errors"
)

// Kind selects which suggestion list is produced.
type Kind string

const (
	KindRewrite  Kind = "rewrite"
	KindEnhance  Kind = "enhance"
	KindKeywords Kind = "keywords"
)

// Sources reported in Result.Source.
const (
	SourceStatic = "static"
	SourceGemini = "gemini"
)

// Kinds lists every supported kind in display order.
func Kinds() []Kind {
	return []Kind{KindRewrite, KindEnhance, KindKeywords}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Kinds(), k) {
		return k, nil
	}
	return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown suggestion type '%s'. Supported types: %v", s, Kinds()), nil)
}

// Request carries the text a suggestion is generated for.
type Request struct {
	Kind           Kind
	Text           string
	JobDescription string
}

// Input returns the text the request is about.
func (r Request) Input() string {
	if r.Kind == KindKeywords {
		return r.JobDescription
	}
	return r.Text
}

// Result is a list of suggestions for one request.
type Result struct {
	Original    string   `json:"original" yaml:"original"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
	Type        Kind     `json:"type" yaml:"type"`
	Source      string   `json:"source" yaml:"source"`
}

// Provider produces suggestions for a request.
type Provider interface {
	Suggest(ctx context.Context, req Request) ([]string, error)
	Name() string
}

// Service validates requests and falls back to the static lists when the
// configured provider fails.
type Service struct {
	provider Provider
	fallback Provider
	logger   *errors.Logger
}

// NewService wraps provider. A nil provider serves the static lists only.
func NewService(provider Provider, logger *errors.Logger) *Service {
	static := StaticProvider{}
	if provider == nil {
		provider = static
	}
	return &Service{provider: provider, fallback: static, logger: logger}
}

// ProviderName reports the primary provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Suggest returns suggestions for req.
func (s *Service) Suggest(ctx context.Context, req Request) (Result, error) {
	if _, err := ParseKind(string(req.Kind)); err != nil {
		return Result{}, err
	}
	if req.Kind == KindRewrite && strings.TrimSpace(req.Text) == "" {
		return Result{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Text is required", nil)
	}

	result := Result{Original: req.Input(), Type: req.Kind}

	if strings.TrimSpace(req.Input()) != "" {
		suggestions, err := s.provider.Suggest(ctx, req)
		if err == nil && len(suggestions) > 0 {
			result.Suggestions = suggestions
			result.Source = s.provider.Name()
			return result, nil
		}
		if err != nil && s.logger != nil && s.provider.Name() != s.fallback.Name() {
			s.logger.LogError(err, "Suggestion provider failed, serving static suggestions",
				"provider", s.provider.Name(),
				"type", string(req.Kind))
		}
	}

	suggestions, err := s.fallback.Suggest(ctx, req)
	if err != nil {
		return Result{}, err
	}
	result.Suggestions = suggestions
	result.Source = s.fallback.Name()
	return result, nil
}

// StaticProvider serves fixed suggestion lists.
type StaticProvider struct{}

var staticSuggestions = map[Kind][]string{
	KindRewrite: {
		"Developed and maintained responsive web applications using React and Node.js",
		"Implemented robust backend APIs with Express.js and MongoDB integration",
		"Collaborated with cross-functional teams to deliver high-quality software solutions",
		"Optimized application performance resulting in 40% faster load times",
	},
	KindEnhance: {
		"Add specific metrics and numbers to quantify your achievements",
		"Include relevant technologies and frameworks you used",
		"Mention the impact of your work on business outcomes",
		"Highlight leadership and collaboration skills",
	},
	KindKeywords: {
		"JavaScript", "React", "Node.js", "Express", "MongoDB",
		"API Development", "Agile", "Git", "CI/CD", "AWS",
	},
}

func (StaticProvider) Name() string { return SourceStatic }

// Suggest returns a copy of the fixed list for the request kind.
func (StaticProvider) Suggest(_ context.Context, req Request) ([]string, error) {
	list, ok := staticSuggestions[req.Kind]
	if !ok {
		return nil, fmt.Errorf("no static suggestions for type %q", req.Kind)
	}
	return slices.Clone(list), nil
}

// NewFromConfig builds the service for the configured provider. A Gemini
// client that cannot be created degrades to the static lists.
func NewFromConfig(ctx context.Context, cfg config.SuggestConfig, logger *errors.Logger) *Service {
	if cfg.Provider != SourceGemini {
		return NewService(StaticProvider{}, logger)
	}
	provider, err := NewGeminiProvider(ctx, cfg, logger)
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Gemini suggestions unavailable, using static suggestions")
		}
		return NewService(StaticProvider{}, logger)
	}
	return NewService(provider, logger)
}

// Stats describes the provider for the /stats endpoint.
func (s *Service) Stats() map[string]any {
	stats := map[string]any{"provider": s.provider.Name()}
	if g, ok := s.provider.(*GeminiProvider); ok {
		stats["circuit_breaker"] = g.CircuitBreaker().Stats()
		stats["healthy"] = g.CircuitBreaker().IsHealthy()
	} else {
		stats["healthy"] = true
	}
	return stats
}

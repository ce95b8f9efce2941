package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/v0id/internal/config"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider turns a chat transcript into a single reply.
//
// Implementations return an error wrapping ErrMalformed when the upstream
// answered but the payload could not be used. Every other error is treated as
// a transport failure.
type Provider interface {
	Name() string
	Generate(ctx context.Context, messages []Message) (string, error)
}

// ErrMalformed marks replies with a missing text field, empty choices or garbage.
var ErrMalformed = errors.New("malformed response")

// StatusError is a non-2xx HTTP answer. It satisfies retrylimit.HTTPError.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.Code, e.Body)
}

func (e *StatusError) StatusCode() int { return e.Code }

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.Provider {
	case "pollinations", "":
		return NewPollinationsProvider(cfg.BaseURL, cfg.Model), nil
	case "g4f":
		return NewG4FProvider(cfg.BaseURL, cfg.Model), nil
	case "huggingface":
		return NewHuggingFaceProvider(cfg.BaseURL, cfg.Model, cfg.APIKey), nil
	case "openai":
		return NewOpenAIProvider(cfg.BaseURL, cfg.Model, cfg.APIKey)
	case "offline":
		return OfflineProvider{}, nil
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER: %s", cfg.Provider)
	}
}

// g4f.go
package ai

import (
	"context"
	"net/http"
	"strings"
)

type G4FProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewG4FProvider resolves model routes the same way g4f.dev does:
//
//	gpt-oss-120b
//	groq/qwen/qwen3-32b
//	ollama/gpt-oss:20b
//
// A non-empty baseURL skips the routing and is used as is.
func NewG4FProvider(baseURL, target string) *G4FProvider {
	if target == "" || target == "openai" {
		target = "gpt-oss-120b"
	}

	var base, model string
	switch {
	case baseURL != "":
		base, model = baseURL, target
	case strings.HasPrefix(target, "groq/"):
		base = "https://g4f.dev/api/groq"
		model = strings.TrimPrefix(target, "groq/")
	case strings.HasPrefix(target, "ollama/"):
		base = "https://g4f.dev/api/ollama"
		model = strings.TrimPrefix(target, "ollama/")
	default:
		base = "https://g4f.dev/api/gpt-oss-120b"
		model = target
	}

	return &G4FProvider{
		baseURL: strings.TrimRight(base, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (p *G4FProvider) Name() string { return "g4f" }

func (p *G4FProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	payload := map[string]any{
		"model":    p.model,
		"messages": messages,
	}
	body, err := postJSON(ctx, p.client, p.Name(), p.baseURL+"/chat/completions", nil, payload)
	if err != nil {
		return "", err
	}
	return decodeChoices(p.Name(), body)
}

package ai

import (
	"context"
	"net/http"
	"strings"
)

const pollinationsURL = "https://text.pollinations.ai/openai"

type PollinationsProvider struct {
	url    string
	model  string
	client *http.Client
}

// NewPollinationsProvider talks to the public pollinations endpoint unless
// baseURL overrides it. Timeouts come from the caller's context.
func NewPollinationsProvider(baseURL, model string) *PollinationsProvider {
	if baseURL == "" {
		baseURL = pollinationsURL
	}
	if model == "" {
		model = "openai"
	}
	return &PollinationsProvider{
		url:    strings.TrimRight(baseURL, "/"),
		model:  model,
		client: &http.Client{},
	}
}

func (p *PollinationsProvider) Name() string { return "pollinations" }

func (p *PollinationsProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	payload := map[string]any{
		"model":       p.model,
		"messages":    messages,
		"temperature": 1,
		"private":     true,
	}
	body, err := postJSON(ctx, p.client, p.Name(), p.url, nil, payload)
	if err != nil {
		return "", err
	}
	return decodeChoices(p.Name(), body)
}

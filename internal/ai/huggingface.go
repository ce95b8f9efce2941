package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	huggingFaceURL   = "https://api-inference.huggingface.co"
	huggingFaceModel = "microsoft/DialoGPT-medium"
)

// HuggingFaceProvider calls the hosted inference API, which takes a flat
// prompt and answers with [{"generated_text": "..."}].
type HuggingFaceProvider struct {
	url    string
	token  string
	client *http.Client
}

func NewHuggingFaceProvider(baseURL, model, token string) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = huggingFaceURL
	}
	if model == "" || model == "openai" {
		model = huggingFaceModel
	}
	if token == "" {
		token = "hf_demo"
	}
	return &HuggingFaceProvider{
		url:    strings.TrimRight(baseURL, "/") + "/models/" + model,
		token:  token,
		client: &http.Client{},
	}
}

func (p *HuggingFaceProvider) Name() string { return "huggingface" }

func (p *HuggingFaceProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	payload := map[string]any{
		"inputs": flatten(messages),
		"parameters": map[string]any{
			"max_length":       100,
			"temperature":      0.8,
			"do_sample":        true,
			"return_full_text": false,
		},
	}
	headers := map[string]string{"Authorization": "Bearer " + p.token}

	body, err := postJSON(ctx, p.client, p.Name(), p.url, headers, payload)
	if err != nil {
		return "", err
	}

	var parsed []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("huggingface unmarshal: %v: %w", err, ErrMalformed)
	}
	if len(parsed) == 0 || parsed[0].GeneratedText == "" {
		return "", fmt.Errorf("huggingface missing generated_text: %w", ErrMalformed)
	}
	return finish(p.Name(), parsed[0].GeneratedText)
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

func isGarbageResponse(s string) bool {
	l := strings.ToLower(s)

	if strings.Contains(l, "<html") {
		return true
	}
	if strings.Contains(l, "not allowed") {
		return true
	}
	if len(strings.TrimSpace(s)) < 2 {
		return true
	}
	return false
}

func truncate(b []byte) string {
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}

// cleanReply strips reasoning blocks and wrapping quotes. Thoughts are short,
// so anything past 600 bytes is cut.
func cleanReply(reply string) string {
	reply = strings.TrimSpace(reply)
	reply = thinkBlock.ReplaceAllString(reply, "")
	reply = strings.TrimSpace(reply)

	if len(reply) >= 2 {
		quotes := []struct{ open, close string }{
			{`"`, `"`}, {`'`, `'`}, {"“", "”"}, {"‘", "’"},
		}
		for _, q := range quotes {
			if strings.HasPrefix(reply, q.open) && strings.HasSuffix(reply, q.close) {
				reply = strings.TrimSuffix(strings.TrimPrefix(reply, q.open), q.close)
				reply = strings.TrimSpace(reply)
				break
			}
		}
	}

	if len(reply) > 600 {
		reply = strings.ToValidUTF8(reply[:600], "")
	}
	return reply
}

// postJSON sends payload and returns the body of a 2xx answer. Non-2xx
// answers come back as *StatusError.
func postJSON(ctx context.Context, client *http.Client, name, url string, headers map[string]string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Provider: name, Code: resp.StatusCode, Body: truncate(body)}
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, fmt.Errorf("%s returned html: %w", name, ErrMalformed)
	}
	return body, nil
}

// decodeChoices reads an OpenAI-style chat completion body.
func decodeChoices(name string, body []byte) (string, error) {
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%s unmarshal: %v: %w", name, err, ErrMalformed)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s empty choices: %w", name, ErrMalformed)
	}
	return finish(name, parsed.Choices[0].Message.Content)
}

func finish(name, raw string) (string, error) {
	reply := cleanReply(raw)
	if isGarbageResponse(reply) {
		return "", fmt.Errorf("%s returned garbage: %w", name, ErrMalformed)
	}
	return reply, nil
}

// flatten joins a transcript into one prompt for completion-style endpoints.
func flatten(messages []Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		if c := strings.TrimSpace(m.Content); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n\n")
}

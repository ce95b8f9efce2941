package mind

import (
	"github.com/keshon/v0id/internal/logging"
	"github.com/rs/zerolog"
)

// logPrompt logs a prompt right before it goes to the gateway. The full text
// is only emitted at trace level.
func logPrompt(l zerolog.Logger, action string, prompt string, params map[string]string) {
	ev := l.Debug().Str("action", action).Int("prompt_len", len(prompt))
	for k, v := range params {
		if v != "" {
			ev = ev.Str(k, v)
		}
	}
	ev.Str("preview", logging.Truncate(prompt, 160)).Msg("llm call")
	l.Trace().Str("action", action).Msg(prompt)
}

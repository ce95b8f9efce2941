package ai

import (
	"context"
	"errors"
)

var errOffline = errors.New("offline provider: no text generation backend")

// OfflineProvider always fails at the transport level, so every thought comes
// from the canned table. Useful for demos without network access.
type OfflineProvider struct{}

func (OfflineProvider) Name() string { return "offline" }

func (OfflineProvider) Generate(context.Context, []Message) (string, error) {
	return "", errOffline
}

package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PosthogClientWrapper wraps posthog.Client so callers never need to care
// whether analytics is configured.
type PosthogClientWrapper struct {
	client posthog.Client
	logger *slog.Logger
}

// InitializePosthogClient builds the wrapper; with an empty API key it stays
// inert and every call becomes a no-op.
func InitializePosthogClient(apiKey string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Info("PostHog API key not set, analytics disabled")
		return &PosthogClientWrapper{}
	}
	w := &PosthogClientWrapper{logger: logger}
	w.client, _ = posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	return w
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w.client != nil
}

// Enqueue sends an analytics event keyed by user ID.
func (w *PosthogClientWrapper) Enqueue(distinctID, event string, properties map[string]any) {
	if w.client == nil {
		return
	}
	w.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
}

func (w *PosthogClientWrapper) Close() {
	if w.client != nil {
		w.client.Close()
	}
}

package webhook

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/lilianna-roll/issuance/internal/adapter"
	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/logger"
)

// Notifier delivers committed events to a webhook endpoint
//
//go:generate mockgen -source=notifier.go -destination=../mocks/notifier.go -package=mocks -mock_names=Notifier=MockNotifier
type Notifier interface {
	Notify(ctx context.Context, event *domain.Event) error
}

// Config holds the webhook endpoint configuration
type Config struct {
	URL    string
	Secret string
}

type notifier struct {
	config     Config
	httpClient adapter.HTTPClient
	signer     *Signer
	clock      adapter.Clock
}

// NewNotifier creates a webhook notifier
func NewNotifier(cfg Config, httpClient adapter.HTTPClient, signer *Signer, clock adapter.Clock) Notifier {
	return &notifier{
		config:     cfg,
		httpClient: httpClient,
		signer:     signer,
		clock:      clock,
	}
}

// Notify signs and posts the event. The HTTP client retries transient failures.
func (n *notifier) Notify(ctx context.Context, event *domain.Event) error {
	timestamp := n.clock.Now().Unix()
	payload, signature, err := n.signer.GenerateSignedPayload(n.config.Secret, event, timestamp)
	if err != nil {
		return err
	}

	headers := map[string]string{
		HeaderSignature: signature,
		HeaderEventID:   event.EventID,
		HeaderEventType: string(event.EventType),
		HeaderTimestamp: strconv.FormatInt(timestamp, 10),
		"User-Agent":    userAgent,
	}

	if _, err := n.httpClient.Post(ctx, n.config.URL, headers, payload); err != nil {
		return fmt.Errorf("failed to deliver webhook for event %s: %w", event.EventID, err)
	}

	logger.DebugCtx(ctx, "Delivered webhook", zap.String("eventID", event.EventID), zap.String("url", n.config.URL))
	return nil
}

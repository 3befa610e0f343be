package service

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/config"
	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

// Notifier pushes newly created events to an external endpoint (care-team
// webhook, paging bridge). Implementations must not block event creation.
type Notifier interface {
	NotifyEvent(ctx context.Context, event *domain.Event)
}

// WebhookNotifier POSTs event payloads to a configured URL. Failures are
// logged and swallowed.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

func NewWebhookNotifier(cfg config.NotifyConfig, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")
	if cfg.AuthToken != "" {
		client.SetAuthToken(cfg.AuthToken)
	}

	return &WebhookNotifier{
		client: client,
		url:    cfg.WebhookURL,
		logger: logger,
	}
}

func (n *WebhookNotifier) NotifyEvent(ctx context.Context, event *domain.Event) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"source": "novaguardian-backend",
			"event":  event.ToJSON(),
		}).
		Post(n.url)
	if err != nil {
		n.logger.Warn("Event notification failed",
			zap.Int64("event_id", event.ID),
			zap.Error(err),
		)
		return
	}
	if resp.IsError() {
		n.logger.Warn("Event notification rejected",
			zap.Int64("event_id", event.ID),
			zap.Int("status_code", resp.StatusCode()),
		)
		return
	}

	n.logger.Debug("Event notification delivered",
		zap.Int64("event_id", event.ID),
		zap.Int("status_code", resp.StatusCode()),
	)
}

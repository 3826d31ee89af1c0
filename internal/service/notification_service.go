package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-gateway/internal/config"
	"github.com/spec-kit/commerce-gateway/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to account lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventVendorRegistered, n.handleVendorRegistered)
	n.dispatcher.Subscribe(events.EventVendorStatusChanged, n.handleVendorStatusChanged)
	n.dispatcher.Subscribe(events.EventCustomerActivationChanged, n.handleActivationChanged)
	n.dispatcher.Subscribe(events.EventAdminActivationChanged, n.handleActivationChanged)
}

func (n *NotificationService) handleVendorRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("VendorRegistered", zap.String("vendor_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// Vendors hear about every decision on their application by email.
func (n *NotificationService) handleVendorStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("VendorStatusChanged",
		zap.String("vendor_id", event.SubjectID),
		zap.String("actor_id", event.Actor.ID),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleActivationChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ActivationChanged",
		zap.String("type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/commerce-gateway/internal/config"
	"github.com/spec-kit/commerce-gateway/internal/domain"
	"github.com/spec-kit/commerce-gateway/internal/events"
)

func TestNotificationHandlersFollowConfig(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	n := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{EmailFrom: "noreply@shop.test"})
	n.RegisterHandlers()

	ctx := context.Background()
	actor := events.Actor{Role: domain.RoleAdmin, ID: "a1"}
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventVendorStatusChanged, "v1", actor,
		events.VendorStatusChangedPayload{OldStatus: domain.VendorStatusPending, NewStatus: domain.VendorStatusApproved})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventCustomerActivationChanged, "c1", actor,
		events.ActivationChangedPayload{Active: false})))

	assert.Equal(t, 1, logs.FilterMessage("VendorStatusChanged").Len())
	assert.Equal(t, 1, logs.FilterMessage("ActivationChanged").Len())
	assert.Equal(t, 2, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Zero(t, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

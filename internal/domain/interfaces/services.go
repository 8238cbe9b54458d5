package interfaces

import (
	"context"

	domaintypes "textbuddy/internal/domain/types"
)

// EventHandler receives SDK events.
type EventHandler interface {
	HandleEvent(ev domaintypes.Event)
}

// SubscriptionService is the SDK surface a host application drives.
type SubscriptionService interface {
	Initialize(ctx context.Context)
	Subscribe(ctx context.Context)
	Unsubscribe(ctx context.Context)
	HandleDeepLink(url string)
	CheckPendingDeepLink()
	OnEvent(h EventHandler) (unregister func())
	Snapshot() domaintypes.Snapshot
}

package interfaces

import (
	"context"

	domaintypes "textbuddy/internal/domain/types"
)

// Transport sends one HTTP request. Implementations never return an error;
// failures are reported through the Response.
type Transport interface {
	Send(ctx context.Context, req domaintypes.Request) domaintypes.Response
}

// ConnectClient performs the /connect handshake.
type ConnectClient interface {
	Connect(ctx context.Context, params domaintypes.ConnectParams) domaintypes.ConnectResult
}

package contracts

import "context"

// Client is the minimal interface the registries and router need to talk to
// an individual socket connection.
type Client interface {
	// ConnID is the transport-assigned connection handle, unique per socket.
	ConnID() string
	Send(ctx context.Context, data []byte) error
	Close()
}

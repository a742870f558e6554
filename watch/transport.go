package watch

import "context"

// Handle selects one of the two GATT characteristics the watch multiplexes
// all application data over.
type Handle byte

const (
	// HandleRequest accepts short "send me data item X" command codes.
	HandleRequest Handle = 0x0C
	// HandleResponse is where the watch pushes replies and notifications,
	// and where new values are written.
	HandleResponse Handle = 0x0E
)

// Transport is the BLE collaborator the protocol engine writes through.
// Connection lifecycle, characteristic discovery and notification delivery
// belong to the implementation; the engine only issues writes and consumes
// frames handed to Session.OnReply.
type Transport interface {
	Write(handle Handle, data []byte) error
}

// Store persists the shared scratchpad region. Offsets and lengths are in
// bytes; the region is opaque to the store.
type Store interface {
	GetScratchpadData(ctx context.Context, offset, length int) ([]byte, error)
	SetScratchpadData(ctx context.Context, data []byte, offset int) error
}

// Package hub fans messages out to websocket clients over channels.
// A single goroutine owns the client set; each client has its own writer.
package hub

// MessageType indicates the websocket frame format.
type MessageType int

const (
	// JSONMessage is a JSON-encoded text frame.
	JSONMessage MessageType = iota
	// BinaryMessage is raw binary data such as a JPEG frame.
	BinaryMessage
)

// Message is one broadcast payload.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage wraps pre-encoded JSON.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps binary data.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}

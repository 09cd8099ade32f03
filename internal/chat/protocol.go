package chat

// Envelope is the wire form of one event on the websocket stream.
type Envelope struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	User   User   `json:"user"`
	Text   string `json:"text,omitempty"`
}

// ClientMessage is what participant clients write to the stream.
type ClientMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	Text   string `json:"text"`
}

package events

// Notification is the message delivered to live room subscribers. It only
// tells clients that something changed; they refetch the room to see what.
type Notification struct {
	EventType    string `json:"eventType"`
	Payload      any    `json:"payload,omitempty"`
	SourceUserID string `json:"sourceUserId"`
}

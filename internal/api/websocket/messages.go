package websocket

import "time"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeSessionCreated MessageType = "session_created"
	MessageTypeSessionUpdated MessageType = "session_updated"
	MessageTypeSystemStatus   MessageType = "system_status"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// SessionCreatedData announces a new upload result.
type SessionCreatedData struct {
	SessionID       string `json:"session_id"`
	SourceFile      string `json:"source_file"`
	TotalComponents int    `json:"total_components"`
	TotalIO         int    `json:"total_io"`
}

// SessionUpdatedData announces a controller re-assignment. Views reload the
// session; the payload only names what changed.
type SessionUpdatedData struct {
	SessionID        string `json:"session_id"`
	DeviceIndex      int    `json:"device_index"`
	DeviceKey        string `json:"device_key"`
	ControllerNumber int    `json:"controller_number"`
	RowsRewritten    int    `json:"rows_rewritten"`
}

type SystemStatusData struct {
	State    string `json:"state"`
	Previous string `json:"previous_state"`
}

// NewMessage creates a new message with current timestamp
func NewMessage(msgType MessageType, data interface{}) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewSessionCreatedMessage(data SessionCreatedData) Message {
	return NewMessage(MessageTypeSessionCreated, data)
}

func NewSessionUpdatedMessage(data SessionUpdatedData) Message {
	return NewMessage(MessageTypeSessionUpdated, data)
}

func NewSystemStatusMessage(state, previous string) Message {
	return NewMessage(MessageTypeSystemStatus, SystemStatusData{
		State:    state,
		Previous: previous,
	})
}

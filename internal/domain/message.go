package domain

import "time"

// BroadcastRecipient is the reserved "to" value addressing every
// participant in the room.
const BroadcastRecipient = "Todos"

type MessageType string

const (
	// MessageTypeStatus marks system-generated join/leave notices.
	// It is never accepted from callers.
	MessageTypeStatus MessageType = "status"

	// MessageTypePrivate and MessageTypePrivateMessage are both accepted
	// for caller-sent direct messages and stored verbatim.
	MessageTypePrivate        MessageType = "private"
	MessageTypePrivateMessage MessageType = "private_message"
)

const (
	JoinNotice  = "joins the room"
	LeaveNotice = "leaves the room"
)

// TimeLayout is the human-readable stamp carried on every message.
const TimeLayout = "15:04:05"

type Message struct {
	ID   string      `json:"id"`
	From string      `json:"from"`
	To   string      `json:"to"`
	Text string      `json:"text"`
	Type MessageType `json:"type"`
	Time string      `json:"time"`
}

// JoinAnnouncement builds the broadcast status message recorded when a
// participant registers.
func JoinAnnouncement(name string, at time.Time) Message {
	return Message{
		From: name,
		To:   BroadcastRecipient,
		Text: JoinNotice,
		Type: MessageTypeStatus,
		Time: at.Format(TimeLayout),
	}
}

// LeaveAnnouncement builds the broadcast status message recorded when the
// presence sweep expires a participant.
func LeaveAnnouncement(name string, at time.Time) Message {
	return Message{
		From: name,
		To:   BroadcastRecipient,
		Text: LeaveNotice,
		Type: MessageTypeStatus,
		Time: at.Format(TimeLayout),
	}
}

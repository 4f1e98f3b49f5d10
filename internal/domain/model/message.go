package model

// MessageEvent is the transport-neutral shape of one inbound message.
// The Telegram adapter (or any other gateway) translates its update type
// into this before handing it to the application layer.
type MessageEvent struct {
	UserID      int64
	ChatID      int64
	Text        string
	IsCommand   bool
	Command     string
	CommandArgs string
}

// OutboundMessage is what the core hands back to a Notifier.
type OutboundMessage struct {
	ChatID int64
	Text   string
}

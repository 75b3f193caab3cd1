package whatsapp

import (
	"fmt"
	"time"

	"go.mau.fi/whatsmeow/types/events"
)

// Message is an inbound chat message handed to the processor.
type Message struct {
	ChatID     string
	Sender     string
	SenderName string
	Text       string
	Timestamp  time.Time
}

// Handler turns whatsmeow events into Messages on a buffered channel.
type Handler struct {
	debugAllMessages bool
	messageChan      chan Message
}

func NewHandler(debugAllMessages bool) *Handler {
	return &Handler{
		debugAllMessages: debugAllMessages,
		messageChan:      make(chan Message, 100),
	}
}

func (h *Handler) MessageChan() <-chan Message {
	return h.messageChan
}

func (h *Handler) HandleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		h.handleMessage(v)
	}
}

func (h *Handler) handleMessage(msg *events.Message) {
	text := extractText(msg)
	if text == "" {
		return
	}

	// Direct messages only, personal assistant does not live in groups.
	if msg.Info.IsGroup {
		return
	}
	if msg.Info.IsFromMe {
		return
	}

	sender := msg.Info.Sender
	if h.debugAllMessages {
		fmt.Printf("[WhatsApp DM: %s] %s\n", sender.User, text)
	}

	select {
	case h.messageChan <- Message{
		ChatID:     msg.Info.Chat.String(),
		Sender:     sender.User,
		SenderName: sender.String(),
		Text:       text,
		Timestamp:  msg.Info.Timestamp,
	}:
	default:
		fmt.Println("Warning: message channel full, dropping message")
	}
}

func extractText(msg *events.Message) string {
	m := msg.Message

	if m.GetConversation() != "" {
		return m.GetConversation()
	}

	if ext := m.GetExtendedTextMessage(); ext != nil {
		return ext.GetText()
	}

	if img := m.GetImageMessage(); img != nil && img.GetCaption() != "" {
		return "[Imagen] " + img.GetCaption()
	}

	return ""
}

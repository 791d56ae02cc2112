package chat

import (
	"time"

	"github.com/pkg/errors"

	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/profile"
)

// Conversation is the persisted record of a two-party conversation.
// Its document id equals PersonalKey of the participant pair, so the record
// can be addressed before it exists and created lazily on first send.
// Standing groups have no Conversation record, only messages.
type Conversation struct {
	ID               string    `json:"id" firestore:"-"`
	ParticipantIDs   []string  `json:"participant_ids" firestore:"participantIds"`
	ParticipantNames []string  `json:"participant_names" firestore:"participantNames"`
	LastMessage      string    `json:"last_message" firestore:"lastMessage"`
	LastMessageAt    time.Time `json:"last_message_at" firestore:"lastMessageTime"`
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt"`
}

// OtherParticipant returns the id of the participant that is not viewerID.
func (c Conversation) OtherParticipant(viewerID string) string {
	for _, id := range c.ParticipantIDs {
		if id != viewerID {
			return id
		}
	}
	return ""
}

// Message is an immutable, append-only log entry owned by its conversation.
// Sender is the display name captured at send time: it survives later
// profile renames on purpose.
type Message struct {
	ID       string    `json:"id" firestore:"-"`
	SenderID string    `json:"sender_id" firestore:"senderId"`
	Sender   string    `json:"sender" firestore:"sender"`
	Content  string    `json:"content" firestore:"content"`
	SentAt   time.Time `json:"sent_at" firestore:"timestamp,serverTimestamp"`
}

// ConversationSummary is a derived directory row; recomputed on every
// subscription tick, never stored.
type ConversationSummary struct {
	ID            string              `json:"id"`
	Other         profile.Participant `json:"other_participant"`
	LastMessage   string              `json:"last_message"`
	LastMessageAt time.Time           `json:"last_message_at"`
}

var (
	errMissingConversation = errors.New("conversation id is required")
	errMissingSender       = errors.New("sender id is required")
	errEmptyContent        = errors.New("message content must not be empty")
)

// SendMessage carries one send operation. SenderName is denormalized into
// the stored Message.
type SendMessage struct {
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	Content        string `json:"content"`
}

// Validate rejects a send before any I/O happens, so a failed send leaves
// the caller's input intact for retry.
func (sm *SendMessage) Validate() error {
	sm.Content = core.CleanString(sm.Content)
	if sm.ConversationID == "" {
		return core.NewValidationError(errMissingConversation,
			core.FieldError{Field: "conversation_id", Error: errMissingConversation.Error()})
	}
	if sm.SenderID == "" {
		return core.NewValidationError(errMissingSender,
			core.FieldError{Field: "sender_id", Error: errMissingSender.Error()})
	}
	if sm.Content == "" {
		return core.NewValidationError(errEmptyContent,
			core.FieldError{Field: "content", Error: errEmptyContent.Error()})
	}
	return nil
}

package chat

import "sync"

// Subscriptions are explicit handles: whoever opens one owns its teardown.
// Close is idempotent and must be called before opening a replacement.

// MessageSubscription delivers the full ordered message list of one
// conversation on every change.
type MessageSubscription struct {
	C <-chan []Message

	once sync.Once
	stop func()
}

func NewMessageSubscription(c <-chan []Message, stop func()) *MessageSubscription {
	return &MessageSubscription{C: c, stop: stop}
}

func (s *MessageSubscription) Close() {
	s.once.Do(s.stop)
}

// ConversationSubscription delivers the raw conversation records a
// participant is part of, lastMessageTime descending.
type ConversationSubscription struct {
	C <-chan []Conversation

	once sync.Once
	stop func()
}

func NewConversationSubscription(c <-chan []Conversation, stop func()) *ConversationSubscription {
	return &ConversationSubscription{C: c, stop: stop}
}

func (s *ConversationSubscription) Close() {
	s.once.Do(s.stop)
}

// DirectorySubscription delivers enriched ConversationSummary lists.
type DirectorySubscription struct {
	C <-chan []ConversationSummary

	once sync.Once
	stop func()
}

func newDirectorySubscription(c <-chan []ConversationSummary, stop func()) *DirectorySubscription {
	return &DirectorySubscription{C: c, stop: stop}
}

func (s *DirectorySubscription) Close() {
	s.once.Do(s.stop)
}

package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/almaconnect/alumnet/core/chat"
)

type chatRepository struct {
	db *DB
}

var _ chat.Repository = (*chatRepository)(nil) // interface compliance check

func NewChatRepository(db *DB) chat.Repository {
	return &chatRepository{db: db}
}

func (repo *chatRepository) GetConversation(ctx context.Context, id string) (chat.Conversation, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return chat.Conversation{}, ErrUnavailable
	}
	if conv, ok := repo.db.conversations[id]; ok {
		return *conv, nil
	}
	return chat.Conversation{}, chat.ErrNotFound
}

func (repo *chatRepository) UpsertConversation(ctx context.Context, conv chat.Conversation) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return ErrUnavailable
	}

	now := repo.db.stamp()
	orig, ok := repo.db.conversations[conv.ID]
	if !ok {
		created := conv
		created.CreatedAt = now
		created.LastMessageAt = now
		repo.db.conversations[conv.ID] = &created
	} else {
		orig.LastMessage = conv.LastMessage
		orig.LastMessageAt = now
		if len(orig.ParticipantIDs) == 0 {
			orig.ParticipantIDs = conv.ParticipantIDs
		}
		if len(orig.ParticipantNames) == 0 {
			orig.ParticipantNames = conv.ParticipantNames
		}
	}

	for _, pid := range repo.db.conversations[conv.ID].ParticipantIDs {
		repo.notifyConversations(pid)
	}
	return nil
}

func (repo *chatRepository) AppendMessage(ctx context.Context, conversationID string, msg chat.Message) (chat.Message, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return chat.Message{}, ErrUnavailable
	}

	msg.ID = uuid.New().String()
	msg.SentAt = repo.db.stamp()
	repo.db.messages[conversationID] = append(repo.db.messages[conversationID], msg)

	repo.notifyMessages(conversationID)
	return msg, nil
}

func (repo *chatRepository) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return nil, ErrUnavailable
	}
	return repo.snapshotMessages(conversationID), nil
}

func (repo *chatRepository) SubscribeMessages(ctx context.Context, conversationID string) (*chat.MessageSubscription, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return nil, ErrUnavailable
	}

	repo.db.subSeq++
	id := repo.db.subSeq
	ch := make(chan []chat.Message, 1)
	if repo.db.msgSubs[conversationID] == nil {
		repo.db.msgSubs[conversationID] = make(map[int]chan []chat.Message)
	}
	repo.db.msgSubs[conversationID][id] = ch

	// initial emission: the current full ordered list
	ch <- repo.snapshotMessages(conversationID)

	stop := func() {
		repo.db.mu.Lock()
		defer repo.db.mu.Unlock()
		if subs, ok := repo.db.msgSubs[conversationID]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
		}
	}
	return chat.NewMessageSubscription(ch, stop), nil
}

func (repo *chatRepository) SubscribeConversations(ctx context.Context, participantID string) (*chat.ConversationSubscription, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return nil, ErrUnavailable
	}

	repo.db.subSeq++
	id := repo.db.subSeq
	ch := make(chan []chat.Conversation, 1)
	if repo.db.convSubs[participantID] == nil {
		repo.db.convSubs[participantID] = make(map[int]chan []chat.Conversation)
	}
	repo.db.convSubs[participantID][id] = ch

	ch <- repo.snapshotConversations(participantID)

	stop := func() {
		repo.db.mu.Lock()
		defer repo.db.mu.Unlock()
		if subs, ok := repo.db.convSubs[participantID]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
		}
	}
	return chat.NewConversationSubscription(ch, stop), nil
}

// snapshotMessages must be called with db.mu held.
func (repo *chatRepository) snapshotMessages(conversationID string) []chat.Message {
	src := repo.db.messages[conversationID]
	msgs := make([]chat.Message, len(src))
	copy(msgs, src)
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].SentAt.Before(msgs[j].SentAt) })
	return msgs
}

// snapshotConversations must be called with db.mu held. Conversations that
// have never carried a message are omitted, matching a store that drops
// documents missing the order-by field.
func (repo *chatRepository) snapshotConversations(participantID string) []chat.Conversation {
	var convs []chat.Conversation
	for _, conv := range repo.db.conversations {
		if conv.LastMessageAt.IsZero() {
			continue
		}
		for _, pid := range conv.ParticipantIDs {
			if pid == participantID {
				convs = append(convs, *conv)
				break
			}
		}
	}
	sort.SliceStable(convs, func(i, j int) bool { return convs[i].LastMessageAt.After(convs[j].LastMessageAt) })
	return convs
}

// notifyMessages must be called with db.mu held for writing.
func (repo *chatRepository) notifyMessages(conversationID string) {
	snapshot := repo.snapshotMessages(conversationID)
	for _, ch := range repo.db.msgSubs[conversationID] {
		replaceStaleMessages(ch, snapshot)
	}
}

// notifyConversations must be called with db.mu held for writing.
func (repo *chatRepository) notifyConversations(participantID string) {
	snapshot := repo.snapshotConversations(participantID)
	for _, ch := range repo.db.convSubs[participantID] {
		replaceStaleConversations(ch, snapshot)
	}
}

// Subscriber channels hold at most one pending emission; a slow consumer
// sees the latest state, not a backlog.

func replaceStaleMessages(ch chan []chat.Message, v []chat.Message) {
	select {
	case ch <- v:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

func replaceStaleConversations(ch chan []chat.Conversation, v []chat.Conversation) {
	select {
	case ch <- v:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

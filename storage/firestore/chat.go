package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"

	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/chat"
)

type chatRepository struct {
	client *firestore.Client
	logger core.Logger
}

var _ chat.Repository = (*chatRepository)(nil) // interface compliance check

func NewChatRepository(client *firestore.Client, logger core.Logger) chat.Repository {
	return &chatRepository{client: client, logger: logger}
}

// messages returns the message subcollection for a conversation id,
// group or personal.
func (repo *chatRepository) messages(conversationID string) *firestore.CollectionRef {
	parent := colPersonalChats
	if chat.IsGroup(conversationID) {
		parent = colGroups
	}
	return repo.client.Collection(parent).Doc(conversationID).Collection(colMessages)
}

func (repo *chatRepository) GetConversation(ctx context.Context, id string) (chat.Conversation, error) {
	snap, err := repo.client.Collection(colPersonalChats).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return chat.Conversation{}, chat.ErrNotFound
		}
		return chat.Conversation{}, errors.Wrap(err, "getting conversation")
	}

	var conv chat.Conversation
	if err = snap.DataTo(&conv); err != nil {
		return chat.Conversation{}, errors.Wrap(err, "decoding conversation")
	}
	conv.ID = snap.Ref.ID
	return conv, nil
}

// UpsertConversation addresses the record by its deterministic key, so the
// same write path serves first-message creation and every later
// last-message refresh. Last writer wins; lastMessageTime is server-assigned.
func (repo *chatRepository) UpsertConversation(ctx context.Context, conv chat.Conversation) error {
	ref := repo.client.Collection(colPersonalChats).Doc(conv.ID)

	fields := map[string]interface{}{
		"lastMessage":     conv.LastMessage,
		"lastMessageTime": firestore.ServerTimestamp,
	}
	if len(conv.ParticipantIDs) > 0 {
		fields["participantIds"] = conv.ParticipantIDs
	}
	if len(conv.ParticipantNames) > 0 {
		fields["participantNames"] = conv.ParticipantNames
	}
	if _, err := ref.Get(ctx); err != nil {
		if !isNotFound(err) {
			return errors.Wrap(err, "checking conversation")
		}
		fields["createdAt"] = firestore.ServerTimestamp
	}

	if _, err := ref.Set(ctx, fields, firestore.MergeAll); err != nil {
		return errors.Wrap(err, "upserting conversation")
	}
	return nil
}

func (repo *chatRepository) AppendMessage(ctx context.Context, conversationID string, msg chat.Message) (chat.Message, error) {
	ref := repo.messages(conversationID).NewDoc()
	// zero SentAt + serverTimestamp tag: the store assigns the timestamp
	if _, err := ref.Create(ctx, msg); err != nil {
		return chat.Message{}, errors.Wrap(err, "appending message")
	}
	msg.ID = ref.ID
	return msg, nil
}

func (repo *chatRepository) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	iter := repo.messages(conversationID).OrderBy("timestamp", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var msgs []chat.Message
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing messages")
		}
		var msg chat.Message
		if err = snap.DataTo(&msg); err != nil {
			return nil, errors.Wrap(err, "decoding message")
		}
		msg.ID = snap.Ref.ID
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (repo *chatRepository) SubscribeMessages(ctx context.Context, conversationID string) (*chat.MessageSubscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	snapIter := repo.messages(conversationID).OrderBy("timestamp", firestore.Asc).Snapshots(ctx)

	ch := make(chan []chat.Message, 1)
	go func() {
		defer close(ch)
		for {
			snap, err := snapIter.Next()
			if err != nil {
				if !isCanceled(err) {
					repo.logger.Error(fmt.Sprintf("message snapshots for %s: %v", conversationID, err), err)
				}
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				repo.logger.Error(fmt.Sprintf("reading message snapshot for %s: %v", conversationID, err), err)
				return
			}
			msgs := make([]chat.Message, 0, len(docs))
			for _, doc := range docs {
				var msg chat.Message
				if err = doc.DataTo(&msg); err != nil {
					repo.logger.Warn(fmt.Sprintf("decoding message %s: %v", doc.Ref.ID, err), err)
					continue
				}
				msg.ID = doc.Ref.ID
				msgs = append(msgs, msg)
			}
			pushMessages(ch, msgs)
		}
	}()

	stop := func() {
		cancel()
		snapIter.Stop()
	}
	return chat.NewMessageSubscription(ch, stop), nil
}

func (repo *chatRepository) SubscribeConversations(ctx context.Context, participantID string) (*chat.ConversationSubscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	query := repo.client.Collection(colPersonalChats).
		Where("participantIds", "array-contains", participantID).
		OrderBy("lastMessageTime", firestore.Desc)
	snapIter := query.Snapshots(ctx)

	ch := make(chan []chat.Conversation, 1)
	go func() {
		defer close(ch)
		for {
			snap, err := snapIter.Next()
			if err != nil {
				if !isCanceled(err) {
					repo.logger.Error(fmt.Sprintf("conversation snapshots for %s: %v", participantID, err), err)
				}
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				repo.logger.Error(fmt.Sprintf("reading conversation snapshot for %s: %v", participantID, err), err)
				return
			}
			convs := make([]chat.Conversation, 0, len(docs))
			for _, doc := range docs {
				var conv chat.Conversation
				if err = doc.DataTo(&conv); err != nil {
					repo.logger.Warn(fmt.Sprintf("decoding conversation %s: %v", doc.Ref.ID, err), err)
					continue
				}
				conv.ID = doc.Ref.ID
				convs = append(convs, conv)
			}
			pushConversations(ch, convs)
		}
	}()

	stop := func() {
		cancel()
		snapIter.Stop()
	}
	return chat.NewConversationSubscription(ch, stop), nil
}

// Subscriber channels hold the latest emission only; a slow consumer never
// backs up the snapshot listener.

func pushMessages(ch chan []chat.Message, v []chat.Message) {
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

func pushConversations(ch chan []chat.Conversation, v []chat.Conversation) {
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

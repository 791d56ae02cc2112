package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/profile"
)

var (
	// errors
	ErrNotFound        = errors.New("conversation not found")
	ErrAuthUnavailable = errors.New("no signed-in user")
	// ErrUnavailable reports a subscription that died before delivering a
	// snapshot. Callers must show it as a failure, never as an empty list.
	ErrUnavailable = errors.New("conversation stream unavailable")
)

type (
	Repository interface {
		GetConversation(ctx context.Context, id string) (Conversation, error)
		// UpsertConversation writes the record addressed by conv.ID,
		// creating it when absent. Last-writer-wins on the last-message
		// fields; LastMessageAt is server-assigned.
		UpsertConversation(ctx context.Context, conv Conversation) error
		// AppendMessage persists msg under the conversation with a
		// server-assigned SentAt, monotonic within the conversation.
		AppendMessage(ctx context.Context, conversationID string, msg Message) (Message, error)
		ListMessages(ctx context.Context, conversationID string) ([]Message, error)
		SubscribeMessages(ctx context.Context, conversationID string) (*MessageSubscription, error)
		SubscribeConversations(ctx context.Context, participantID string) (*ConversationSubscription, error)
	}

	Service struct {
		repo     Repository
		resolver *profile.Resolver
		logger   core.Logger
	}
)

func NewService(repo Repository, resolver *profile.Resolver, logger core.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, logger: logger}
}

// Groups derives the viewer's standing groups. Opening a derived group id is
// always legal even when it has no messages yet.
func (svc *Service) Groups(viewer profile.Alumni) GroupSet {
	return DeriveGroups(viewer)
}

// StartPersonal computes the conversation between viewer and other without
// requiring the backing record to exist; the record materializes on first send.
func (svc *Service) StartPersonal(viewerID, viewerName string, other profile.Participant) Conversation {
	return Conversation{
		ID:               PersonalKey(viewerID, other.ID),
		ParticipantIDs:   []string{viewerID, other.ID},
		ParticipantNames: []string{viewerName, other.DisplayName},
	}
}

// Messages returns the current ordered log once, without subscribing.
func (svc *Service) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	if conversationID == "" {
		return nil, ErrNotFound
	}
	return svc.repo.ListMessages(ctx, conversationID)
}

// OpenConversation establishes a live, sentAt-ascending message stream.
// The caller must Close the previous handle before opening another.
func (svc *Service) OpenConversation(ctx context.Context, conversationID string) (*MessageSubscription, error) {
	if conversationID == "" {
		return nil, ErrNotFound
	}
	sub, err := svc.repo.SubscribeMessages(ctx, conversationID)
	if err != nil {
		return nil, errors.Wrap(err, "subscribing to messages")
	}
	return sub, nil
}

// Send validates, appends the message and, for personal conversations,
// upserts the parent record's last-message projection. Standing groups have
// no parent record to update. Transport failures are returned, never
// swallowed: an unreported lost message is worse than a retried one.
func (svc *Service) Send(ctx context.Context, sm SendMessage) error {
	if err := sm.Validate(); err != nil {
		return err
	}

	msg := Message{
		SenderID: sm.SenderID,
		Sender:   sm.SenderName,
		Content:  sm.Content,
	}
	if _, err := svc.repo.AppendMessage(ctx, sm.ConversationID, msg); err != nil {
		svc.logSendFailure(sm, err)
		return errors.Wrap(err, "appending message")
	}

	if KindOf(sm.ConversationID) != KindPersonal {
		return nil
	}

	conv := Conversation{
		ID:          sm.ConversationID,
		LastMessage: sm.Content,
	}
	if _, err := svc.repo.GetConversation(ctx, sm.ConversationID); err != nil {
		if errors.Cause(err) != ErrNotFound {
			return errors.Wrap(err, "checking conversation")
		}
		// first message: persist the participant pair and their display
		// names alongside it; later sends only refresh the last message
		if a, b, ok := SplitPersonalKey(sm.ConversationID); ok {
			conv.ParticipantIDs = []string{a, b}
			conv.ParticipantNames = []string{
				svc.displayName(ctx, sm, a),
				svc.displayName(ctx, sm, b),
			}
		}
	}
	if err := svc.repo.UpsertConversation(ctx, conv); err != nil {
		return errors.Wrap(err, "updating last message")
	}
	return nil
}

// displayName prefers the name already carried by the send; anyone else is
// resolved, degrading to the Unknown placeholder.
func (svc *Service) displayName(ctx context.Context, sm SendMessage, id string) string {
	if id == sm.SenderID && sm.SenderName != "" {
		return sm.SenderName
	}
	return svc.resolver.Resolve(ctx, id).DisplayName
}

// OpenDirectory subscribes to every personal conversation the viewer is part
// of and pushes enriched summaries on each change. A summary whose other
// participant cannot be resolved is kept with the Unknown placeholder rather
// than dropped.
func (svc *Service) OpenDirectory(ctx context.Context, viewerID string) (*DirectorySubscription, error) {
	if viewerID == "" {
		return nil, ErrAuthUnavailable
	}

	convSub, err := svc.repo.SubscribeConversations(ctx, viewerID)
	if err != nil {
		return nil, errors.Wrap(err, "subscribing to conversations")
	}

	out := make(chan []ConversationSummary, 1)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case convs, ok := <-convSub.C:
				if !ok {
					return
				}
				summaries := svc.summarize(ctx, viewerID, convs)
				// drop a stale pending emission rather than block
				select {
				case out <- summaries:
				default:
					select {
					case <-out:
					default:
					}
					out <- summaries
				}
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		convSub.Close()
		close(done)
	}
	return newDirectorySubscription(out, stop), nil
}

func (svc *Service) summarize(ctx context.Context, viewerID string, convs []Conversation) []ConversationSummary {
	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		other := svc.resolver.Resolve(ctx, conv.OtherParticipant(viewerID))
		summaries = append(summaries, ConversationSummary{
			ID:            conv.ID,
			Other:         other,
			LastMessage:   conv.LastMessage,
			LastMessageAt: conv.LastMessageAt,
		})
	}
	return summaries
}

// Search filters directory rows by a case-insensitive substring match on the
// other participant's name, email or working domain. Pure; no I/O.
func Search(summaries []ConversationSummary, term string) []ConversationSummary {
	term = core.CleanString(term, true /* lower */)
	if term == "" {
		return summaries
	}
	filtered := make([]ConversationSummary, 0, len(summaries))
	for _, s := range summaries {
		if strings.Contains(strings.ToLower(s.Other.DisplayName), term) ||
			strings.Contains(strings.ToLower(s.Other.Email), term) ||
			strings.Contains(strings.ToLower(s.Other.WorkingDomain), term) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// logSendFailure keeps send failures visible in ops tooling without
// changing the error returned to the caller.
func (svc *Service) logSendFailure(sm SendMessage, err error) {
	svc.logger.Error(fmt.Sprintf("send to %s failed: %v", sm.ConversationID, err), err)
}

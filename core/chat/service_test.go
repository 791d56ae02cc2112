package chat_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/account"
	"github.com/almaconnect/alumnet/core/chat"
	"github.com/almaconnect/alumnet/core/profile"
	dummydb "github.com/almaconnect/alumnet/storage/dummy"
	testutil "github.com/almaconnect/alumnet/tests"
)

const emissionTimeout = 2 * time.Second

type fixture struct {
	db          *dummydb.DB
	svc         *chat.Service
	accountRepo account.Repository
	profileRepo profile.Repository
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	logger := testutil.NewLogger()
	accountRepo := dummydb.NewAccountRepository(db)
	profileRepo := dummydb.NewProfileRepository(db)
	resolver := profile.NewResolver(accountRepo, profileRepo, logger)
	svc := chat.NewService(dummydb.NewChatRepository(db), resolver, logger)
	return &fixture{db: db, svc: svc, accountRepo: accountRepo, profileRepo: profileRepo}
}

// waitDirectory reads emissions until pred holds or the deadline passes.
func waitDirectory(t *testing.T, c <-chan []chat.ConversationSummary, pred func([]chat.ConversationSummary) bool) []chat.ConversationSummary {
	t.Helper()

	deadline := time.After(emissionTimeout)
	var last []chat.ConversationSummary
	for {
		select {
		case summaries, ok := <-c:
			if !ok {
				t.Fatalf("directory closed before condition; last emission: %+v", last)
			}
			last = summaries
			if pred(summaries) {
				return summaries
			}
		case <-deadline:
			t.Fatalf("timed out waiting for directory emission; last: %+v", last)
		}
	}
}

func waitMessages(t *testing.T, c <-chan []chat.Message, pred func([]chat.Message) bool) []chat.Message {
	t.Helper()

	deadline := time.After(emissionTimeout)
	var last []chat.Message
	for {
		select {
		case msgs, ok := <-c:
			if !ok {
				t.Fatalf("message stream closed before condition; last emission: %+v", last)
			}
			last = msgs
			if pred(msgs) {
				return msgs
			}
		case <-deadline:
			t.Fatalf("timed out waiting for message emission; last: %+v", last)
		}
	}
}

func TestSendValidation(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	convID := chat.PersonalKey("alice", "bob")

	tests := []struct {
		name string
		sm   chat.SendMessage
	}{
		{name: "empty content", sm: chat.SendMessage{ConversationID: convID, SenderID: "alice"}},
		{name: "whitespace only", sm: chat.SendMessage{ConversationID: convID, SenderID: "alice", Content: "   \t\n "}},
		{name: "missing conversation", sm: chat.SendMessage{SenderID: "alice", Content: "hi"}},
		{name: "missing sender", sm: chat.SendMessage{ConversationID: convID, Content: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fix.svc.Send(ctx, tt.sm)
			if !core.IsValidationError(err) {
				t.Errorf("Send() error = %v, want a validation error", err)
			}
		})
	}

	// a rejected send must not touch the store
	msgs, err := fix.svc.Messages(ctx, convID)
	if err != nil {
		t.Fatalf("Messages() failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("store has %d messages after rejected sends, want 0", len(msgs))
	}
	if _, err = dummydb.NewChatRepository(fix.db).GetConversation(ctx, convID); err != chat.ErrNotFound {
		t.Errorf("GetConversation() error = %v, want ErrNotFound", err)
	}
}

func TestSendTrimsContent(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	convID := chat.PersonalKey("alice", "bob")

	sm := chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: "  hello there  "}
	if err := fix.svc.Send(ctx, sm); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	msgs, err := fix.svc.Messages(ctx, convID)
	if err != nil {
		t.Fatalf("Messages() failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Content != "hello there" {
		t.Errorf("Content = %q, want %q", msgs[0].Content, "hello there")
	}
	if msgs[0].Sender != "Alice" || msgs[0].SenderID != "alice" {
		t.Errorf("sender fields = (%q, %q), want (Alice, alice)", msgs[0].Sender, msgs[0].SenderID)
	}
}

func TestMessageOrdering(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	convID := chat.DeptKey("CS")

	contents := []string{"one", "two", "three", "four", "five"}
	for _, c := range contents {
		if err := fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: c}); err != nil {
			t.Fatalf("Send(%q) failed: %v", c, err)
		}
	}

	msgs, err := fix.svc.Messages(ctx, convID)
	if err != nil {
		t.Fatalf("Messages() failed: %v", err)
	}
	if len(msgs) != len(contents) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(contents))
	}
	for i, msg := range msgs {
		if msg.Content != contents[i] {
			t.Errorf("msgs[%d].Content = %q, want %q", i, msg.Content, contents[i])
		}
		if i > 0 && !msgs[i-1].SentAt.Before(msg.SentAt) {
			t.Errorf("timestamps not strictly increasing at %d: %v !< %v", i, msgs[i-1].SentAt, msg.SentAt)
		}
	}
}

// Concurrent senders into one conversation must still yield a strictly
// ordered log: timestamps are assigned by the store, not the callers.
func TestMessageOrderingConcurrent(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	convID := chat.DeptKey("CS")

	const senders = 20
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sm := chat.SendMessage{
				ConversationID: convID,
				SenderID:       fmt.Sprintf("user%d", i),
				SenderName:     fmt.Sprintf("User %d", i),
				Content:        fmt.Sprintf("message %d", i),
			}
			if err := fix.svc.Send(ctx, sm); err != nil {
				t.Errorf("Send() from user%d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	msgs, err := fix.svc.Messages(ctx, convID)
	if err != nil {
		t.Fatalf("Messages() failed: %v", err)
	}
	if len(msgs) != senders {
		t.Fatalf("got %d messages, want %d", len(msgs), senders)
	}
	for i := 1; i < len(msgs); i++ {
		if !msgs[i-1].SentAt.Before(msgs[i].SentAt) {
			t.Errorf("timestamps not strictly increasing at %d: %v !< %v", i, msgs[i-1].SentAt, msgs[i].SentAt)
		}
	}
}

// The first send materializes the conversation record with both participant
// ids and their display names; later sends only refresh the last message.
func TestSendRecordsParticipantNames(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	inst := testutil.CreateUser(t, fix.accountRepo, "uni@test.test", "", account.KindInstitution, true)
	testutil.CreateInstitution(t, fix.profileRepo, inst.ID, "Tech University", inst.Email)

	convID := chat.PersonalKey("alice", inst.ID)
	if err := fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: "hello uni"}); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	wantNames := map[string]string{"alice": "Alice", inst.ID: "Tech University"}
	repo := dummydb.NewChatRepository(fix.db)
	conv, err := repo.GetConversation(ctx, convID)
	if err != nil {
		t.Fatalf("GetConversation() failed: %v", err)
	}
	if len(conv.ParticipantIDs) != 2 || len(conv.ParticipantNames) != 2 {
		t.Fatalf("participants = %v / %v, want 2 ids with 2 names", conv.ParticipantIDs, conv.ParticipantNames)
	}
	for i, id := range conv.ParticipantIDs {
		if conv.ParticipantNames[i] != wantNames[id] {
			t.Errorf("ParticipantNames[%d] = %q, want %q for %s", i, conv.ParticipantNames[i], wantNames[id], id)
		}
	}

	// a later send refreshes the projection without losing the names
	if err = fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: "still there?"}); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	conv, err = repo.GetConversation(ctx, convID)
	if err != nil {
		t.Fatalf("GetConversation() failed: %v", err)
	}
	if conv.LastMessage != "still there?" {
		t.Errorf("LastMessage = %q, want %q", conv.LastMessage, "still there?")
	}
	if len(conv.ParticipantNames) != 2 {
		t.Errorf("ParticipantNames = %v, want both names kept", conv.ParticipantNames)
	}
}

// A send into a group appends to the log but creates no conversation record.
func TestSendToGroupSkipsRecord(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	convID := chat.BatchKey("CS", "2020")

	if err := fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: "hello batch"}); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if _, err := dummydb.NewChatRepository(fix.db).GetConversation(ctx, convID); err != chat.ErrNotFound {
		t.Errorf("GetConversation() error = %v, want ErrNotFound", err)
	}
}

func TestSendUnreachableStore(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	convID := chat.PersonalKey("alice", "bob")

	fix.db.SetUnreachable(true)
	err := fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: "hello?"})
	if err == nil {
		t.Fatal("Send() succeeded against an unreachable store")
	}
	if core.IsValidationError(err) {
		t.Errorf("Send() returned a validation error for a transport failure: %v", err)
	}

	// recovery: the same payload goes through once the store is back
	fix.db.SetUnreachable(false)
	if err = fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: "hello?"}); err != nil {
		t.Fatalf("Send() after recovery failed: %v", err)
	}
	msgs, err := fix.svc.Messages(ctx, convID)
	if err != nil {
		t.Fatalf("Messages() failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("got %d messages after recovery, want 1", len(msgs))
	}
}

func TestStartPersonal(t *testing.T) {
	fix := setup(t)

	other := profile.Participant{ID: "inst1", DisplayName: "Tech University"}
	conv := fix.svc.StartPersonal("alice", "Alice", other)

	if want := chat.PersonalKey("alice", "inst1"); conv.ID != want {
		t.Errorf("ID = %q, want %q", conv.ID, want)
	}
	// not persisted until the first send
	if _, err := dummydb.NewChatRepository(fix.db).GetConversation(context.Background(), conv.ID); err != chat.ErrNotFound {
		t.Errorf("GetConversation() error = %v, want ErrNotFound", err)
	}
}

func TestDirectoryLiveUpdate(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	inst := testutil.CreateUser(t, fix.accountRepo, "uni@test.test", "", account.KindInstitution, true)
	testutil.CreateInstitution(t, fix.profileRepo, inst.ID, "Tech University", inst.Email)

	sub, err := fix.svc.OpenDirectory(ctx, "alice")
	if err != nil {
		t.Fatalf("OpenDirectory() failed: %v", err)
	}
	defer sub.Close()

	// empty until the first message lands
	waitDirectory(t, sub.C, func(s []chat.ConversationSummary) bool { return len(s) == 0 })

	convID := chat.PersonalKey("alice", inst.ID)
	if err = fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: "hello uni"}); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	summaries := waitDirectory(t, sub.C, func(s []chat.ConversationSummary) bool { return len(s) == 1 })
	row := summaries[0]
	if row.ID != convID {
		t.Errorf("ID = %q, want %q", row.ID, convID)
	}
	if row.LastMessage != "hello uni" {
		t.Errorf("LastMessage = %q, want %q", row.LastMessage, "hello uni")
	}
	if row.LastMessageAt.IsZero() {
		t.Error("LastMessageAt is zero")
	}
	if row.Other.ID != inst.ID || row.Other.Kind != profile.KindInstitution || row.Other.DisplayName != "Tech University" {
		t.Errorf("Other = %+v, want resolved institution", row.Other)
	}
}

func TestDirectoryRecencyOrder(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	convA := chat.PersonalKey("alice", "bob")
	convB := chat.PersonalKey("alice", "carol")
	for _, send := range []struct{ conv, content string }{
		{convA, "first"},
		{convB, "second"},
		{convA, "third"},
	} {
		if err := fix.svc.Send(ctx, chat.SendMessage{ConversationID: send.conv, SenderID: "alice", SenderName: "Alice", Content: send.content}); err != nil {
			t.Fatalf("Send() failed: %v", err)
		}
	}

	sub, err := fix.svc.OpenDirectory(ctx, "alice")
	if err != nil {
		t.Fatalf("OpenDirectory() failed: %v", err)
	}
	defer sub.Close()

	summaries := waitDirectory(t, sub.C, func(s []chat.ConversationSummary) bool { return len(s) == 2 })
	if summaries[0].ID != convA || summaries[1].ID != convB {
		t.Errorf("order = [%s, %s], want [%s, %s]", summaries[0].ID, summaries[1].ID, convA, convB)
	}
	if summaries[0].LastMessage != "third" {
		t.Errorf("LastMessage = %q, want %q", summaries[0].LastMessage, "third")
	}
}

// A row whose other participant cannot be resolved is kept with the Unknown
// placeholder, never dropped: one bad profile must not hide the conversation.
func TestDirectoryUnresolvedParticipant(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	convID := chat.PersonalKey("alice", "ghost")
	if err := fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: "anyone there?"}); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	sub, err := fix.svc.OpenDirectory(ctx, "alice")
	if err != nil {
		t.Fatalf("OpenDirectory() failed: %v", err)
	}
	defer sub.Close()

	summaries := waitDirectory(t, sub.C, func(s []chat.ConversationSummary) bool { return len(s) == 1 })
	other := summaries[0].Other
	if other.Kind != profile.KindUnknown {
		t.Errorf("Other.Kind = %q, want %q", other.Kind, profile.KindUnknown)
	}
	if other.DisplayName != "Unknown User" {
		t.Errorf("Other.DisplayName = %q, want %q", other.DisplayName, "Unknown User")
	}
	if other.ProfilePicture != profile.DefaultProfilePicture {
		t.Errorf("Other.ProfilePicture = %q, want default", other.ProfilePicture)
	}
}

func TestOpenDirectoryRequiresViewer(t *testing.T) {
	fix := setup(t)
	if _, err := fix.svc.OpenDirectory(context.Background(), ""); err != chat.ErrAuthUnavailable {
		t.Errorf("OpenDirectory() error = %v, want ErrAuthUnavailable", err)
	}
}

func TestSearch(t *testing.T) {
	rows := []chat.ConversationSummary{
		{ID: "1", Other: profile.Participant{DisplayName: "Alice Carter", Email: "alice@test.test", WorkingDomain: "Fintech"}},
		{ID: "2", Other: profile.Participant{DisplayName: "Bob Stone", Email: "bob@test.test", WorkingDomain: "Healthcare"}},
		{ID: "3", Other: profile.Participant{DisplayName: "Carol Finch", Email: "carol@test.test", WorkingDomain: "fintech analytics"}},
	}

	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{name: "empty term keeps all", term: "", wantIDs: []string{"1", "2", "3"}},
		{name: "whitespace term keeps all", term: "   ", wantIDs: []string{"1", "2", "3"}},
		{name: "name match", term: "alice", wantIDs: []string{"1"}},
		{name: "case insensitive", term: "BOB", wantIDs: []string{"2"}},
		{name: "email match", term: "carol@", wantIDs: []string{"3"}},
		{name: "working domain match", term: "fintech", wantIDs: []string{"1", "3"}},
		{name: "no match", term: "zzz", wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chat.Search(rows, tt.term)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Search() returned %d rows, want %d", len(got), len(tt.wantIDs))
			}
			for i, row := range got {
				if row.ID != tt.wantIDs[i] {
					t.Errorf("Search()[%d].ID = %q, want %q", i, row.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

// Live message streams: a subscriber sees the existing log immediately and
// every append afterwards, always as the full ordered list.
func TestOpenConversationLiveUpdates(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	convID := chat.PersonalKey("alice", "bob")

	if err := fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "alice", SenderName: "Alice", Content: "hi bob"}); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	sub, err := fix.svc.OpenConversation(ctx, convID)
	if err != nil {
		t.Fatalf("OpenConversation() failed: %v", err)
	}
	defer sub.Close()

	waitMessages(t, sub.C, func(msgs []chat.Message) bool {
		return len(msgs) == 1 && msgs[0].Content == "hi bob"
	})

	if err = fix.svc.Send(ctx, chat.SendMessage{ConversationID: convID, SenderID: "bob", SenderName: "Bob", Content: "hi alice"}); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	msgs := waitMessages(t, sub.C, func(msgs []chat.Message) bool { return len(msgs) == 2 })
	if msgs[0].Content != "hi bob" || msgs[1].Content != "hi alice" {
		t.Errorf("messages out of order: %q, %q", msgs[0].Content, msgs[1].Content)
	}
}

package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/almaconnect/alumnet/core/chat"
)

// drain reads until the channel closes or the deadline passes; it reports
// whether the channel was observed closed.
func drainClosed(c <-chan []chat.Message) bool {
	deadline := time.After(emissionTimeout)
	for {
		select {
		case _, ok := <-c:
			if !ok {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func TestViewRequiresViewer(t *testing.T) {
	fix := setup(t)
	view := chat.NewView(fix.svc)

	if _, err := view.Select(context.Background(), chat.DeptKey("CS"), chat.KindDepartment); err != chat.ErrAuthUnavailable {
		t.Errorf("Select() error = %v, want ErrAuthUnavailable", err)
	}
	if view.State() != chat.StateIdle {
		t.Errorf("State() = %v, want idle", view.State())
	}
}

func TestViewSelectAndBack(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	view := chat.NewView(fix.svc)
	view.SignIn("alice")

	convID := chat.PersonalKey("alice", "bob")
	sub, err := view.Select(ctx, convID, chat.KindPersonal)
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	if view.State() != chat.StateActive {
		t.Errorf("State() = %v, want active", view.State())
	}
	if id, kind, ok := view.Active(); !ok || id != convID || kind != chat.KindPersonal {
		t.Errorf("Active() = (%q, %q, %v), want (%q, %q, true)", id, kind, ok, convID, chat.KindPersonal)
	}

	view.Back()
	if view.State() != chat.StateIdle {
		t.Errorf("State() after Back = %v, want idle", view.State())
	}
	if _, _, ok := view.Active(); ok {
		t.Error("Active() = true after Back")
	}
	// Back closes the stream; the dropped buffer is rebuilt on re-entry
	if !drainClosed(sub.C) {
		t.Error("subscription still open after Back")
	}
}

// At most one live message subscription exists: switching conversations
// closes the previous stream before the replacement opens.
func TestViewSubscriptionExclusivity(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	view := chat.NewView(fix.svc)
	view.SignIn("alice")

	convA := chat.PersonalKey("alice", "bob")
	convB := chat.DeptKey("CS")

	subA, err := view.Select(ctx, convA, chat.KindPersonal)
	if err != nil {
		t.Fatalf("Select(A) failed: %v", err)
	}
	subB, err := view.Select(ctx, convB, chat.KindDepartment)
	if err != nil {
		t.Fatalf("Select(B) failed: %v", err)
	}

	if !drainClosed(subA.C) {
		t.Fatal("previous subscription still open after switching")
	}

	// traffic on A is invisible; traffic on B arrives
	if err = fix.svc.Send(ctx, chat.SendMessage{ConversationID: convA, SenderID: "bob", SenderName: "Bob", Content: "for A"}); err != nil {
		t.Fatalf("Send(A) failed: %v", err)
	}
	if err = fix.svc.Send(ctx, chat.SendMessage{ConversationID: convB, SenderID: "alice", SenderName: "Alice", Content: "for B"}); err != nil {
		t.Fatalf("Send(B) failed: %v", err)
	}

	msgs := waitMessages(t, subB.C, func(msgs []chat.Message) bool { return len(msgs) == 1 })
	if msgs[0].Content != "for B" {
		t.Errorf("received %q on B's stream, want %q", msgs[0].Content, "for B")
	}
}

func TestViewSignOutForcesIdle(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	view := chat.NewView(fix.svc)
	view.SignIn("alice")

	sub, err := view.Select(ctx, chat.PersonalKey("alice", "bob"), chat.KindPersonal)
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}

	view.SignOut()
	if view.State() != chat.StateIdle {
		t.Errorf("State() after SignOut = %v, want idle", view.State())
	}
	if !drainClosed(sub.C) {
		t.Error("subscription still open after SignOut")
	}
	// a signed-out view refuses to open anything
	if _, err = view.Select(ctx, chat.DeptKey("CS"), chat.KindDepartment); err != chat.ErrAuthUnavailable {
		t.Errorf("Select() after SignOut error = %v, want ErrAuthUnavailable", err)
	}
}

func TestViewPlaceholderAndHeader(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	view := chat.NewView(fix.svc)
	view.SignIn("alice")

	if got := view.Placeholder(); got != "Type your message..." {
		t.Errorf("idle Placeholder() = %q", got)
	}

	tests := []struct {
		name       string
		convID     string
		kind       chat.Kind
		wantPlace  string
		wantHeader string
	}{
		{
			name:       "personal",
			convID:     chat.PersonalKey("alice", "inst1"),
			kind:       chat.KindPersonal,
			wantPlace:  "Reply to institution...",
			wantHeader: "Institution Chat",
		},
		{
			name:       "department",
			convID:     chat.DeptKey("CS"),
			kind:       chat.KindDepartment,
			wantPlace:  "Type your message...",
			wantHeader: "Department Group",
		},
		{
			name:       "batch",
			convID:     chat.BatchKey("CS", "2020"),
			kind:       chat.KindBatch,
			wantPlace:  "Type your message...",
			wantHeader: "Batch Group",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := view.Select(ctx, tt.convID, tt.kind); err != nil {
				t.Fatalf("Select() failed: %v", err)
			}
			if got := view.Placeholder(); got != tt.wantPlace {
				t.Errorf("Placeholder() = %q, want %q", got, tt.wantPlace)
			}
			if got := view.HeaderLabel(); got != tt.wantHeader {
				t.Errorf("HeaderLabel() = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

package chat

import (
	"context"
	"sync"
)

// ViewState is the chat screen's mode: Idle shows the directory/group list,
// Active shows one open conversation.
type ViewState int

const (
	StateIdle ViewState = iota
	StateActive
)

// View is the chat screen's state machine. It enforces the subscription
// contract: at most one live message subscription exists at any time, and
// switching conversations tears the previous one down first. Without that,
// emissions from a previously-viewed conversation would be rendered into the
// currently-displayed one.
type View struct {
	svc *Service

	mu             sync.Mutex
	viewerID       string
	state          ViewState
	conversationID string
	kind           Kind
	sub            *MessageSubscription
}

func NewView(svc *Service) *View {
	return &View{svc: svc, state: StateIdle}
}

// SignIn records the current viewer. Messaging operations refuse to run
// without one.
func (v *View) SignIn(viewerID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewerID = viewerID
}

// SignOut forces Idle and tears down any live subscription.
func (v *View) SignOut() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewerID = ""
	v.teardown()
}

// Select activates a conversation, closing the previous stream before the
// replacement is opened.
func (v *View) Select(ctx context.Context, conversationID string, kind Kind) (*MessageSubscription, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.viewerID == "" {
		return nil, ErrAuthUnavailable
	}

	v.teardown()

	sub, err := v.svc.OpenConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	v.state = StateActive
	v.conversationID = conversationID
	v.kind = kind
	v.sub = sub
	return sub, nil
}

// Back returns to the directory, closing the active stream and dropping the
// in-memory message buffer with it.
func (v *View) Back() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.teardown()
}

// teardown must be called with v.mu held.
func (v *View) teardown() {
	if v.sub != nil {
		v.sub.Close()
		v.sub = nil
	}
	v.state = StateIdle
	v.conversationID = ""
	v.kind = ""
}

func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Active returns the open conversation, if any.
func (v *View) Active() (conversationID string, kind Kind, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateActive {
		return "", "", false
	}
	return v.conversationID, v.kind, true
}

// Placeholder is the composer hint for the active conversation kind.
func (v *View) Placeholder() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateActive && v.kind == KindPersonal {
		return "Reply to institution..."
	}
	return "Type your message..."
}

// HeaderLabel names the active conversation kind for the chat header.
func (v *View) HeaderLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.kind {
	case KindDepartment:
		return "Department Group"
	case KindBatch:
		return "Batch Group"
	case KindPersonal:
		return "Institution Chat"
	}
	return ""
}

package dummydb

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/almaconnect/alumnet/core/account"
	"github.com/almaconnect/alumnet/core/announce"
	"github.com/almaconnect/alumnet/core/chat"
	"github.com/almaconnect/alumnet/core/job"
	"github.com/almaconnect/alumnet/core/profile"
)

// ErrUnavailable is what every operation returns while the store is
// simulated as unreachable.
var ErrUnavailable = errors.New("document store unreachable")

// DB is an in-memory document store standing in for Firestore in tests and
// local runs. Timestamps are server-assigned and strictly monotonic, like
// the real store's serverTimestamp.
type DB struct {
	mu sync.RWMutex

	users        map[string]*account.User
	alumni       map[string]*profile.Alumni
	institutions map[string]*profile.Institution

	conversations map[string]*chat.Conversation
	messages      map[string][]chat.Message

	announcements map[string]*announce.Announcement
	campaigns     map[string]*announce.Campaign

	jobs         map[string]*job.Job
	applications map[string]*job.Application
	referrals    map[string]*job.Referral

	lastStamp time.Time

	subSeq   int
	msgSubs  map[string]map[int]chan []chat.Message
	convSubs map[string]map[int]chan []chat.Conversation

	unreachable bool
}

func Open() (*DB, error) {
	return &DB{
		users:         make(map[string]*account.User),
		alumni:        make(map[string]*profile.Alumni),
		institutions:  make(map[string]*profile.Institution),
		conversations: make(map[string]*chat.Conversation),
		messages:      make(map[string][]chat.Message),
		announcements: make(map[string]*announce.Announcement),
		campaigns:     make(map[string]*announce.Campaign),
		jobs:          make(map[string]*job.Job),
		applications:  make(map[string]*job.Application),
		referrals:     make(map[string]*job.Referral),
		msgSubs:       make(map[string]map[int]chan []chat.Message),
		convSubs:      make(map[string]map[int]chan []chat.Conversation),
	}, nil
}

// SetUnreachable simulates a network partition: all subsequent operations
// fail with ErrUnavailable until cleared.
func (db *DB) SetUnreachable(v bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.unreachable = v
}

func newDocID() string {
	return uuid.New().String()
}

// stamp issues the next server-assigned timestamp. Must be called with
// db.mu held for writing.
func (db *DB) stamp() time.Time {
	now := time.Now().UTC()
	if !now.After(db.lastStamp) {
		now = db.lastStamp.Add(time.Microsecond)
	}
	db.lastStamp = now
	return now
}

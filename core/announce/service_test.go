package announce_test

import (
	"context"
	"net/mail"
	"sync"
	"testing"

	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/announce"
	dummydb "github.com/almaconnect/alumnet/storage/dummy"
	testutil "github.com/almaconnect/alumnet/tests"
)

type fakeMail struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

var _ core.EmailService = (*fakeMail)(nil)

func (f *fakeMail) SendMessages(messages ...*core.EmailMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, msg := range messages {
		f.sent = append(f.sent, *msg)
	}
}

func setup(t *testing.T) (*announce.Service, *fakeMail) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	mail := &fakeMail{}
	svc := announce.NewService(dummydb.NewAnnounceRepository(db), mail, testutil.NewLogger())
	return svc, mail
}

func TestCreateAnnouncementNotifies(t *testing.T) {
	svc, mailSvc := setup(t)
	ctx := context.Background()

	na := announce.NewAnnouncement{
		EventName:   "Annual Reunion",
		Description: "All batches welcome",
		Date:        "2026-12-12",
		Time:        "18:00",
		Venue:       "Main Hall",
	}
	notify := []mail.Address{{Address: "a@test.test"}, {Address: "b@test.test"}}

	ann, err := svc.CreateAnnouncement(ctx, na, notify)
	if err != nil {
		t.Fatalf("CreateAnnouncement() failed: %v", err)
	}
	if ann.ID == "" || ann.CreatedAt.IsZero() {
		t.Errorf("announcement not fully populated: %+v", ann)
	}

	mailSvc.mu.Lock()
	defer mailSvc.mu.Unlock()
	if len(mailSvc.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mailSvc.sent))
	}
	if got := len(mailSvc.sent[0].To); got != 2 {
		t.Errorf("email has %d recipients, want 2", got)
	}
}

func TestCreateAnnouncementWithoutRecipients(t *testing.T) {
	svc, mail := setup(t)

	na := announce.NewAnnouncement{EventName: "Quiet Event", Description: "d", Date: "2026-01-01"}
	if _, err := svc.CreateAnnouncement(context.Background(), na, nil); err != nil {
		t.Fatalf("CreateAnnouncement() failed: %v", err)
	}
	mail.mu.Lock()
	defer mail.mu.Unlock()
	if len(mail.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(mail.sent))
	}
}

func TestQueryAnnouncementsNewestFirst(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		if _, err := svc.CreateAnnouncement(ctx, announce.NewAnnouncement{EventName: name, Description: "d", Date: "2026-01-01"}, nil); err != nil {
			t.Fatalf("CreateAnnouncement(%q) failed: %v", name, err)
		}
	}

	anns, err := svc.QueryAnnouncements(ctx)
	if err != nil {
		t.Fatalf("QueryAnnouncements() failed: %v", err)
	}
	if len(anns) != 3 {
		t.Fatalf("got %d announcements, want 3", len(anns))
	}
	want := []string{"third", "second", "first"}
	for i, ann := range anns {
		if ann.EventName != want[i] {
			t.Errorf("anns[%d].EventName = %q, want %q", i, ann.EventName, want[i])
		}
	}
}

func TestToggleCampaign(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	camp, err := svc.CreateCampaign(ctx, announce.NewCampaign{Title: "Library Fund", Description: "d", TargetAmount: 1000, Deadline: "2026-12-31"})
	if err != nil {
		t.Fatalf("CreateCampaign() failed: %v", err)
	}
	if !camp.IsActive {
		t.Error("new campaign not active")
	}

	camp, err = svc.ToggleCampaign(ctx, camp.ID)
	if err != nil {
		t.Fatalf("ToggleCampaign() failed: %v", err)
	}
	if camp.IsActive {
		t.Error("campaign still active after toggle")
	}
}

func TestRecordPledge(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	camp, err := svc.CreateCampaign(ctx, announce.NewCampaign{Title: "Lab Fund", Description: "d", TargetAmount: 500, Deadline: "2026-12-31"})
	if err != nil {
		t.Fatalf("CreateCampaign() failed: %v", err)
	}

	camp, err = svc.RecordPledge(ctx, announce.Pledge{CampaignID: camp.ID, DonorID: "alice", Amount: 50})
	if err != nil {
		t.Fatalf("RecordPledge() failed: %v", err)
	}
	camp, err = svc.RecordPledge(ctx, announce.Pledge{CampaignID: camp.ID, DonorID: "bob", Amount: 25})
	if err != nil {
		t.Fatalf("RecordPledge() failed: %v", err)
	}
	if camp.CurrentAmount != 75 {
		t.Errorf("CurrentAmount = %v, want 75", camp.CurrentAmount)
	}
}

func TestRecordPledgeClosedCampaign(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	camp, err := svc.CreateCampaign(ctx, announce.NewCampaign{Title: "Closed Fund", Description: "d", TargetAmount: 100, Deadline: "2026-12-31"})
	if err != nil {
		t.Fatalf("CreateCampaign() failed: %v", err)
	}
	if _, err = svc.ToggleCampaign(ctx, camp.ID); err != nil {
		t.Fatalf("ToggleCampaign() failed: %v", err)
	}

	_, err = svc.RecordPledge(ctx, announce.Pledge{CampaignID: camp.ID, DonorID: "alice", Amount: 10})
	if !core.IsValidationError(err) {
		t.Errorf("RecordPledge() error = %v, want a validation error", err)
	}
}

func TestRecordPledgeMissingCampaign(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.RecordPledge(context.Background(), announce.Pledge{CampaignID: "nope", DonorID: "alice", Amount: 10})
	if err != announce.ErrNotFound {
		t.Errorf("RecordPledge() error = %v, want ErrNotFound", err)
	}
}

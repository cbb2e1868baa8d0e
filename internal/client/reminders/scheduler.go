package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/models"
)

// Scheduler delivers reminder notifications.
type Scheduler interface {
	Schedule(ctx context.Context, r models.Reminder, videoTitle string) (time.Time, error)
	Cancel(ctx context.Context, reminderID string) error
}

// LogScheduler records planned triggers and logs them. It is used where the
// platform has no notification service, such as the terminal client.
type LogScheduler struct {
	log logging.Logger
	now func() time.Time

	mu      sync.Mutex
	planned map[string]time.Time
}

func NewLogScheduler(log logging.Logger) *LogScheduler {
	return &LogScheduler{
		log:     log.With("module", "reminders"),
		now:     time.Now,
		planned: make(map[string]time.Time),
	}
}

func (s *LogScheduler) Schedule(ctx context.Context, r models.Reminder, videoTitle string) (time.Time, error) {
	at, err := NextTrigger(r, s.now())
	if err != nil {
		return time.Time{}, err
	}
	s.mu.Lock()
	s.planned[r.ID] = at
	s.mu.Unlock()

	s.log.Info(ctx, "reminder scheduled",
		"reminder_id", r.ID,
		"title", "Reminder: "+videoTitle,
		"frequency", string(r.Frequency),
		"next", at.Format(time.RFC3339))
	return at, nil
}

func (s *LogScheduler) Cancel(ctx context.Context, reminderID string) error {
	s.mu.Lock()
	delete(s.planned, reminderID)
	s.mu.Unlock()
	s.log.Info(ctx, "reminder cancelled", "reminder_id", reminderID)
	return nil
}

// Planned returns the next trigger recorded for a reminder.
func (s *LogScheduler) Planned(reminderID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.planned[reminderID]
	return at, ok
}

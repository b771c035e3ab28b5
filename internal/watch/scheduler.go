package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron scheduler for the daily rebuild.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler running in loc.
func NewScheduler(loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// ScheduleDaily runs task every day at hour:minute:second. Returns the job ID.
func (s *Scheduler) ScheduleDaily(hour, minute, second uint, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, second))),
		gocron.NewTask(task),
		gocron.WithName("daily-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create daily rebuild job: %w", err)
	}
	return job.ID().String(), nil
}

// NextRun returns the next scheduled run of the job with id.
func (s *Scheduler) NextRun(id string) (time.Time, error) {
	for _, j := range s.scheduler.Jobs() {
		if j.ID().String() == id {
			return j.NextRun()
		}
	}
	return time.Time{}, fmt.Errorf("job %s not found", id)
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

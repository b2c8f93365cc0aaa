package jobs

import (
	"fmt"

	"library-lending-backend/internal/config"
	"library-lending-backend/internal/logger"
	"library-lending-backend/internal/service"
)

// Job names accepted by RunByName and the cronjob --run-once flag.
const (
	JobSweepExpiredReservations = "sweep-expired-reservations"
	JobSendOverdueReminders     = "send-overdue-reminders"
	JobAll                      = "all"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email       service.EmailService
	Circulation service.CirculationService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunByName runs one job, or every job for JobAll.
func (jr *JobRunner) RunByName(name string) error {
	switch name {
	case JobSweepExpiredReservations:
		jr.SweepExpiredReservations()
	case JobSendOverdueReminders:
		jr.SendOverdueReminders()
	case JobAll:
		jr.SweepExpiredReservations()
		jr.SendOverdueReminders()
	default:
		return fmt.Errorf("unknown job %q", name)
	}
	return nil
}

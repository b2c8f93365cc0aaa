package jobs

import (
	"context"

	"library-lending-backend/internal/logger"
)

// SweepExpiredReservations expires ready reservations whose pickup date has
// passed and hands the copies to the next readers in line.
func (jr *JobRunner) SweepExpiredReservations() {
	jr.runWithRecovery("SweepExpiredReservations", func() {
		ctx := context.Background()
		log := logger.WithService("jobs").With("job", JobSweepExpiredReservations)

		n, err := jr.services.Circulation.SweepExpired(ctx)
		if err != nil {
			log.Error("Failed to sweep expired reservations", "error", err)
			return
		}
		log.Info("Expired stale reservations", "count", n)
	})
}

// SendOverdueReminders emails every borrower holding a loan past its due date.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		log := logger.WithService("jobs").With("job", JobSendOverdueReminders)

		overdue, err := jr.services.Circulation.OverdueLoans(ctx)
		if err != nil {
			log.Error("Failed to list overdue loans", "error", err)
			return
		}

		sent := 0
		for _, o := range overdue {
			if o.User == nil || o.User.Email == "" {
				log.Warn("Overdue loan has no contact", "loan_id", o.Loan.ID, "user_id", o.Loan.UserID)
				continue
			}
			if err := jr.services.Email.SendOverdueReminder(ctx, o.User.Email, o.User.Name, o.Title, o.Loan.DueDate); err != nil {
				log.Error("Failed to send overdue reminder", "loan_id", o.Loan.ID, "user_id", o.Loan.UserID, "error", err)
				continue
			}
			sent++
		}

		log.Info("Sent overdue reminders", "sent", sent, "overdue", len(overdue))
	})
}

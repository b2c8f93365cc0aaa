package jobs

import (
	"errors"
	"testing"

	"library-lending-backend/internal/config"
	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRunner() (*JobRunner, *MockCirculationService, *MockEmailService) {
	circ := new(MockCirculationService)
	email := new(MockEmailService)
	jr := NewJobRunner(&Services{Email: email, Circulation: circ}, &config.Config{})
	return jr, circ, email
}

func TestSweepExpiredReservations(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		jr, circ, _ := newRunner()
		circ.On("SweepExpired", mock.Anything).Return(2, nil).Once()

		jr.SweepExpiredReservations()
		circ.AssertExpectations(t)
	})

	t.Run("Failure is contained", func(t *testing.T) {
		jr, circ, _ := newRunner()
		circ.On("SweepExpired", mock.Anything).Return(0, errors.New("db down")).Once()

		assert.NotPanics(t, jr.SweepExpiredReservations)
		circ.AssertExpectations(t)
	})
}

func TestSendOverdueReminders(t *testing.T) {
	jr, circ, email := newRunner()
	circ.On("OverdueLoans", mock.Anything).Return([]engine.OverdueLoan{
		{Loan: domain.Loan{ID: 1, UserID: 1, DueDate: "2026-03-01"}, Title: "Dune", User: &domain.User{ID: 1, Name: "Ada", Email: "ada@example.com"}},
		{Loan: domain.Loan{ID: 2, UserID: 2, DueDate: "2026-03-02"}, Title: "Foundation", User: &domain.User{ID: 2, Name: "Bo", Email: "bo@example.com"}},
		{Loan: domain.Loan{ID: 3, UserID: 99, DueDate: "2026-03-03"}, Title: "Ubik"},
	}, nil).Once()
	email.On("SendOverdueReminder", mock.Anything, "ada@example.com", "Ada", "Dune", "2026-03-01").Return(errors.New("bounced")).Once()
	email.On("SendOverdueReminder", mock.Anything, "bo@example.com", "Bo", "Foundation", "2026-03-02").Return(nil).Once()

	jr.SendOverdueReminders()

	circ.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestRunByName(t *testing.T) {
	jr, circ, _ := newRunner()
	circ.On("SweepExpired", mock.Anything).Return(0, nil).Twice()
	circ.On("OverdueLoans", mock.Anything).Return([]engine.OverdueLoan{}, nil).Once()

	assert.NoError(t, jr.RunByName(JobSweepExpiredReservations))
	assert.NoError(t, jr.RunByName(JobAll))
	assert.Error(t, jr.RunByName("mark-overdue-rentals"))
	circ.AssertExpectations(t)
}

func TestRunWithRecovery(t *testing.T) {
	jr, _, _ := newRunner()
	assert.NotPanics(t, func() {
		jr.runWithRecovery("Boom", func() { panic("boom") })
	})
}

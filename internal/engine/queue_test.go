package engine

import (
	"slices"
	"testing"

	"library-lending-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Reserve(t *testing.T) {
	e := New(DefaultPolicy())

	t.Run("Available book can be reserved", func(t *testing.T) {
		s := newTestState(dune(1))
		res, err := e.Reserve(s, duneID, userA, "", testNow)
		require.NoError(t, err)
		assert.Equal(t, 1, res.QueuePosition)
		assert.Equal(t, "2026-03-17", res.PickupDate)
		assert.Equal(t, domain.ReservationStatusWaiting, s.FindReservation(res.ReservationID).Status)
		assert.Equal(t, 0, s.FindBook(duneID).Available)
	})

	t.Run("Reservation limit", func(t *testing.T) {
		s := newTestState(dune(1), foundation(1),
			domain.Book{ID: 102, Title: "Hyperion", Copies: 1},
			domain.Book{ID: 103, Title: "Ubik", Copies: 1})
		for _, id := range []int64{duneID, foundationID, 102} {
			_, err := e.Reserve(s, id, userA, "", testNow)
			require.NoError(t, err)
		}

		_, err := e.Reserve(s, 103, userA, "", testNow)
		assert.ErrorIs(t, err, domain.ErrReservationLimitReached)
		assert.Len(t, s.Reservations, 3)
	})

	t.Run("Limit counts before duplicate", func(t *testing.T) {
		s := newTestState(dune(1), foundation(1), domain.Book{ID: 102, Title: "Hyperion", Copies: 1})
		for _, id := range []int64{duneID, foundationID, 102} {
			_, err := e.Reserve(s, id, userA, "", testNow)
			require.NoError(t, err)
		}

		_, err := e.Reserve(s, duneID, userA, "", testNow)
		assert.ErrorIs(t, err, domain.ErrReservationLimitReached)
	})

	t.Run("Already reserved", func(t *testing.T) {
		s := newTestState(dune(1))
		_, err := e.Reserve(s, duneID, userA, "", testNow)
		require.NoError(t, err)

		_, err = e.Reserve(s, duneID, userA, "", testNow)
		assert.ErrorIs(t, err, domain.ErrAlreadyReserved)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("Finished reservations free the slot", func(t *testing.T) {
		s := newTestState(dune(1))
		res, err := e.Reserve(s, duneID, userA, "", testNow)
		require.NoError(t, err)
		require.NoError(t, e.Cancel(s, res.ReservationID, userA, testNow))

		again, err := e.Reserve(s, duneID, userA, "", testNow)
		require.NoError(t, err)
		assert.NotEqual(t, res.ReservationID, again.ReservationID)
		assert.Equal(t, 1, again.QueuePosition)
	})

	t.Run("Unknown book", func(t *testing.T) {
		s := newTestState(dune(1))
		_, err := e.Reserve(s, 999, userA, "", testNow)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
		assert.Empty(t, s.Reservations)
	})

	t.Run("Pickup date validation", func(t *testing.T) {
		s := newTestState(dune(1))

		_, err := e.Reserve(s, duneID, userA, "03/20/2026", testNow)
		assert.Equal(t, domain.KindInputValidation, domain.KindOf(err))

		_, err = e.Reserve(s, duneID, userA, "2026-03-09", testNow)
		assert.Equal(t, domain.KindInputValidation, domain.KindOf(err))

		res, err := e.Reserve(s, duneID, userA, "2026-03-10", testNow)
		require.NoError(t, err)
		assert.Equal(t, "2026-03-10", res.PickupDate)
	})

	t.Run("Positions are not renumbered", func(t *testing.T) {
		s := newTestState(dune(1))
		_, err := e.Borrow(s, duneID, userA, testNow)
		require.NoError(t, err)

		b, err := e.Reserve(s, duneID, userB, "", testNow)
		require.NoError(t, err)
		c, err := e.Reserve(s, duneID, userC, "", testNow)
		require.NoError(t, err)
		d, err := e.Reserve(s, duneID, userD, "", testNow)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, []int{b.QueuePosition, c.QueuePosition, d.QueuePosition})

		require.NoError(t, e.Cancel(s, c.ReservationID, userC, testNow))
		assert.Equal(t, 1, s.FindReservation(b.ReservationID).QueuePosition)
		assert.Equal(t, 3, s.FindReservation(d.ReservationID).QueuePosition)

		// A newcomer counts the two still active, so it shares position 3 with D.
		a, err := e.Reserve(s, duneID, userA, "", testNow)
		require.NoError(t, err)
		assert.Equal(t, 3, a.QueuePosition)
	})
}

func TestEngine_Cancel(t *testing.T) {
	e := New(DefaultPolicy())

	t.Run("Only the owner can cancel", func(t *testing.T) {
		s := newTestState(dune(1))
		res, err := e.Reserve(s, duneID, userA, "", testNow)
		require.NoError(t, err)

		err = e.Cancel(s, res.ReservationID, userB, testNow)
		assert.ErrorIs(t, err, domain.ErrReservationNotFound)
		assert.Equal(t, domain.ReservationStatusWaiting, s.FindReservation(res.ReservationID).Status)
	})

	t.Run("Unknown reservation", func(t *testing.T) {
		s := newTestState(dune(1))
		assert.ErrorIs(t, e.Cancel(s, 42, userA, testNow), domain.ErrReservationNotFound)
	})

	t.Run("Cancelled twice", func(t *testing.T) {
		s := newTestState(dune(1))
		res, err := e.Reserve(s, duneID, userA, "", testNow)
		require.NoError(t, err)
		require.NoError(t, e.Cancel(s, res.ReservationID, userA, testNow))

		assert.ErrorIs(t, e.Cancel(s, res.ReservationID, userA, testNow), domain.ErrReservationNotFound)
	})

	t.Run("Last reservation cancelled restores availability", func(t *testing.T) {
		s := newTestState(dune(1))
		res, err := e.Reserve(s, duneID, userA, "", testNow)
		require.NoError(t, err)
		require.Equal(t, 0, s.FindBook(duneID).Available)

		require.NoError(t, e.Cancel(s, res.ReservationID, userA, testNow))
		assert.Equal(t, domain.ReservationStatusCancelled, s.FindReservation(res.ReservationID).Status)
		assert.Equal(t, 1, s.FindBook(duneID).Available)
	})

	t.Run("Cancelled hold passes to the next in line", func(t *testing.T) {
		s := newTestState(dune(1))
		_, err := e.Borrow(s, duneID, userA, testNow)
		require.NoError(t, err)
		b, err := e.Reserve(s, duneID, userB, "", testNow)
		require.NoError(t, err)
		c, err := e.Reserve(s, duneID, userC, "", days(1))
		require.NoError(t, err)
		_, err = e.Return(s, duneID, userA, days(2))
		require.NoError(t, err)
		require.Equal(t, domain.ReservationStatusReady, s.FindReservation(b.ReservationID).Status)

		require.NoError(t, e.Cancel(s, b.ReservationID, userB, days(3)))
		assert.Equal(t, domain.ReservationStatusReady, s.FindReservation(c.ReservationID).Status)
		assert.Equal(t, 0, s.FindBook(duneID).Available)
	})
}

func TestEngine_CleanupExpired(t *testing.T) {
	e := New(DefaultPolicy())

	setup := func(t *testing.T) (*domain.LibraryState, *ReserveResult, *ReserveResult) {
		s := newTestState(dune(1))
		_, err := e.Borrow(s, duneID, userA, testNow)
		require.NoError(t, err)
		b, err := e.Reserve(s, duneID, userB, "", testNow)
		require.NoError(t, err)
		c, err := e.Reserve(s, duneID, userC, "", days(1))
		require.NoError(t, err)
		_, err = e.Return(s, duneID, userA, testNow)
		require.NoError(t, err)
		require.Equal(t, "2026-03-17", s.FindReservation(b.ReservationID).PickupDate)
		return s, b, c
	}

	t.Run("Pickup date itself is still valid", func(t *testing.T) {
		s, b, _ := setup(t)
		n, err := e.CleanupExpired(s, days(7))
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, domain.ReservationStatusReady, s.FindReservation(b.ReservationID).Status)
	})

	t.Run("Expired hold goes to the next in line", func(t *testing.T) {
		s, b, c := setup(t)
		n, err := e.CleanupExpired(s, days(8))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, domain.ReservationStatusExpired, s.FindReservation(b.ReservationID).Status)

		next := s.FindReservation(c.ReservationID)
		assert.Equal(t, domain.ReservationStatusReady, next.Status)
		assert.Equal(t, "2026-03-25", next.PickupDate)
	})

	t.Run("Second run is a no-op", func(t *testing.T) {
		s, _, _ := setup(t)
		_, err := e.CleanupExpired(s, days(8))
		require.NoError(t, err)

		before := cloneState(s)
		n, err := e.CleanupExpired(s, days(8))
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, before, s)
	})

	t.Run("Waiting reservations never expire", func(t *testing.T) {
		s := newTestState(dune(1))
		_, err := e.Borrow(s, duneID, userA, testNow)
		require.NoError(t, err)
		b, err := e.Reserve(s, duneID, userB, "", testNow)
		require.NoError(t, err)

		n, err := e.CleanupExpired(s, days(60))
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, domain.ReservationStatusWaiting, s.FindReservation(b.ReservationID).Status)
	})

	t.Run("Free copy returns to the shelf when nobody is waiting", func(t *testing.T) {
		s := newTestState(dune(1))
		_, err := e.Borrow(s, duneID, userA, testNow)
		require.NoError(t, err)
		_, err = e.Reserve(s, duneID, userB, "", testNow)
		require.NoError(t, err)
		_, err = e.Return(s, duneID, userA, testNow)
		require.NoError(t, err)
		require.Equal(t, 0, s.FindBook(duneID).Available)

		_, err = e.CleanupExpired(s, days(8))
		require.NoError(t, err)
		assert.Equal(t, 1, s.FindBook(duneID).Available)
	})
}

func TestEngine_Pickup(t *testing.T) {
	e := New(DefaultPolicy())

	readyFor := func(t *testing.T, user int64) (*domain.LibraryState, *ReserveResult) {
		s := newTestState(dune(1))
		_, err := e.Borrow(s, duneID, userA, testNow)
		require.NoError(t, err)
		res, err := e.Reserve(s, duneID, user, "", testNow)
		require.NoError(t, err)
		_, err = e.Return(s, duneID, userA, testNow)
		require.NoError(t, err)
		return s, res
	}

	t.Run("Not ready", func(t *testing.T) {
		s := newTestState(dune(1))
		_, err := e.Borrow(s, duneID, userA, testNow)
		require.NoError(t, err)
		res, err := e.Reserve(s, duneID, userB, "", testNow)
		require.NoError(t, err)

		_, err = e.Pickup(s, res.ReservationID, userB, testNow)
		assert.ErrorIs(t, err, domain.ErrReservationNotReady)
		assert.Equal(t, domain.KindStatePrecondition, domain.KindOf(err))
	})

	t.Run("Someone else's reservation", func(t *testing.T) {
		s, res := readyFor(t, userB)
		_, err := e.Pickup(s, res.ReservationID, userC, testNow)
		assert.ErrorIs(t, err, domain.ErrReservationNotFound)
	})

	t.Run("Expired on pickup", func(t *testing.T) {
		s, res := readyFor(t, userB)
		_, err := e.Pickup(s, res.ReservationID, userB, days(8))
		assert.ErrorIs(t, err, domain.ErrReservationExpired)
		assert.Equal(t, domain.ReservationStatusExpired, s.FindReservation(res.ReservationID).Status)
		assert.Nil(t, s.FindLoan(duneID, userB))
		assert.Equal(t, 1, s.FindBook(duneID).Available)
	})

	t.Run("Borrow rules still apply", func(t *testing.T) {
		s, res := readyFor(t, userB)
		s.Borrowed = append(s.Borrowed, domain.Loan{ID: 50, BookID: 200, UserID: userB, DueDate: "2026-03-01"})

		_, err := e.Pickup(s, res.ReservationID, userB, testNow)
		assert.ErrorIs(t, err, domain.ErrOverdueOutstanding)
		assert.Equal(t, domain.ReservationStatusReady, s.FindReservation(res.ReservationID).Status)
	})

	t.Run("Pickup needs a copy beyond other ready holds", func(t *testing.T) {
		s := newTestState(dune(1))
		s.Reservations = append(s.Reservations,
			domain.Reservation{ID: 1, BookID: duneID, UserID: userB, PickupDate: "2026-03-15", QueuePosition: 1,
				Status: domain.ReservationStatusReady, CreatedOn: testNow.AddDate(0, 0, -3)},
			domain.Reservation{ID: 2, BookID: duneID, UserID: userC, PickupDate: "2026-03-15", QueuePosition: 2,
				Status: domain.ReservationStatusReady, CreatedOn: testNow.AddDate(0, 0, -2)},
		)
		RefreshAll(s)

		_, err := e.Pickup(s, 1, userB, testNow)
		assert.ErrorIs(t, err, domain.ErrReservedForAnother)
		assert.Empty(t, s.Borrowed)
		assert.Equal(t, domain.ReservationStatusReady, s.FindReservation(1).Status)

		s.Books[0].Copies = 2
		_, err = e.Pickup(s, 1, userB, testNow)
		require.NoError(t, err)
		_, err = e.Pickup(s, 2, userC, testNow)
		require.NoError(t, err)
		assert.Len(t, s.Borrowed, 2)
	})

	t.Run("Success", func(t *testing.T) {
		s, res := readyFor(t, userB)
		loan, err := e.Pickup(s, res.ReservationID, userB, days(1))
		require.NoError(t, err)
		assert.Equal(t, "2026-03-25", loan.DueDate)
		assert.Equal(t, domain.ReservationStatusCompleted, s.FindReservation(res.ReservationID).Status)

		_, err = e.Pickup(s, res.ReservationID, userB, days(1))
		assert.ErrorIs(t, err, domain.ErrReservationNotReady)
	})
}

func cloneState(s *domain.LibraryState) *domain.LibraryState {
	c := *s
	c.Books = slices.Clone(s.Books)
	c.Borrowed = slices.Clone(s.Borrowed)
	c.Reservations = slices.Clone(s.Reservations)
	c.History = slices.Clone(s.History)
	c.Users = slices.Clone(s.Users)
	return &c
}

// Package engine holds the borrow/reservation lifecycle rules. It operates on a
// *domain.LibraryState in memory and knows nothing about how the state is stored.
package engine

const (
	DefaultMaxLoans        = 5
	DefaultLoanDays        = 14
	DefaultMaxRenewals     = 2
	DefaultRenewDays       = 7
	DefaultMaxReservations = 3
	DefaultPickupDays      = 7
)

// Policy carries the configurable circulation limits. A MaxRenewals of 0
// disables renewals; a negative value takes the default.
type Policy struct {
	MaxLoans        int
	LoanDays        int
	MaxRenewals     int
	RenewDays       int
	MaxReservations int
	PickupDays      int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxLoans:        DefaultMaxLoans,
		LoanDays:        DefaultLoanDays,
		MaxRenewals:     DefaultMaxRenewals,
		RenewDays:       DefaultRenewDays,
		MaxReservations: DefaultMaxReservations,
		PickupDays:      DefaultPickupDays,
	}
}

// withDefaults fills zero or negative fields with the defaults. MaxRenewals
// only falls back when negative.
func (p Policy) withDefaults() Policy {
	if p.MaxLoans <= 0 {
		p.MaxLoans = DefaultMaxLoans
	}
	if p.LoanDays <= 0 {
		p.LoanDays = DefaultLoanDays
	}
	if p.MaxRenewals < 0 {
		p.MaxRenewals = DefaultMaxRenewals
	}
	if p.RenewDays <= 0 {
		p.RenewDays = DefaultRenewDays
	}
	if p.MaxReservations <= 0 {
		p.MaxReservations = DefaultMaxReservations
	}
	if p.PickupDays <= 0 {
		p.PickupDays = DefaultPickupDays
	}
	return p
}

// Engine applies circulation operations to a library state.
type Engine struct {
	policy Policy
}

func New(policy Policy) *Engine {
	return &Engine{policy: policy.withDefaults()}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

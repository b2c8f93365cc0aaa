package domain

import "errors"

// ErrorKind classifies business-rule rejections. None of them are system faults.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindLimitExceeded     ErrorKind = "LIMIT_EXCEEDED"
	KindConflict          ErrorKind = "CONFLICT"
	KindStatePrecondition ErrorKind = "STATE_PRECONDITION"
	KindInputValidation   ErrorKind = "INPUT_VALIDATION"
)

type RuleError struct {
	Kind    ErrorKind
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func NewRuleError(kind ErrorKind, message string) *RuleError {
	return &RuleError{Kind: kind, Message: message}
}

var (
	ErrOverdueOutstanding      = NewRuleError(KindStatePrecondition, "overdue books outstanding")
	ErrLoanLimitReached        = NewRuleError(KindLimitExceeded, "limit reached")
	ErrAlreadyBorrowed         = NewRuleError(KindConflict, "already borrowed")
	ErrBookNotFound            = NewRuleError(KindNotFound, "not found")
	ErrReservedForAnother      = NewRuleError(KindConflict, "reserved for another user")
	ErrNoCopiesAvailable       = NewRuleError(KindConflict, "no copies available")
	ErrLoanNotFound            = NewRuleError(KindNotFound, "record not found")
	ErrNoRenewalsLeft          = NewRuleError(KindStatePrecondition, "no renewals left")
	ErrReservedByAnother       = NewRuleError(KindConflict, "reserved by another user")
	ErrReservationLimitReached = NewRuleError(KindLimitExceeded, "max reservations reached")
	ErrAlreadyReserved         = NewRuleError(KindConflict, "already reserved")
	ErrReservationNotFound     = NewRuleError(KindNotFound, "not found")
	ErrReservationNotReady     = NewRuleError(KindStatePrecondition, "not ready")
	ErrReservationExpired      = NewRuleError(KindStatePrecondition, "expired")
)

// InvalidInput builds an InputValidation rejection for malformed identifiers or dates.
func InvalidInput(message string) *RuleError {
	return NewRuleError(KindInputValidation, message)
}

// KindOf returns the rejection kind of err, or "" when err is not a business-rule rejection.
func KindOf(err error) ErrorKind {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

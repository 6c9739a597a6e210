package entities

import (
	"errors"
	"fmt"
)

// FailureClass drives the pipeline's compensation logic: rejects happen
// before any debit, refunds require a compensating credit, and fatal
// failures require operator attention.
type FailureClass int

const (
	FailureClassReject FailureClass = iota
	FailureClassRefund
	FailureClassFatal
)

// FailureCode identifies the specific failure for reporting.
type FailureCode string

const (
	FailureSyntax         FailureCode = "syntax_error"
	FailureConfig         FailureCode = "config_error"
	FailureBalance        FailureCode = "insufficient_balance"
	FailureDuplicate      FailureCode = "duplicate_bet"
	FailureServiceTimeout FailureCode = "service_timeout"
	FailureLobbyType      FailureCode = "lobby_type"
	FailureBetTime        FailureCode = "bet_time"
	FailureUnknown        FailureCode = "unknown"
)

// BetFailure is the tagged error type for everything that can go wrong
// inside the bet pipeline. Callers branch on Class and Code via errors.As,
// never on message text.
type BetFailure struct {
	Class   FailureClass
	Code    FailureCode
	Message string
	Err     error
}

func (f *BetFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *BetFailure) Unwrap() error {
	return f.Err
}

// NewReject creates a pre-debit failure; the ledger is never touched.
func NewReject(code FailureCode, msg string) *BetFailure {
	return &BetFailure{Class: FailureClassReject, Code: code, Message: msg}
}

// NewRefund creates a post-debit failure requiring a compensating credit.
func NewRefund(code FailureCode, msg string, err error) *BetFailure {
	return &BetFailure{Class: FailureClassRefund, Code: code, Message: msg, Err: err}
}

// AsBetFailure extracts a BetFailure from an error chain. Unclassified
// errors are treated conservatively as refundable.
func AsBetFailure(err error) *BetFailure {
	var f *BetFailure
	if errors.As(err, &f) {
		return f
	}
	return &BetFailure{Class: FailureClassRefund, Code: FailureUnknown, Message: "unexpected error", Err: err}
}

// InsufficientBalanceError is raised when a conditional debit's balance
// guard fails. It never partially applies.
type InsufficientBalanceError struct {
	Current   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Current, e.Requested)
}

// As allows InsufficientBalanceError to satisfy errors.As for BetFailure,
// carrying its reject classification with it.
func (e *InsufficientBalanceError) As(target any) bool {
	if f, ok := target.(**BetFailure); ok {
		*f = &BetFailure{
			Class:   FailureClassReject,
			Code:    FailureBalance,
			Message: e.Error(),
			Err:     e,
		}
		return true
	}
	return false
}

// ErrUserNotFound is returned by the ledger for unknown accounts.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateBet is returned when a BetID has already been reserved or
// settled; replaying a terminal bet is a no-op.
var ErrDuplicateBet = errors.New("bet id already processed")

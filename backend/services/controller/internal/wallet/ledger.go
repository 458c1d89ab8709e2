package wallet

import (
	"errors"
	"math"
	"sync"
)

// Ledger errors.
var (
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// Ledger holds the single process-wide wallet balance. Amounts are stored as
// integer cents so that paired debit/credit operations net out exactly.
type Ledger struct {
	mu    sync.Mutex
	cents int64
}

// NewLedger returns a ledger seeded with the initial balance.
func NewLedger(initial float64) *Ledger {
	if initial < 0 {
		initial = 0
	}
	return &Ledger{cents: ToCents(initial)}
}

// Balance returns the current balance.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return FromCents(l.cents)
}

// Debit removes amount from the balance. It refuses to go negative; the
// pre-authorization check against session context lives at the call site.
func (l *Ledger) Debit(amount float64) error {
	cents := ToCents(amount)
	if cents < 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cents > l.cents {
		return ErrInsufficientFunds
	}
	l.cents -= cents
	return nil
}

// Credit adds amount to the balance. A zero credit is valid: a session that
// consumed its full pre-authorization refunds nothing.
func (l *Ledger) Credit(amount float64) error {
	cents := ToCents(amount)
	if cents < 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	l.cents += cents
	l.mu.Unlock()
	return nil
}

// TopUp adds a strictly positive amount to the balance.
func (l *Ledger) TopUp(amount float64) error {
	if ToCents(amount) <= 0 {
		return ErrInvalidAmount
	}
	return l.Credit(amount)
}

// ToCents converts a monetary amount to integer cents.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts integer cents back to a monetary amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

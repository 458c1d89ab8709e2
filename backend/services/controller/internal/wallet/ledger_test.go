package wallet

import (
	"errors"
	"testing"
)

func TestDebitCreditPairNetsToCost(t *testing.T) {
	l := NewLedger(50.00)

	// Session lifecycle: reserve the pre-authorization, refund the unspent part.
	if err := l.Debit(10.00); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := l.Credit(9.97); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if got := l.Balance(); got != 49.97 {
		t.Fatalf("expected balance 49.97, got %v", got)
	}
}

func TestDebitRefusesToGoNegative(t *testing.T) {
	l := NewLedger(5.00)

	if err := l.Debit(10.00); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := l.Balance(); got != 5.00 {
		t.Fatalf("failed debit mutated balance: %v", got)
	}
}

func TestZeroCreditAllowed(t *testing.T) {
	l := NewLedger(10.00)
	if err := l.Credit(0); err != nil {
		t.Fatalf("zero credit should be valid: %v", err)
	}
	if got := l.Balance(); got != 10.00 {
		t.Fatalf("zero credit changed balance: %v", got)
	}
}

func TestTopUpRequiresPositiveAmount(t *testing.T) {
	l := NewLedger(1.00)

	if err := l.TopUp(0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero top-up, got %v", err)
	}
	if err := l.TopUp(-3); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative top-up, got %v", err)
	}
	if err := l.TopUp(20.00); err != nil {
		t.Fatalf("top-up: %v", err)
	}
	if got := l.Balance(); got != 21.00 {
		t.Fatalf("expected 21.00, got %v", got)
	}
}

func TestCentsRounding(t *testing.T) {
	// 0.1+0.2 style float noise must not leak into the ledger.
	l := NewLedger(0.30)
	if err := l.Debit(0.1 + 0.2); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if got := l.Balance(); got != 0 {
		t.Fatalf("expected zero balance, got %v", got)
	}
}

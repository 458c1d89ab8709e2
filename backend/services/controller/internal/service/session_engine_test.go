package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"solarsynergy/backend/services/controller/internal/clients"
	"solarsynergy/backend/services/controller/internal/models"
	"solarsynergy/backend/services/controller/internal/wallet"
)

type fakeBridge struct {
	mu       sync.Mutex
	commands []clients.Command
	err      error
}

func (f *fakeBridge) SendIntent(ctx context.Context, cmd clients.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeBridge) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeBridge) count(cmd clients.Command) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.commands {
		if c == cmd {
			n++
		}
	}
	return n
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func testStation() models.Station {
	return models.Station{ID: 1, Name: "Village 3C", Slots: 2, TotalSlots: 2}
}

// newManualEngine uses a tick interval long enough that the ticker never
// fires during a test; ticks are driven by calling tick() directly.
func newManualEngine(balance float64) (*Engine, *wallet.Ledger, *fakeBridge) {
	ledger := wallet.NewLedger(balance)
	bridge := &fakeBridge{}
	return NewEngine(ledger, bridge, zap.NewNop(), time.Hour), ledger, bridge
}

func startInput(preAuth float64) StartInput {
	return StartInput{
		Station: testStation(),
		Mode:    models.ModeEco,
		SlotID:  "A1",
		PreAuth: preAuth,
	}
}

func TestStartDebitsAndRequestsLock(t *testing.T) {
	e, ledger, bridge := newManualEngine(50.00)

	sess, err := e.Start(startInput(10.00))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer e.End()

	if got := ledger.Balance(); got != 40.00 {
		t.Fatalf("expected balance 40.00 after debit, got %v", got)
	}
	if sess.ChargeLevel != 20 {
		t.Fatalf("expected 20%% baseline, got %v", sess.ChargeLevel)
	}
	if sess.Status != models.SessionStatusCharging {
		t.Fatalf("expected charging status, got %s", sess.Status)
	}
	if !sess.Locked {
		t.Fatalf("session must start locked")
	}
	if sess.Cost != 0 {
		t.Fatalf("expected zero initial cost, got %v", sess.Cost)
	}

	waitFor(t, time.Second, func() bool { return bridge.count(clients.CommandLock) == 1 })
}

func TestStartInsufficientFundsMutatesNothing(t *testing.T) {
	e, ledger, bridge := newManualEngine(50.00)

	_, err := e.Start(startInput(60.00))
	if !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := ledger.Balance(); got != 50.00 {
		t.Fatalf("rejected start moved money: %v", got)
	}
	if _, ok := e.Snapshot(); ok {
		t.Fatalf("rejected start left a session behind")
	}
	if bridge.count(clients.CommandLock) != 0 {
		t.Fatalf("rejected start issued a bridge command")
	}
}

func TestStartRejectsUnderfundedPreAuth(t *testing.T) {
	e, ledger, _ := newManualEngine(50.00)

	// A full ECO charge runs 160 ticks at a cent each; 1.00 cannot cover it.
	_, err := e.Start(startInput(1.00))
	if !errors.Is(err, ErrPreAuthTooLow) {
		t.Fatalf("expected ErrPreAuthTooLow, got %v", err)
	}
	if got := ledger.Balance(); got != 50.00 {
		t.Fatalf("rejected start moved money: %v", got)
	}

	// A tight duration limit shrinks the worst case enough.
	input := startInput(1.00)
	input.DurationLimitSeconds = 60
	if _, err := e.Start(input); err != nil {
		t.Fatalf("limited session should accept 1.00: %v", err)
	}
	e.End()
}

func TestStartWhileActiveRejected(t *testing.T) {
	e, _, _ := newManualEngine(50.00)

	if _, err := e.Start(startInput(10.00)); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer e.End()

	if _, err := e.Start(startInput(5.00)); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
}

func TestEcoSessionThreeTicks(t *testing.T) {
	e, ledger, _ := newManualEngine(50.00)

	if _, err := e.Start(startInput(10.00)); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 3; i++ {
		if receipt := e.tick(); receipt != nil {
			t.Fatalf("tick %d ended the session early", i+1)
		}
	}

	sess, ok := e.Snapshot()
	if !ok {
		t.Fatalf("session missing after ticks")
	}
	if sess.ChargeLevel != 21.5 {
		t.Fatalf("expected charge 21.5, got %v", sess.ChargeLevel)
	}
	if sess.Cost != 0.03 {
		t.Fatalf("expected cost 0.03, got %v", sess.Cost)
	}
	if sess.ElapsedSeconds != 3 {
		t.Fatalf("expected 3 elapsed seconds, got %d", sess.ElapsedSeconds)
	}

	receipt, err := e.End()
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if receipt == nil {
		t.Fatalf("expected a receipt")
	}
	if receipt.Cost != 0.03 {
		t.Fatalf("receipt cost %v, want 0.03", receipt.Cost)
	}
	if receipt.Paid != 10.00 {
		t.Fatalf("receipt paid %v, want 10.00", receipt.Paid)
	}
	if receipt.Refund != 9.97 {
		t.Fatalf("receipt refund %v, want 9.97", receipt.Refund)
	}
	if receipt.Paid-receipt.Cost != receipt.Refund {
		t.Fatalf("refund identity broken: %v - %v != %v", receipt.Paid, receipt.Cost, receipt.Refund)
	}
	if got := ledger.Balance(); got != 49.97 {
		t.Fatalf("expected balance 49.97, got %v", got)
	}
}

func TestEndIsIdempotent(t *testing.T) {
	e, ledger, bridge := newManualEngine(50.00)

	if _, err := e.Start(startInput(10.00)); err != nil {
		t.Fatalf("start: %v", err)
	}
	e.tick()

	first, err := e.End()
	if err != nil || first == nil {
		t.Fatalf("first end: receipt=%v err=%v", first, err)
	}
	balance := ledger.Balance()

	second, err := e.End()
	if err != nil {
		t.Fatalf("second end: %v", err)
	}
	if second != nil {
		t.Fatalf("second end produced a receipt")
	}
	if got := ledger.Balance(); got != balance {
		t.Fatalf("second end touched the wallet: %v != %v", got, balance)
	}
	if got := len(e.Receipts()); got != 1 {
		t.Fatalf("expected exactly one receipt, got %d", got)
	}
	waitFor(t, time.Second, func() bool { return bridge.count(clients.CommandUnlock) == 1 })
}

func TestChargeCapForcesEndInSameTick(t *testing.T) {
	e, _, _ := newManualEngine(50.00)

	if _, err := e.Start(startInput(10.00)); err != nil {
		t.Fatalf("start: %v", err)
	}

	e.mu.Lock()
	e.session.ChargeLevel = 99.8
	e.mu.Unlock()

	receipt := e.tick()
	if receipt == nil {
		t.Fatalf("tick past 100 must end the session")
	}
	if _, ok := e.Snapshot(); ok {
		t.Fatalf("session survived the full-charge tick")
	}

	// No further ticks apply once the session ended.
	if extra := e.tick(); extra != nil {
		t.Fatalf("tick after end produced a receipt")
	}
	if got := len(e.Receipts()); got != 1 {
		t.Fatalf("expected one receipt, got %d", got)
	}
	// Charge level clamps at 100; energy never reports past a full battery.
	if receipt.TotalEnergy != "24kWh" {
		t.Fatalf("expected full-charge energy 24kWh, got %s", receipt.TotalEnergy)
	}
}

func TestDurationLimitEndsSession(t *testing.T) {
	e, _, _ := newManualEngine(50.00)

	input := startInput(10.00)
	input.DurationLimitSeconds = 2
	if _, err := e.Start(input); err != nil {
		t.Fatalf("start: %v", err)
	}

	if receipt := e.tick(); receipt != nil {
		t.Fatalf("first tick ended a 2s-limited session")
	}
	receipt := e.tick()
	if receipt == nil {
		t.Fatalf("duration limit did not end the session")
	}
	if receipt.Cost != 0.02 {
		t.Fatalf("expected cost 0.02 for two ticks, got %v", receipt.Cost)
	}
}

func TestTickerRunsAutomatically(t *testing.T) {
	ledger := wallet.NewLedger(50.00)
	bridge := &fakeBridge{}
	e := NewEngine(ledger, bridge, zap.NewNop(), 5*time.Millisecond)

	if _, err := e.Start(startInput(10.00)); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer e.End()

	waitFor(t, 2*time.Second, func() bool {
		sess, ok := e.Snapshot()
		return ok && sess.ElapsedSeconds >= 3
	})

	sess, _ := e.Snapshot()
	if sess.ChargeLevel <= 20 {
		t.Fatalf("charge level did not advance: %v", sess.ChargeLevel)
	}
	if sess.Cost <= 0 {
		t.Fatalf("cost did not accrue: %v", sess.Cost)
	}
}

func TestToggleLockIsOptimistic(t *testing.T) {
	e, _, bridge := newManualEngine(50.00)

	if _, err := e.Start(startInput(10.00)); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer e.End()

	// Bridge failures must not prevent the local flag from flipping.
	bridge.setErr(errors.New("bridge down"))

	locked, err := e.ToggleLock()
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if locked {
		t.Fatalf("expected unlocked after toggle from locked")
	}
	sess, _ := e.Snapshot()
	if sess.Locked {
		t.Fatalf("session flag not updated optimistically")
	}

	bridge.setErr(nil)
	locked, err = e.ToggleLock()
	if err != nil || !locked {
		t.Fatalf("expected locked after second toggle, got %v err=%v", locked, err)
	}
	waitFor(t, time.Second, func() bool { return bridge.count(clients.CommandLock) >= 1 })
}

func TestToggleLockWithoutSession(t *testing.T) {
	e, _, _ := newManualEngine(50.00)
	if _, err := e.ToggleLock(); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestBridgeOutageNeverBlocksAccounting(t *testing.T) {
	ledger := wallet.NewLedger(50.00)
	bridge := &fakeBridge{}
	bridge.setErr(errors.New("unreachable"))
	e := NewEngine(ledger, bridge, zap.NewNop(), time.Hour)

	if _, err := e.Start(startInput(10.00)); err != nil {
		t.Fatalf("start must succeed with bridge down: %v", err)
	}
	e.tick()

	receipt, err := e.End()
	if err != nil || receipt == nil {
		t.Fatalf("end must succeed with bridge down: receipt=%v err=%v", receipt, err)
	}
	if got := ledger.Balance(); got != 49.99 {
		t.Fatalf("expected balance 49.99, got %v", got)
	}
}

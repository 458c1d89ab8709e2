package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"solarsynergy/backend/services/controller/internal/clients"
	"solarsynergy/backend/services/controller/internal/models"
	"solarsynergy/backend/services/controller/internal/wallet"
)

// Engine errors.
var (
	ErrSessionActive   = errors.New("a charging session is already active")
	ErrNoActiveSession = errors.New("no active charging session")
	ErrPreAuthTooLow   = errors.New("pre-authorization does not cover the session")
)

const (
	defaultTickInterval = time.Second

	// chargeStartLevel models a vehicle that is already connected when the
	// session begins.
	chargeStartLevel  = 20.0
	chargeStepPerTick = 0.5
	maxChargeLevel    = 100.0

	// batteryCapacityKWh backs the energy figure on receipts.
	batteryCapacityKWh = 30.0

	// ticksToFull is the longest possible session in ticks.
	ticksToFull = int((maxChargeLevel - chargeStartLevel) / chargeStepPerTick)

	sendTimeout = 5 * time.Second
)

// tickCostCents is the per-tick price in cents.
func tickCostCents(mode models.ChargingMode) int64 {
	if mode == models.ModeTurbo {
		return 2
	}
	return 1
}

// worstCaseCostCents is the most a session can accrue before it ends on its
// own: full charge is 160 ticks unless the duration limit cuts it shorter.
// Start rejects pre-authorizations below this, keeping preAuth >= cost true
// for the whole session by construction rather than by clamping.
func worstCaseCostCents(input StartInput) int64 {
	ticks := ticksToFull
	if input.DurationLimitSeconds > 0 && input.DurationLimitSeconds < ticks {
		ticks = input.DurationLimitSeconds
	}
	return int64(ticks) * tickCostCents(input.Mode)
}

// Wallet is the subset of the ledger the engine drives.
type Wallet interface {
	Balance() float64
	Debit(amount float64) error
	Credit(amount float64) error
}

// IntentSender relays lock/unlock intent to the bridge.
type IntentSender interface {
	SendIntent(ctx context.Context, cmd clients.Command) error
}

// StartInput carries everything needed to open a session.
type StartInput struct {
	Station              models.Station
	Mode                 models.ChargingMode
	SlotID               string
	DurationLimitSeconds int
	PreAuth              float64
}

// Engine owns the active charging session: it meters usage and cost once per
// tick, drives the wallet pre-authorization and refund, and requests
// lock/unlock transitions through the bridge. The bridge is best-effort and
// never on the critical path of the financial accounting.
type Engine struct {
	ledger       Wallet
	bridge       IntentSender
	logger       *zap.Logger
	tickInterval time.Duration

	mu           sync.Mutex
	session      *models.Session
	costCents    int64
	preAuthCents int64
	ticks        int
	stopTick     chan struct{}
	receipts     []models.Receipt
}

// NewEngine builds an engine. A zero tickInterval selects the 1s default.
func NewEngine(ledger Wallet, bridge IntentSender, logger *zap.Logger, tickInterval time.Duration) *Engine {
	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}
	return &Engine{
		ledger:       ledger,
		bridge:       bridge,
		logger:       logger,
		tickInterval: tickInterval,
	}
}

// Start opens a session: it reserves the pre-authorization, creates the
// session at the 20% baseline, requests a LOCK and begins ticking. Nothing is
// mutated when the pre-authorization exceeds the balance.
func (e *Engine) Start(input StartInput) (models.Session, error) {
	e.mu.Lock()
	if e.session != nil {
		e.mu.Unlock()
		return models.Session{}, ErrSessionActive
	}
	if wallet.ToCents(input.PreAuth) < worstCaseCostCents(input) {
		e.mu.Unlock()
		return models.Session{}, ErrPreAuthTooLow
	}
	if input.PreAuth > e.ledger.Balance() {
		e.mu.Unlock()
		return models.Session{}, wallet.ErrInsufficientFunds
	}
	if err := e.ledger.Debit(input.PreAuth); err != nil {
		e.mu.Unlock()
		return models.Session{}, err
	}

	e.preAuthCents = wallet.ToCents(input.PreAuth)
	e.costCents = 0
	e.ticks = 0
	e.session = &models.Session{
		ID:                   uuid.NewString(),
		Station:              input.Station,
		Mode:                 input.Mode,
		SlotID:               input.SlotID,
		StartTime:            time.Now().UTC(),
		Status:               models.SessionStatusCharging,
		ChargeLevel:          chargeStartLevel,
		Cost:                 0,
		PreAuthAmount:        wallet.FromCents(e.preAuthCents),
		DurationLimitSeconds: input.DurationLimitSeconds,
		Locked:               true,
	}
	stop := make(chan struct{})
	e.stopTick = stop
	snapshot := *e.session
	e.mu.Unlock()

	go e.runTicker(stop)
	e.send(clients.CommandLock)

	e.logger.Info("charging session started",
		zap.String("session_id", snapshot.ID),
		zap.String("station", snapshot.Station.Name),
		zap.String("mode", string(snapshot.Mode)),
		zap.Float64("pre_auth", snapshot.PreAuthAmount),
	)
	return snapshot, nil
}

// ToggleLock flips the cable lock while charging. The local flag updates
// optimistically before the bridge send; a failed send surfaces as a warning
// only.
func (e *Engine) ToggleLock() (bool, error) {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return false, ErrNoActiveSession
	}
	e.session.Locked = !e.session.Locked
	locked := e.session.Locked
	e.mu.Unlock()

	cmd := clients.CommandUnlock
	if locked {
		cmd = clients.CommandLock
	}
	e.send(cmd)
	return locked, nil
}

// End terminates the active session: it stops the ticker, requests an UNLOCK
// unconditionally to guarantee physical release, refunds the unspent
// pre-authorization and issues the receipt. Idempotent: with no active
// session it returns (nil, nil) and touches nothing.
func (e *Engine) End() (*models.Receipt, error) {
	e.mu.Lock()
	receipt := e.finishLocked()
	e.mu.Unlock()

	if receipt == nil {
		return nil, nil
	}
	e.send(clients.CommandUnlock)
	return receipt, nil
}

// Snapshot returns a copy of the active session.
func (e *Engine) Snapshot() (models.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return models.Session{}, false
	}
	return *e.session, true
}

// Receipts returns the receipts issued so far, oldest first.
func (e *Engine) Receipts() []models.Receipt {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Receipt, len(e.receipts))
	copy(out, e.receipts)
	return out
}

// Shutdown ends any active session so the ticker is cancelled and the wallet
// refund lands before the process exits.
func (e *Engine) Shutdown() {
	if receipt, _ := e.End(); receipt != nil {
		e.logger.Info("session ended on shutdown", zap.String("receipt_id", receipt.ID))
	}
}

func (e *Engine) runTicker(stop chan struct{}) {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if receipt := e.tick(); receipt != nil {
				e.send(clients.CommandUnlock)
				return
			}
		}
	}
}

// tick advances the session by one quantum. When the charge level reaches
// 100 or the duration limit is hit, the session is finished within the same
// tick and the receipt is returned; no further ticks apply.
func (e *Engine) tick() *models.Receipt {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || s.Status != models.SessionStatusCharging {
		return nil
	}

	e.ticks++
	s.ChargeLevel += chargeStepPerTick
	if s.ChargeLevel > maxChargeLevel {
		s.ChargeLevel = maxChargeLevel
	}
	e.costCents += tickCostCents(s.Mode)
	s.Cost = wallet.FromCents(e.costCents)
	s.ElapsedSeconds = e.ticks

	if s.ChargeLevel >= maxChargeLevel {
		return e.finishLocked()
	}
	if s.DurationLimitSeconds > 0 && e.ticks >= s.DurationLimitSeconds {
		return e.finishLocked()
	}
	return nil
}

// finishLocked settles the session. Callers hold e.mu and are responsible for
// the UNLOCK send once the lock is released.
func (e *Engine) finishLocked() *models.Receipt {
	s := e.session
	if s == nil {
		return nil
	}
	if e.stopTick != nil {
		close(e.stopTick)
		e.stopTick = nil
	}

	refundCents := e.preAuthCents - e.costCents
	if err := e.ledger.Credit(wallet.FromCents(refundCents)); err != nil {
		e.logger.Error("refund credit failed", zap.Error(err))
	}

	s.Status = models.SessionStatusEnded
	issued := time.Now().UTC()
	elapsed := time.Duration(e.ticks) * time.Second
	energyKWh := (s.ChargeLevel - chargeStartLevel) / 100 * batteryCapacityKWh

	receipt := models.Receipt{
		ID:          uuid.NewString(),
		StationName: s.Station.Name,
		IssuedAt:    issued,
		Duration:    strings.TrimSpace(humanize.RelTime(issued.Add(-elapsed), issued, "", "")),
		TotalEnergy: humanize.FtoaWithDigits(energyKWh, 2) + "kWh",
		Mode:        s.Mode,
		Cost:        wallet.FromCents(e.costCents),
		Paid:        wallet.FromCents(e.preAuthCents),
		Refund:      wallet.FromCents(refundCents),
	}
	e.receipts = append(e.receipts, receipt)
	e.session = nil
	e.costCents = 0
	e.preAuthCents = 0
	e.ticks = 0

	e.logger.Info("charging session ended",
		zap.String("receipt_id", receipt.ID),
		zap.Float64("cost", receipt.Cost),
		zap.Float64("refund", receipt.Refund),
	)
	return &receipt
}

// send relays an intent best-effort with its own bounded timeout. Failures
// are logged and never block a state transition: a lock failure must not
// strand a user's money.
func (e *Engine) send(cmd clients.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := e.bridge.SendIntent(ctx, cmd); err != nil {
		e.logger.Warn("bridge sync failed", zap.String("command", string(cmd)), zap.Error(err))
	}
}

package strategy

import (
	"context"
	"fmt"
	"log"
	"time"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
)

// DefaultCooldown is the minimum gap between two alerts for one instrument.
const DefaultCooldown = 300 * time.Second

// Alerter sends a best-effort notification when a signal carries a buy or sell.
// It holds no per-instrument state: the caller passes the time of the last
// alert and stores the returned one.
type Alerter struct {
	Notifier notifier.Notifier
	Cooldown time.Duration
	Now      func() time.Time
	// Observe, when set, is called after every delivery attempt with its outcome.
	Observe func(sig *model.TradeSignal, message string, err error)
}

// NewAlerter creates an Alerter with the given cooldown.
func NewAlerter(n notifier.Notifier, cooldown time.Duration) *Alerter {
	return &Alerter{Notifier: n, Cooldown: cooldown, Now: time.Now}
}

// Due reports whether an alert would fire for sig given the last alert time.
func (a *Alerter) Due(sig *model.TradeSignal, last time.Time) bool {
	if sig == nil || !(sig.HasBuy() || sig.HasSell()) {
		return false
	}
	return last.IsZero() || a.now().Sub(last) >= a.Cooldown
}

// Dispatch sends at most one alert and returns the new last-alert time.
// Delivery failures are logged and never returned; the timestamp advances on
// every attempt so a failing sink is not hammered.
func (a *Alerter) Dispatch(ctx context.Context, sig *model.TradeSignal, last time.Time) (next time.Time, sent bool) {
	if !a.Due(sig, last) {
		return last, false
	}
	now := a.now()
	msg := notifier.FormatAlert(sig)
	err := a.deliver(ctx, msg)
	if err != nil {
		log.Printf("[WARN] alert for %s not delivered: %v", sig.Symbol, err)
	}
	if a.Observe != nil {
		a.Observe(sig, msg, err)
	}
	return now, true
}

func (a *Alerter) deliver(ctx context.Context, msg string) (err error) {
	if a.Notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return a.Notifier.Notify(ctx, msg)
}

func (a *Alerter) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

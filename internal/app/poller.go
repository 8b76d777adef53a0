package app

import (
	"context"
	"log"
	"time"

	"github.com/tparrish/hitch/internal/corral"
	"github.com/tparrish/hitch/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// Poller refreshes the schedule store at a fixed cadence, backing off
// while the backend is unreachable.
type Poller struct {
	store    *state.Store
	client   *corral.Client
	interval time.Duration
	kick     chan struct{}
}

// StartPoller launches the background refresh goroutine. It performs one
// synchronous refresh first so the store is populated before the UI draws,
// then returns.
func StartPoller(ctx context.Context, store *state.Store, client *corral.Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	p := &Poller{
		store:    store,
		client:   client,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
	p.refresh(ctx)
	go p.loop(ctx)
	return p
}

// Kick requests an immediate refresh. Safe from any goroutine; coalesces
// when one is already pending.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(ctx context.Context) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.kick:
		case <-timer.C:
		}

		p.refresh(ctx)

		failures := p.store.Snapshot().ConsecutiveFailures
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(calculateBackoff(failures, p.interval))
	}
}

func (p *Poller) refresh(ctx context.Context) {
	jobs, err := p.client.FetchSchedule(ctx)
	if err != nil {
		p.store.Update(nil, err)
		log.Printf("schedule poll failed: %v", err)
		return
	}
	p.store.Update(jobs, nil)
}

// calculateBackoff doubles the base interval per consecutive failure,
// capped at maxBackoff. Zero failures returns the base interval.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// Package keypool rotates a set of interchangeable API credentials under a
// per-credential rolling-window rate ceiling.
package keypool

import (
	"fmt"
	"log"
	"sync"
	"time"
)

const window = 60 * time.Second

// All-saturated wait is a flat sleep rather than a computed one; the extra
// seconds absorb clock and network latency slack.
const saturatedWait = 65 * time.Second

// Pool tracks recent call timestamps per credential and hands out the next
// credential with spare capacity, round-robin. One instance per process run.
type Pool struct {
	mu           sync.Mutex
	secrets      []string
	maxPerMinute int
	cursor       int
	calls        [][]time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func New(secrets []string, maxPerMinute int) (*Pool, error) {
	if len(secrets) == 0 {
		return nil, fmt.Errorf("no API credentials supplied")
	}
	if maxPerMinute <= 0 {
		return nil, fmt.Errorf("maxPerMinute must be positive, got %d", maxPerMinute)
	}

	return &Pool{
		secrets:      secrets,
		maxPerMinute: maxPerMinute,
		calls:        make([][]time.Time, len(secrets)),
		now:          time.Now,
		sleep:        time.Sleep,
	}, nil
}

func (p *Pool) Len() int {
	return len(p.secrets)
}

func (p *Pool) Secret(index int) string {
	return p.secrets[index]
}

// Acquire blocks until some credential has spare capacity in its rolling
// 60-second window, records the call against it and returns its index.
// Saturation only delays, it never fails.
func (p *Pool) Acquire() int {
	p.mu.Lock()

	if idx, ok := p.tryAcquire(); ok {
		p.mu.Unlock()
		return idx
	}

	log.Printf("All %d API keys at rate limit, waiting %s", len(p.secrets), saturatedWait)
	p.mu.Unlock()
	p.sleep(saturatedWait)

	p.mu.Lock()
	defer p.mu.Unlock()

	// Windows have aged out after the wait; clear them and restart rotation
	// from the first credential.
	for i := range p.calls {
		p.calls[i] = nil
	}
	p.cursor = 1 % len(p.secrets)
	p.calls[0] = append(p.calls[0], p.now())
	return 0
}

// tryAcquire scans credentials starting at the cursor and claims the first
// one under its ceiling. Caller must hold p.mu.
func (p *Pool) tryAcquire() (int, bool) {
	current := p.now()

	for attempt := 0; attempt < len(p.secrets); attempt++ {
		idx := (p.cursor + attempt) % len(p.secrets)

		p.calls[idx] = pruneOld(p.calls[idx], current)

		if len(p.calls[idx]) < p.maxPerMinute {
			p.calls[idx] = append(p.calls[idx], current)
			p.cursor = (idx + 1) % len(p.secrets)
			return idx, true
		}
	}

	return 0, false
}

// CallsInWindow reports how many calls a credential has made inside its
// current rolling window.
func (p *Pool) CallsInWindow(index int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls[index] = pruneOld(p.calls[index], p.now())
	return len(p.calls[index])
}

func pruneOld(timestamps []time.Time, current time.Time) []time.Time {
	kept := timestamps[:0]
	for _, t := range timestamps {
		if current.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	return kept
}

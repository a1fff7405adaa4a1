package scraper

import (
	"context"
	"math/rand"
	"time"

	"sjsage522/profilescout/pkg/errors"
	"sjsage522/profilescout/services/browser"
)

const nudgePixels = 50

// Pacer owns the randomized delays and scroll loops that keep page
// interaction at a human-looking rhythm.
type Pacer struct {
	rnd *rand.Rand
}

func NewPacer() *Pacer {
	return &Pacer{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// JitteredDelay sleeps for base plus a uniform random amount below
// spread, returning early with the context error on cancellation.
func (p *Pacer) JitteredDelay(ctx context.Context, base, spread time.Duration) error {
	d := base
	if spread > 0 {
		d += time.Duration(p.rnd.Int63n(int64(spread)))
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ScrollUntilStable scrolls the page down stepwise until the document
// height stops growing or maxRounds is exhausted. When the height looks
// converged it issues one small nudge to flush lazy loaders before
// accepting convergence.
func (p *Pacer) ScrollUntilStable(ctx context.Context, sess browser.Session, step, maxRounds int, waitPerStep time.Duration) error {
	last, err := sess.PageHeight()
	if err != nil {
		return errors.NewExtraction("scroll", "failed to read page height", err)
	}

	for round := 0; round < maxRounds; round++ {
		if err := sess.ScrollBy(step); err != nil {
			return errors.NewExtraction("scroll", "scroll step failed", err)
		}
		if err := p.JitteredDelay(ctx, waitPerStep, waitPerStep/2); err != nil {
			return err
		}

		height, err := sess.PageHeight()
		if err != nil {
			return errors.NewExtraction("scroll", "failed to read page height", err)
		}
		if height != last {
			last = height
			continue
		}

		// Height converged; nudge once and re-check.
		if err := sess.ScrollBy(nudgePixels); err != nil {
			return errors.NewExtraction("scroll", "scroll nudge failed", err)
		}
		if err := p.JitteredDelay(ctx, waitPerStep, 0); err != nil {
			return err
		}
		height, err = sess.PageHeight()
		if err != nil {
			return errors.NewExtraction("scroll", "failed to read page height", err)
		}
		if height == last {
			return nil
		}
		last = height
	}
	return nil
}

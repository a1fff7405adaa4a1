package scraper

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"sjsage522/profilescout/logger"
	"sjsage522/profilescout/pkg/errors"
	"sjsage522/profilescout/services/browser"
	"sjsage522/profilescout/services/publisher"
	"sjsage522/profilescout/services/session"
)

// State names the phase the orchestrator is in. Transitions are strictly
// forward.
type State int

const (
	StateInit State = iota
	StateAuthenticating
	StateDiscovering
	StateExtracting
	StateFinalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAuthenticating:
		return "authenticating"
	case StateDiscovering:
		return "discovering"
	case StateExtracting:
		return "extracting"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Exporter persists the finalized records somewhere the operator can
// read them.
type Exporter interface {
	Export(records []ProfileRecord) error
}

// Orchestrator runs one crawl end to end: authenticate, discover,
// extract sequentially with jitter, finalize and export. Cancellation
// between profiles keeps the partial results.
type Orchestrator struct {
	sess      browser.Session
	auth      *session.Manager
	collector *Collector
	extractor *Extractor
	pacer     *Pacer
	records   *RecordCache
	pub       publisher.Publisher
	exporter  Exporter
	log       *logger.Logger

	listingURL string
	quota      int
	baseHost   string
	state      State

	// Delay between consecutive profile visits.
	VisitDelay       time.Duration
	VisitDelaySpread time.Duration
	ShowProgress     bool
}

type Deps struct {
	Session   browser.Session
	Auth      *session.Manager
	Collector *Collector
	Extractor *Extractor
	Pacer     *Pacer
	Records   *RecordCache
	Publisher publisher.Publisher
	Exporter  Exporter
}

func NewOrchestrator(deps Deps, listingURL string, quota int, baseHost string) *Orchestrator {
	return &Orchestrator{
		sess:             deps.Session,
		auth:             deps.Auth,
		collector:        deps.Collector,
		extractor:        deps.Extractor,
		pacer:            deps.Pacer,
		records:          deps.Records,
		pub:              deps.Publisher,
		exporter:         deps.Exporter,
		log:              logger.ForComponent("orchestrator"),
		listingURL:       listingURL,
		quota:            quota,
		baseHost:         baseHost,
		state:            StateInit,
		VisitDelay:       4 * time.Second,
		VisitDelaySpread: 2 * time.Second,
	}
}

// State returns the current phase.
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) transition(next State) {
	o.log.Debug().
		Str("from", o.state.String()).
		Str("to", next.String()).
		Msg("state transition")
	o.state = next
}

// Run executes the crawl. Authentication and unreachable-entry errors
// abort the run; everything downstream degrades per profile instead of
// failing.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	crawl := &CrawlSession{ID: uuid.NewString(), StartedAt: time.Now()}
	o.log.WithField("session_id", crawl.ID).Info().Msg("crawl starting")

	o.transition(StateAuthenticating)
	if o.auth != nil {
		if err := o.auth.Restore(o.sess); err != nil {
			o.log.WithError(err).Warn().Msg("cookie restore failed, continuing without saved session")
		}
		if err := o.auth.EnsureAuthenticated(ctx, o.sess); err != nil {
			return o.result(crawl), err
		}
	}

	o.transition(StateDiscovering)
	identifiers, err := o.collector.Collect(ctx, o.listingURL, o.quota)
	if err != nil {
		return o.result(crawl), err
	}
	crawl.Identifiers = identifiers
	if len(identifiers) == 0 {
		o.log.Warn().Msg("no profiles discovered, nothing to extract")
		o.transition(StateDone)
		return o.result(crawl), nil
	}

	o.transition(StateExtracting)
	o.extractAll(ctx, crawl)

	o.transition(StateFinalizing)
	crawl.Records = DropDuplicateRecords(crawl.Records)
	if o.exporter != nil && len(crawl.Records) > 0 {
		if err := o.exporter.Export(crawl.Records); err != nil {
			o.log.WithError(err).Error().Msg("export failed")
		}
	}
	if o.pub != nil {
		if err := o.pub.TrimStreams(); err != nil {
			o.log.WithError(err).Warn().Msg("stream trim failed")
		}
	}

	o.transition(StateDone)
	result := o.result(crawl)
	o.log.WithFields(logger.Fields{
		"discovered": result.Discovered,
		"succeeded":  result.Succeeded,
		"failed":     result.Failed,
		"from_cache": result.FromCache,
		"elapsed":    result.Elapsed.Round(time.Second).String(),
	}).Info().Msg("crawl finished")
	return result, nil
}

func (o *Orchestrator) result(crawl *CrawlSession) *Result {
	return &Result{
		SessionID:  crawl.ID,
		Records:    crawl.Records,
		Discovered: len(crawl.Identifiers),
		Succeeded:  crawl.Succeeded,
		Failed:     crawl.Failed,
		FromCache:  crawl.FromCache,
		Elapsed:    time.Since(crawl.StartedAt),
	}
}

// extractAll visits each discovered identifier in order, serving cache
// hits without a visit and pausing with jitter between live visits.
// Cancellation stops the loop and keeps what was already extracted.
func (o *Orchestrator) extractAll(ctx context.Context, crawl *CrawlSession) {
	var bar *progressbar.ProgressBar
	if o.ShowProgress {
		bar = progressbar.Default(int64(len(crawl.Identifiers)), "extracting")
	}

	for i, identifier := range crawl.Identifiers {
		if ctx.Err() != nil {
			o.log.Warn().Int("extracted", len(crawl.Records)).Msg("crawl cancelled, keeping partial results")
			break
		}

		rec, cached := o.records.Lookup(identifier)
		if cached {
			crawl.FromCache++
			o.log.WithField("profile", identifier).Debug().Msg("served from cache")
		} else {
			rec = o.extractor.Extract(ctx, identifier)
			o.records.Store(rec)
		}

		if rec.Failed {
			crawl.Failed++
		} else {
			crawl.Succeeded++
		}
		crawl.Records = append(crawl.Records, rec)
		o.publish(rec)
		if bar != nil {
			_ = bar.Add(1)
		}

		if !cached && i < len(crawl.Identifiers)-1 {
			if err := o.pacer.JitteredDelay(ctx, o.VisitDelay, o.VisitDelaySpread); err != nil {
				o.log.Warn().Int("extracted", len(crawl.Records)).Msg("crawl cancelled, keeping partial results")
				break
			}
		}
	}
}

func (o *Orchestrator) publish(rec ProfileRecord) {
	if o.pub == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := o.pub.Publish("profile", data); err != nil {
		o.log.WithError(errors.NewPublisher(rec.Identifier, "publish failed", err)).Warn().Msg("publish failed")
	}
}

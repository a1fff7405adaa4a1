package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/profilescout/logger"
	"sjsage522/profilescout/pkg/errors"
	"sjsage522/profilescout/services/browser"
	"sjsage522/profilescout/services/session"
)

// Collector drives the listing page until it has harvested enough
// profile links or the attempt budget runs out. Links whose card
// subtitle matches the priority predicate are ordered ahead of the rest.
type Collector struct {
	sess       browser.Session
	pacer      *Pacer
	rules      SiteRules
	prioritize func(subtitle string) bool
	prompt     session.PromptFunc
	log        *logger.Logger

	// Loop knobs, defaulted by NewCollector.
	MaxAttempts    int
	StallThreshold int
	ScrollStep     int
	ScrollRounds   int
	ScrollWait     time.Duration
	SettleDelay    time.Duration
	LoopDelay      time.Duration
	NavTimeout     time.Duration
}

// KeywordPredicate returns a priority predicate matching subtitles that
// contain any of the keywords, case-insensitively.
func KeywordPredicate(keywords []string) func(string) bool {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return func(subtitle string) bool {
		subtitle = strings.ToLower(subtitle)
		for _, k := range lowered {
			if strings.Contains(subtitle, k) {
				return true
			}
		}
		return false
	}
}

func NewCollector(sess browser.Session, pacer *Pacer, rules SiteRules, prioritize func(string) bool, prompt session.PromptFunc, navTimeout time.Duration) *Collector {
	return &Collector{
		sess:           sess,
		pacer:          pacer,
		rules:          rules,
		prioritize:     prioritize,
		prompt:         prompt,
		log:            logger.ForComponent("collector"),
		MaxAttempts:    50,
		StallThreshold: 5,
		ScrollStep:     1000,
		ScrollRounds:   15,
		ScrollWait:     800 * time.Millisecond,
		SettleDelay:    3 * time.Second,
		LoopDelay:      time.Second,
		NavTimeout:     navTimeout,
	}
}

// Collect returns up to quota canonical profile URLs discovered on the
// listing page, priority links first, each subset in discovery order.
// An empty first pass triggers one operator checkpoint and one retry.
func (c *Collector) Collect(ctx context.Context, listingURL string, quota int) ([]string, error) {
	if quota <= 0 {
		return nil, nil
	}

	if err := c.sess.Navigate(listingURL, c.NavTimeout); err != nil {
		return nil, errors.NewNavigation(listingURL, "listing page unreachable", err)
	}
	if err := c.pacer.JitteredDelay(ctx, c.SettleDelay, c.SettleDelay/3); err != nil {
		return nil, err
	}

	priority, rest, err := c.collectPass(ctx, quota)
	if err != nil {
		return nil, err
	}

	if len(priority)+len(rest) == 0 && c.prompt != nil {
		c.log.Warn().Msg("no profiles discovered, waiting for operator before one retry")
		if err := c.prompt(ctx, "No profiles found on the listing page. Adjust the page manually, then press Enter to retry."); err != nil {
			return nil, err
		}
		if priority, rest, err = c.collectPass(ctx, quota); err != nil {
			return nil, err
		}
	}

	out := append(priority, rest...)
	if len(out) > quota {
		out = out[:quota]
	}
	if len(out) < quota {
		c.log.WithError(errors.NewQuota(fmt.Sprintf("wanted %d profiles, found %d", quota, len(out)))).
			Warn().
			Msg("listing exhausted below quota")
	}
	return out, nil
}

// collectPass runs the bounded scroll-harvest-paginate loop once.
func (c *Collector) collectPass(ctx context.Context, quota int) (priority, rest []string, err error) {
	seen := make(map[string]bool)
	stalled := 0

	for attempt := 0; attempt < c.MaxAttempts && len(priority)+len(rest) < quota; attempt++ {
		if err := ctx.Err(); err != nil {
			return priority, rest, err
		}

		if err := c.pacer.ScrollUntilStable(ctx, c.sess, c.ScrollStep, c.ScrollRounds, c.ScrollWait); err != nil {
			return priority, rest, err
		}
		if clicked, _ := c.sess.ClickFirst(c.rules.ShowMore); clicked {
			c.log.Debug().Msg("clicked load-more control")
			if err := c.pacer.JitteredDelay(ctx, c.SettleDelay, 0); err != nil {
				return priority, rest, err
			}
		} else if clicked, _ := c.sess.ClickFirst(c.rules.NextPage); clicked {
			c.log.Debug().Msg("advanced to next page")
			if err := c.pacer.JitteredDelay(ctx, c.SettleDelay, c.SettleDelay/3); err != nil {
				return priority, rest, err
			}
		}

		added := 0
		for _, cand := range c.harvest() {
			canonical, ok := CanonicalProfileURL(cand.href, c.rules.BaseHost)
			if !ok || seen[canonical] {
				continue
			}
			seen[canonical] = true
			added++
			if c.prioritize != nil && c.prioritize(cand.subtitle) {
				priority = append(priority, canonical)
			} else {
				rest = append(rest, canonical)
			}
		}

		if added == 0 {
			stalled++
			if stalled >= c.StallThreshold {
				c.log.Debug().Int("attempt", attempt).Msg("no new profiles, jolting scroll position")
				_ = c.sess.ScrollTop()
				if err := c.pacer.JitteredDelay(ctx, c.SettleDelay, 0); err != nil {
					return priority, rest, err
				}
				_ = c.sess.ScrollBottom()
				if err := c.pacer.JitteredDelay(ctx, c.SettleDelay, 0); err != nil {
					return priority, rest, err
				}
				stalled = 0
			}
		} else {
			stalled = 0
			c.log.Debug().
				Int("new", added).
				Int("total", len(priority)+len(rest)).
				Msg("harvested listing batch")
		}

		if err := c.pacer.JitteredDelay(ctx, c.LoopDelay, 2*c.LoopDelay); err != nil {
			return priority, rest, err
		}
	}
	return priority, rest, nil
}

type candidate struct {
	href     string
	subtitle string
}

// harvest parses the current page and yields every plausible profile
// link, card-scoped ones first so they carry a subtitle.
func (c *Collector) harvest() []candidate {
	html, err := c.sess.HTML()
	if err != nil {
		c.log.WithError(err).Warn().Msg("failed to read listing HTML")
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		c.log.WithError(err).Warn().Msg("failed to parse listing HTML")
		return nil
	}

	var out []candidate
	for _, rule := range c.rules.Cards {
		doc.Find(rule.Container).Each(func(_ int, card *goquery.Selection) {
			href := resolveOne(card, Strategy{Selector: rule.Link, Attr: "href"})
			if href == "" || excludedPath(href, c.rules.ExcludedPaths) {
				return
			}
			subtitle := resolveOne(card, Strategy{Selector: rule.Subtitle})
			out = append(out, candidate{href: href, subtitle: subtitle})
		})
	}
	for _, s := range c.rules.Links {
		for _, href := range resolveAll(doc.Selection, s) {
			if !excludedPath(href, c.rules.ExcludedPaths) {
				out = append(out, candidate{href: href})
			}
		}
	}
	return out
}

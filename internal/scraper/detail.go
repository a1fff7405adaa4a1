package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/profilescout/logger"
	"sjsage522/profilescout/services/browser"
)

// Extractor visits one profile at a time and pulls the record fields out
// of the profile page and its experience and skills sub-pages. Extract
// never fails the run: any error degrades to sentinel fields on a
// placeholder record.
type Extractor struct {
	sess        browser.Session
	pacer       *Pacer
	rules       SiteRules
	class       *classifier
	navTimeout  time.Duration
	waitTimeout time.Duration
	homeOrg     string
	skillLimit  int
	detailLimit int
	log         *logger.Logger

	// Sub-page pacing knobs, defaulted by NewExtractor.
	SettleDelay  time.Duration
	ScrollStep   int
	ScrollRounds int
	ScrollWait   time.Duration

	// EntryLimit caps parsed experience entries. Zero means unlimited.
	EntryLimit int
}

func NewExtractor(sess browser.Session, pacer *Pacer, rules SiteRules, navTimeout, waitTimeout time.Duration, homeOrg string, skillLimit, detailLimit int) *Extractor {
	return &Extractor{
		sess:        sess,
		pacer:       pacer,
		rules:       rules,
		class:       newClassifier(rules),
		navTimeout:  navTimeout,
		waitTimeout: waitTimeout,
		homeOrg:     homeOrg,
		skillLimit:  skillLimit,
		detailLimit: detailLimit,
		log:         logger.ForComponent("extractor"),

		SettleDelay:  1500 * time.Millisecond,
		ScrollStep:   800,
		ScrollRounds: 8,
		ScrollWait:   600 * time.Millisecond,
	}
}

// Extract builds the record for one canonical profile URL. The returned
// record always carries the identifier, with Failed set when even the
// profile page could not be read.
func (e *Extractor) Extract(ctx context.Context, identifier string) (rec ProfileRecord) {
	rec = NewProfileRecord(identifier)
	log := logger.ForProfile(identifier)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msg("extraction panicked")
			rec.Failed = true
		}
		e.class.deriveRecord(&rec, e.homeOrg, e.detailLimit)
		if skills := e.class.filterSkills(rec.rawSkills, []string{rec.Name, rec.Title}, e.skillLimit); len(skills) > 0 {
			rec.Skills = strings.Join(skills, " | ")
		}
		rec.Finalize()
	}()

	if err := e.sess.Navigate(identifier, e.navTimeout); err != nil {
		log.WithError(err).Warn().Msg("profile page unreachable")
		rec.Failed = true
		return rec
	}
	if err := e.sess.WaitVisible(e.rules.ReadyMarker, e.waitTimeout); err != nil {
		log.Debug().Msg("ready marker never appeared, parsing anyway")
	}
	_ = e.sess.ScrollBottom()
	_ = e.pacer.JitteredDelay(ctx, e.SettleDelay, e.SettleDelay/3)

	if doc := e.document(identifier); doc != nil {
		rec.Name = ResolveText(doc.Selection, e.rules.Name).Value
		rec.Title = ResolveText(doc.Selection, e.rules.Title).Value
		rec.Location = ResolveText(doc.Selection, e.rules.Location).Value
		rec.Education = ResolveText(doc.Selection, e.rules.Education).Value
	}

	rec.Experiences = e.extractExperience(ctx, identifier)
	rec.rawSkills = e.extractSkills(ctx, identifier)
	return rec
}

// extractExperience loads the experience sub-page and parses every
// position. Grouped markup, where one company block nests several roles,
// yields one entry per nested role sharing the outer company name.
func (e *Extractor) extractExperience(ctx context.Context, identifier string) []ExperienceEntry {
	doc := e.subPage(ctx, identifier, e.rules.ExperienceSuffix)
	if doc == nil {
		return nil
	}

	// Lazy lists re-render items on scroll, so the same position can
	// appear more than once in the final markup.
	var entries []ExperienceEntry
	seen := make(map[string]bool)
	add := func(entry ExperienceEntry) {
		if e.EntryLimit > 0 && len(entries) >= e.EntryLimit {
			return
		}
		key := entry.Company + "\x00" + entry.Title + "\x00" + entry.Duration
		if seen[key] {
			return
		}
		seen[key] = true
		entries = append(entries, entry)
	}
	doc.Find(e.rules.ExpItem).Each(func(_ int, item *goquery.Selection) {
		// Nested group members are handled through their outer item.
		if item.ParentsFiltered(e.rules.ExpGroup).Length() > 0 {
			return
		}
		group := item.Find(e.rules.ExpGroup)
		if group.Length() > 0 {
			company := ResolveText(item, e.rules.ExpTitle).OrEmpty()
			group.Find(e.rules.ExpItem).Each(func(_ int, sub *goquery.Selection) {
				if entry, ok := e.parseEntry(sub, company); ok {
					add(entry)
				}
			})
			if group.Find(e.rules.ExpItem).Length() > 0 {
				return
			}
		}
		if entry, ok := e.parseEntry(item, ""); ok {
			add(entry)
		}
	})
	return entries
}

// parseEntry reads one position item. company overrides the item's own
// company line when the item sits inside a grouped block.
func (e *Extractor) parseEntry(item *goquery.Selection, company string) (ExperienceEntry, bool) {
	title := ResolveText(item, e.rules.ExpTitle).OrEmpty()
	if title == "" {
		return ExperienceEntry{}, false
	}

	duration := ResolveText(item, e.rules.ExpDuration).OrEmpty()
	meta := resolveAll(item, Strategy{Selector: e.rules.ExpMeta})

	var employment string
	for _, line := range meta {
		if employment == "" {
			employment = e.class.employmentType(line)
		}
		if company == "" && line != title && (duration == "" || !strings.Contains(line, duration)) {
			// First meta line is the "Company · Full-time" row. A line
			// that is only the employment token carries no company.
			candidate := strings.TrimSpace(strings.SplitN(line, "·", 2)[0])
			if e.class.employmentType(candidate) != candidate {
				company = candidate
			}
		}
	}
	if company == title {
		company = ""
	}

	return ExperienceEntry{
		Company:        company,
		Title:          title,
		Duration:       duration,
		EmploymentType: employment,
	}, true
}

func (e *Extractor) extractSkills(ctx context.Context, identifier string) []string {
	doc := e.subPage(ctx, identifier, e.rules.SkillsSuffix)
	if doc == nil {
		return nil
	}
	return ResolveList(doc.Selection, e.rules.SkillItems, 0)
}

// subPage navigates to a profile sub-page, scrolls it out, and returns
// the parsed document, or nil when anything along the way fails.
func (e *Extractor) subPage(ctx context.Context, identifier, suffix string) *goquery.Document {
	url := identifier + suffix
	if err := e.sess.Navigate(url, e.navTimeout); err != nil {
		e.log.WithField("url", url).WithError(err).Debug().Msg("sub-page unreachable")
		return nil
	}
	if err := e.pacer.ScrollUntilStable(ctx, e.sess, e.ScrollStep, e.ScrollRounds, e.ScrollWait); err != nil {
		e.log.WithField("url", url).WithError(err).Debug().Msg("sub-page scroll aborted")
	}
	return e.document(url)
}

func (e *Extractor) document(url string) *goquery.Document {
	html, err := e.sess.HTML()
	if err != nil {
		e.log.WithField("url", url).WithError(err).Warn().Msg("failed to read page HTML")
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.log.WithField("url", url).WithError(err).Warn().Msg("failed to parse page HTML")
		return nil
	}
	return doc
}

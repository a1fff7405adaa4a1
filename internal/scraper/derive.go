package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearsRe   = regexp.MustCompile(`(?i)(\d+)\s*yrs?`)
	monthsRe  = regexp.MustCompile(`(?i)(\d+)\s*mos?`)
	numericRe = regexp.MustCompile(`^\d+$`)
)

// classifier applies a site's text-classification patterns to extracted
// fragments: current-role detection, employment types, institution names
// and skill noise.
type classifier struct {
	ongoing     *regexp.Regexp
	employment  *regexp.Regexp
	institution *regexp.Regexp
	allow       map[string]bool
	noise       []string
}

func newClassifier(rules SiteRules) *classifier {
	allow := make(map[string]bool, len(rules.SkillAllowList))
	for _, token := range rules.SkillAllowList {
		allow[strings.ToLower(token)] = true
	}
	return &classifier{
		ongoing:     regexp.MustCompile(rules.OngoingPattern),
		employment:  regexp.MustCompile(rules.EmploymentTypes),
		institution: regexp.MustCompile(rules.InstitutionPattern),
		allow:       allow,
		noise:       rules.SkillNoise,
	}
}

// currentEntry picks the entry whose duration marks an ongoing role, or
// falls back to the first entry.
func (c *classifier) currentEntry(entries []ExperienceEntry) (ExperienceEntry, bool) {
	if len(entries) == 0 {
		return ExperienceEntry{}, false
	}
	for _, e := range entries {
		if c.ongoing.MatchString(e.Duration) {
			return e, true
		}
	}
	return entries[0], true
}

// employmentType returns the first recognized employment token in the
// text, or "".
func (c *classifier) employmentType(text string) string {
	return c.employment.FindString(text)
}

// splitInstitution pulls an institution name embedded in a title. It
// returns the cleaned title and the institution, which is empty when the
// title holds none.
func (c *classifier) splitInstitution(title string) (string, string) {
	inst := c.institution.FindString(title)
	if inst == "" {
		return title, ""
	}
	cleaned := strings.Replace(title, inst, "", 1)
	cleaned = strings.ReplaceAll(cleaned, "|", " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.Trim(cleaned, " -,@")
	return cleaned, strings.TrimSpace(inst)
}

// totalDuration sums the year and month figures across all entries and
// renders them as "X yrs Y mos", omitting zero components. An empty
// result means no entry carried a parseable duration.
func totalDuration(entries []ExperienceEntry) string {
	var years, months int
	for _, e := range entries {
		if m := yearsRe.FindStringSubmatch(e.Duration); m != nil {
			n, _ := strconv.Atoi(m[1])
			years += n
		}
		if m := monthsRe.FindStringSubmatch(e.Duration); m != nil {
			n, _ := strconv.Atoi(m[1])
			months += n
		}
	}
	years += months / 12
	months %= 12

	switch {
	case years > 0 && months > 0:
		return fmt.Sprintf("%d yrs %d mos", years, months)
	case years > 0:
		return fmt.Sprintf("%d yrs", years)
	case months > 0:
		return fmt.Sprintf("%d mos", months)
	default:
		return ""
	}
}

// filterSkills removes noise tokens from a raw skill list: numeric-only
// strings, endorsement and assessment chatter, values that duplicate the
// excluded names, and short ambiguous tokens not on the allow-list.
// Order is preserved and the result is capped at max (0 means no cap).
func (c *classifier) filterSkills(raw []string, excluded []string, max int) []string {
	var out []string
	seen := make(map[string]bool, len(raw))
	for _, skill := range raw {
		skill = strings.TrimSpace(skill)
		lower := strings.ToLower(skill)
		if skill == "" || numericRe.MatchString(skill) {
			continue
		}
		if c.noisy(lower) || seen[lower] {
			continue
		}
		if matchesAny(skill, excluded) {
			continue
		}
		if len(skill) <= 3 && !c.allow[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, skill)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

func (c *classifier) noisy(lower string) bool {
	for _, n := range c.noise {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func matchesAny(value string, excluded []string) bool {
	for _, e := range excluded {
		if e != "" && e != NotFound && strings.EqualFold(value, e) {
			return true
		}
	}
	return false
}

// deriveRecord fills the record's derived fields from its parsed
// experience entries: the current company and title, the aggregate
// duration, the joined detail string, and the institution fallback for
// education. homeOrg, when non-empty, names the employer whose presence
// in the current role should be made explicit in the title.
func (c *classifier) deriveRecord(rec *ProfileRecord, homeOrg string, detailLimit int) {
	current, ok := c.currentEntry(rec.Experiences)
	if ok && (rec.Title == NotFound || rec.Title == "") {
		rec.Title = current.Title
	}
	if rec.Title != NotFound && rec.Title != "" {
		if title, inst := c.splitInstitution(rec.Title); inst != "" {
			rec.Title = title
			if rec.Education == NotFound || rec.Education == "" {
				rec.Education = inst
			}
		}
		if ok && homeOrg != "" && containsFold(current.Company, homeOrg) && !containsFold(rec.Title, "at "+homeOrg) {
			rec.Title += " at " + capitalize(homeOrg)
		}
	}

	if total := totalDuration(rec.Experiences); total != "" {
		rec.TotalExperience = total
	}

	details := make([]string, 0, len(rec.Experiences))
	for i, e := range rec.Experiences {
		if detailLimit > 0 && i >= detailLimit {
			break
		}
		parts := []string{e.Company, e.Title, e.Duration}
		if e.EmploymentType != "" {
			parts = append(parts, e.EmploymentType)
		}
		details = append(details, strings.Join(parts, " | "))
	}
	if len(details) > 0 {
		rec.ExperienceDetails = strings.Join(details, " || ")
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

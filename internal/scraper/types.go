package scraper

import "time"

// NotFound is the sentinel value carried by fields whose selector chain
// never matched. It is coerced to the empty string when a record is
// finalized for output.
const NotFound = "N/A"

// Field is the result of resolving a selector chain: the extracted text
// plus whether any strategy actually matched.
type Field struct {
	Value string
	Found bool
}

// OrEmpty returns the resolved text, or "" when nothing matched.
func (f Field) OrEmpty() string {
	if f.Found {
		return f.Value
	}
	return ""
}

// ExperienceEntry is one position parsed from a profile's experience page.
type ExperienceEntry struct {
	Company        string `json:"company"`
	Title          string `json:"title"`
	Duration       string `json:"duration"`
	EmploymentType string `json:"employment_type,omitempty"`
}

// ProfileRecord is the extracted output for one profile. String fields
// hold the NotFound sentinel until Finalize coerces them for output.
type ProfileRecord struct {
	Identifier        string            `json:"url"`
	Name              string            `json:"name"`
	Title             string            `json:"title"`
	Location          string            `json:"location"`
	Education         string            `json:"education"`
	TotalExperience   string            `json:"total_experience,omitempty"`
	ExperienceDetails string            `json:"experience_details,omitempty"`
	Skills            string            `json:"skills,omitempty"`
	Experiences       []ExperienceEntry `json:"experiences,omitempty"`
	Failed            bool              `json:"failed,omitempty"`

	// rawSkills carries the unfiltered skill texts from extraction to
	// derivation; it never leaves the package.
	rawSkills []string
}

// NewProfileRecord returns a record whose extractable fields start at the
// sentinel, so a failed visit still yields a complete placeholder row.
func NewProfileRecord(identifier string) ProfileRecord {
	return ProfileRecord{
		Identifier: identifier,
		Name:       NotFound,
		Title:      NotFound,
		Location:   NotFound,
		Education:  NotFound,
	}
}

// Finalize coerces sentinel values to empty strings. Safe to call more
// than once.
func (r *ProfileRecord) Finalize() {
	for _, p := range []*string{&r.Name, &r.Title, &r.Location, &r.Education, &r.TotalExperience, &r.ExperienceDetails, &r.Skills} {
		if *p == NotFound {
			*p = ""
		}
	}
}

// Row returns the CSV column values in export order.
func (r *ProfileRecord) Row() []string {
	return []string{r.Name, r.Title, r.Location, r.Education, r.Identifier, r.TotalExperience, r.ExperienceDetails, r.Skills}
}

// RowHeader is the CSV header matching Row.
var RowHeader = []string{"Name", "Title", "Location", "Education", "Profile URL", "Total Experience", "Experience Details", "Skills"}

// CrawlSession holds the state of one crawl invocation: the discovered
// identifiers, the accumulated records and the run counters. It is
// created when a run starts, threaded through every phase, and handed to
// the exporter at the end. Nothing about it survives the process.
type CrawlSession struct {
	ID          string
	StartedAt   time.Time
	Identifiers []string
	Records     []ProfileRecord
	Succeeded   int
	Failed      int
	FromCache   int
}

// Result summarizes one orchestrated crawl run.
type Result struct {
	SessionID  string
	Records    []ProfileRecord
	Discovered int
	Succeeded  int
	Failed     int
	FromCache  int
	Elapsed    time.Duration
}

package scraper

// Strategy is one attempt in a fallback chain: a CSS selector plus an
// optional attribute to read instead of the element text.
type Strategy struct {
	Selector string
	Attr     string
}

// CardRule harvests profile links from a listing card container, keeping
// the visible subtitle so the priority predicate can classify the link.
type CardRule struct {
	Container string
	Link      string
	Subtitle  string
}

// SiteRules is the declarative selector table for one target site. All
// extraction code walks these chains instead of hard-coding selectors.
type SiteRules struct {
	BaseHost string

	// Listing page
	Cards         []CardRule
	Links         []Strategy
	ShowMore      []string
	NextPage      []string
	ExcludedPaths []string

	// Profile page
	ReadyMarker string
	Name        []Strategy
	Title       []Strategy
	Location    []Strategy
	Education   []Strategy

	// Experience sub-page
	ExperienceSuffix string
	ExpItem          string
	ExpGroup         string
	ExpTitle         []Strategy
	ExpDuration      []Strategy
	ExpMeta          string

	// Skills sub-page
	SkillsSuffix string
	SkillItems   []Strategy

	// Classification patterns
	OngoingPattern     string
	EmploymentTypes    string
	InstitutionPattern string
	SkillAllowList     []string
	SkillNoise         []string
}

// LinkedInRules returns the selector table for linkedin.com people pages
// and profiles. Chains are ordered from the most specific current markup
// down to older or logged-out variants.
func LinkedInRules() SiteRules {
	return SiteRules{
		BaseHost: "www.linkedin.com",

		Cards: []CardRule{
			{
				Container: "li.org-people-profile-card__profile-card-spacing",
				Link:      "a[href*='/in/']",
				Subtitle:  "div.artdeco-entity-lockup__subtitle",
			},
			{
				Container: "div.org-people-profile-card",
				Link:      "a[href*='/in/']",
				Subtitle:  "div.artdeco-entity-lockup__subtitle",
			},
			{
				Container: "li.reusable-search__result-container",
				Link:      "a.app-aware-link[href*='/in/']",
				Subtitle:  "div.entity-result__primary-subtitle",
			},
		},
		Links: []Strategy{
			{Selector: "a.app-aware-link[href*='/in/']", Attr: "href"},
			{Selector: "a[href*='/in/']", Attr: "href"},
		},
		ShowMore: []string{
			"button.scaffold-finite-scroll__load-button",
			"button[aria-label*='more results']",
			"button.artdeco-button--secondary span.artdeco-button__text",
		},
		NextPage: []string{
			"button[aria-label='Next']",
			"button.artdeco-pagination__button--next",
			"li.artdeco-pagination__indicator--number.active + li button",
		},
		ExcludedPaths: []string{"/miniProfile/", "/overlay/", "/company/", "/school/"},

		ReadyMarker: "main.scaffold-layout__main",
		Name: []Strategy{
			{Selector: "h1.text-heading-xlarge"},
			{Selector: "div.ph5 h1"},
			{Selector: "h1"},
		},
		Title: []Strategy{
			{Selector: "div.text-body-medium.break-words"},
			{Selector: "div.ph5 div.text-body-medium"},
		},
		Location: []Strategy{
			{Selector: "span.text-body-small.inline.t-black--light.break-words"},
			{Selector: "div.ph5 span.text-body-small"},
		},
		Education: []Strategy{
			{Selector: "section[data-section='educationsDetails'] span[aria-hidden='true']"},
			{Selector: "div[data-view-name='profile-card'] a[href*='school'] span[aria-hidden='true']"},
			{Selector: "ul.pv-text-details__right-panel li:last-child span"},
		},

		ExperienceSuffix: "details/experience/",
		ExpItem:          "li.pvs-list__paged-list-item",
		ExpGroup:         "div.pvs-entity__sub-components",
		ExpTitle: []Strategy{
			{Selector: "div.display-flex.flex-column.full-width span[aria-hidden='true']"},
			{Selector: "span.mr1.t-bold span[aria-hidden='true']"},
			{Selector: "div.t-bold span[aria-hidden='true']"},
		},
		ExpDuration: []Strategy{
			{Selector: "span.t-14.t-normal.t-black--light span[aria-hidden='true']"},
			{Selector: "span.pvs-entity__caption-wrapper"},
		},
		ExpMeta: "span.t-14.t-normal span[aria-hidden='true']",

		SkillsSuffix: "details/skills/",
		SkillItems: []Strategy{
			{Selector: "div[data-view-name='profile-component-entity'] div.t-bold span[aria-hidden='true']"},
			{Selector: "li.pvs-list__paged-list-item span.t-bold span[aria-hidden='true']"},
			{Selector: "li.pvs-list__paged-list-item span[aria-hidden='true']"},
		},

		OngoingPattern:     `(?i)\bpresent\b`,
		EmploymentTypes:    `(?i)\b(full[- ]time|part[- ]time|contract|internship|freelance|self[- ]employed|temporary)\b`,
		InstitutionPattern: `\b([A-Z][\w&.]*\s+)*(University|Institute|College|School|Academy)(\s+of\s+[A-Z][\w&.]*)?\b`,
		SkillAllowList: []string{
			"go", "c", "c++", "c#", "js", "ts", "sql", "aws", "gcp", "k8s",
			"api", "css", "php", "git", "jvm", "ml", "ai", "qa", "ci",
		},
		SkillNoise: []string{
			"endorsement", "connection", "assessment", "passed", "·",
		},
	}
}

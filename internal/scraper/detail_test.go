package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileURL = "https://www.linkedin.com/in/jane-doe/"

func testExtractor(sess *fakeSession) *Extractor {
	e := NewExtractor(sess, NewPacer(), LinkedInRules(), time.Second, time.Second, "gameskraft", 10, 5)
	e.SettleDelay = time.Millisecond
	e.ScrollRounds = 2
	e.ScrollWait = time.Millisecond
	return e
}

func profilePage() string {
	return `<main class="scaffold-layout__main">
		<h1 class="text-heading-xlarge">Jane Doe</h1>
		<div class="text-body-medium break-words">Senior Engineer</div>
		<span class="text-body-small inline t-black--light break-words">Bengaluru, India</span>
		<section data-section="educationsDetails"><span aria-hidden="true">National Institute of Design</span></section>
	</main>`
}

func experienceItem(title, meta, duration string) string {
	return `<li class="pvs-list__paged-list-item">
		<div class="t-bold"><span aria-hidden="true">` + title + `</span></div>
		<span class="t-14 t-normal"><span aria-hidden="true">` + meta + `</span></span>
		<span class="t-14 t-normal t-black--light"><span aria-hidden="true">` + duration + `</span></span>
	</li>`
}

func skillItem(name string) string {
	return `<li class="pvs-list__paged-list-item"><span class="t-bold"><span aria-hidden="true">` + name + `</span></span></li>`
}

func TestExtract(t *testing.T) {
	sess := newFakeSession()
	sess.pages[profileURL] = profilePage()
	sess.pages[profileURL+"details/experience/"] = `<ul>` +
		experienceItem("Senior Engineer", "Gameskraft · Full-time", "Jan 2023 - Present · 1 yr 8 mos") +
		experienceItem("Engineer", "Acme Corp · Full-time", "Jul 2022 - Dec 2022 · 6 mos") +
		`</ul>`
	sess.pages[profileURL+"details/skills/"] = `<ul>` +
		skillItem("Golang") + skillItem("Redis") + skillItem("14 endorsements") +
		`</ul>`

	e := testExtractor(sess)
	rec := e.Extract(context.Background(), profileURL)

	assert.False(t, rec.Failed)
	assert.Equal(t, profileURL, rec.Identifier)
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "Senior Engineer at Gameskraft", rec.Title)
	assert.Equal(t, "Bengaluru, India", rec.Location)
	assert.Equal(t, "National Institute of Design", rec.Education)

	require.Len(t, rec.Experiences, 2)
	assert.Equal(t, "Gameskraft", rec.Experiences[0].Company)
	assert.Equal(t, "Full-time", rec.Experiences[0].EmploymentType)
	assert.Equal(t, "2 yrs 2 mos", rec.TotalExperience)
	assert.Contains(t, rec.ExperienceDetails, "Gameskraft | Senior Engineer")
	assert.Contains(t, rec.ExperienceDetails, " || Acme Corp | Engineer")
	assert.Equal(t, "Golang | Redis", rec.Skills)
}

func TestExtractGroupedExperience(t *testing.T) {
	sess := newFakeSession()
	sess.pages[profileURL] = profilePage()
	sess.pages[profileURL+"details/experience/"] = `<ul>
		<li class="pvs-list__paged-list-item">
			<div class="t-bold"><span aria-hidden="true">Acme Corp</span></div>
			<div class="pvs-entity__sub-components"><ul>` +
		experienceItem("Senior Engineer", "Full-time", "2023 - Present · 1 yr") +
		experienceItem("Engineer", "Full-time", "2021 - 2023 · 2 yrs") +
		`</ul></div>
		</li>
	</ul>`

	e := testExtractor(sess)
	rec := e.Extract(context.Background(), profileURL)

	// One entry per nested role, all sharing the outer company
	require.Len(t, rec.Experiences, 2)
	assert.Equal(t, "Acme Corp", rec.Experiences[0].Company)
	assert.Equal(t, "Senior Engineer", rec.Experiences[0].Title)
	assert.Equal(t, "Acme Corp", rec.Experiences[1].Company)
	assert.Equal(t, "Engineer", rec.Experiences[1].Title)
	assert.Equal(t, "3 yrs", rec.TotalExperience)
}

func TestExtractUnreachableProfile(t *testing.T) {
	sess := newFakeSession()
	sess.navErr[profileURL] = &mockError{message: "timeout"}

	e := testExtractor(sess)
	rec := e.Extract(context.Background(), profileURL)

	// Placeholder keeps the identifier with everything else blanked
	assert.True(t, rec.Failed)
	assert.Equal(t, profileURL, rec.Identifier)
	assert.Equal(t, "", rec.Name)
	assert.Equal(t, "", rec.Title)
	assert.Equal(t, "", rec.Education)
	assert.Empty(t, rec.Experiences)
}

func TestExtractMissingSubPages(t *testing.T) {
	sess := newFakeSession()
	sess.pages[profileURL] = profilePage()
	sess.navErr[profileURL+"details/experience/"] = &mockError{message: "blocked"}
	sess.navErr[profileURL+"details/skills/"] = &mockError{message: "blocked"}

	e := testExtractor(sess)
	rec := e.Extract(context.Background(), profileURL)

	// Profile fields survive, sub-page fields degrade to empty
	assert.False(t, rec.Failed)
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Empty(t, rec.Experiences)
	assert.Equal(t, "", rec.TotalExperience)
	assert.Equal(t, "", rec.Skills)
}

func TestExtractRerenderedExperienceDeduplicated(t *testing.T) {
	sess := newFakeSession()
	sess.pages[profileURL] = profilePage()
	// A lazy list re-rendered the same position twice
	sess.pages[profileURL+"details/experience/"] = `<ul>` +
		experienceItem("Engineer", "Acme Corp · Full-time", "2022 - Present · 2 yrs") +
		experienceItem("Engineer", "Acme Corp · Full-time", "2022 - Present · 2 yrs") +
		`</ul>`

	e := testExtractor(sess)
	rec := e.Extract(context.Background(), profileURL)

	// The duplicate collapses and the total covers the true span once
	require.Len(t, rec.Experiences, 1)
	assert.Equal(t, "Acme Corp", rec.Experiences[0].Company)
	assert.Equal(t, "2 yrs", rec.TotalExperience)
}

func TestExtractExperienceEntryLimit(t *testing.T) {
	sess := newFakeSession()
	sess.pages[profileURL] = profilePage()
	sess.pages[profileURL+"details/experience/"] = `<ul>` +
		experienceItem("Engineer", "Acme Corp · Full-time", "2022 - Present · 2 yrs") +
		experienceItem("Intern", "Initech · Internship", "2021 - 2022 · 1 yr") +
		`</ul>`

	e := testExtractor(sess)
	e.EntryLimit = 1
	rec := e.Extract(context.Background(), profileURL)

	require.Len(t, rec.Experiences, 1)
	assert.Equal(t, "Engineer", rec.Experiences[0].Title)
}

func TestExtractEmploymentOnlyMetaLine(t *testing.T) {
	sess := newFakeSession()
	sess.pages[profileURL] = profilePage()
	// Flat items sometimes carry only the employment token, no company
	sess.pages[profileURL+"details/experience/"] = `<ul>` +
		experienceItem("Consultant", "Freelance", "2020 - 2022 · 2 yrs") +
		`</ul>`

	e := testExtractor(sess)
	rec := e.Extract(context.Background(), profileURL)

	require.Len(t, rec.Experiences, 1)
	assert.Equal(t, "", rec.Experiences[0].Company)
	assert.Equal(t, "Consultant", rec.Experiences[0].Title)
	assert.Equal(t, "Freelance", rec.Experiences[0].EmploymentType)
}

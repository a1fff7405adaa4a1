package scraper

import (
	"net/url"
	"strings"

	"sjsage522/profilescout/helpers"
)

// CanonicalProfileURL reduces a raw href to the canonical absolute form
// "https://<host>/in/<handle>/". Tracking parameters, fragments and
// sub-page suffixes are dropped. The second return is false when the
// href is not a profile link at all. The function is idempotent.
func CanonicalProfileURL(raw, baseHost string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !u.IsAbs() {
		u = (&url.URL{Scheme: "https", Host: baseHost}).ResolveReference(u)
	}

	handle, err := helpers.UsernameFromProfileURL(u.Path)
	if err != nil {
		return "", false
	}
	return "https://" + baseHost + "/in/" + handle + "/", true
}

// Finalize canonicalizes raw identifiers, drops duplicates keeping the
// first occurrence, and caps the result at quota.
func Finalize(raw []string, baseHost string, quota int) []string {
	if quota <= 0 {
		return nil
	}
	out := make([]string, 0, quota)
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		canonical, ok := CanonicalProfileURL(r, baseHost)
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
		if len(out) >= quota {
			break
		}
	}
	return out
}

// DropDuplicateRecords removes records sharing an identifier, keeping the
// first occurrence of each.
func DropDuplicateRecords(records []ProfileRecord) []ProfileRecord {
	out := make([]ProfileRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.Identifier] {
			continue
		}
		seen[rec.Identifier] = true
		out = append(out, rec)
	}
	return out
}

// excludedPath reports whether the href contains any fragment from the
// listing's exclusion list.
func excludedPath(href string, excluded []string) bool {
	for _, frag := range excluded {
		if strings.Contains(href, frag) {
			return true
		}
	}
	return false
}

// Package nsfw flags adult-content keywords in free text and in structured
// file listings. The keyword pattern is compiled once per list; keywords only
// match when flanked by non-word boundaries, so a keyword embedded inside a
// larger alphanumeric token does not trigger.
package nsfw

import (
	"regexp"
	"strings"
)

// DefaultKeywords is the built-in keyword list. Deployments normally override
// it from configuration.
var DefaultKeywords = []string{
	"adult", "hardcore", "hentai", "nsfw", "onlyfans", "porn",
	"pornhub", "xhamster", "xnxx", "xvideos", "xxx", "18+",
}

// Item is a listing entry exposing a display name.
type Item struct {
	Name string
}

// Content is a nested file entry of a listing.
type Content struct {
	Filename string
}

// Listing is the structured input accepted by MatchListing. The three fields
// correspond to the three entry shapes seen in torrent metadata: plain name
// strings, name-bearing records, and a nested contents collection.
type Listing struct {
	Names    []string
	Items    []Item
	Contents []Content
}

// Matcher tests strings against a compiled keyword pattern.
type Matcher struct {
	re *regexp.Regexp
}

// New compiles a Matcher for the given keywords. An empty list yields a
// matcher that never matches.
func New(keywords []string) *Matcher {
	if len(keywords) == 0 {
		return &Matcher{}
	}

	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		quoted = append(quoted, regexp.QuoteMeta(kw))
	}

	pattern := `(?i)(?:^|[\W_])(?:` + strings.Join(quoted, "|") + `)(?:$|[\W_])`
	return &Matcher{re: regexp.MustCompile(pattern)}
}

// Match reports whether text contains any keyword on a word boundary.
func (m *Matcher) Match(text string) bool {
	if m.re == nil || text == "" {
		return false
	}
	return m.re.MatchString(text)
}

// MatchListing reports whether any entry of the listing matches.
func (m *Matcher) MatchListing(l Listing) bool {
	for _, name := range l.Names {
		if m.Match(name) {
			return true
		}
	}
	for _, item := range l.Items {
		if m.Match(item.Name) {
			return true
		}
	}
	for _, c := range l.Contents {
		if m.Match(c.Filename) {
			return true
		}
	}
	return false
}

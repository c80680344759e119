package nsfw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	m := New(DefaultKeywords)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "keyword between words", text: "download nsfw video", want: true},
		{name: "keyword uppercase", text: "DOWNLOAD NSFW VIDEO", want: true},
		{name: "keyword at start", text: "nsfw clip", want: true},
		{name: "keyword at end", text: "clip nsfw", want: true},
		{name: "keyword alone", text: "nsfw", want: true},
		{name: "underscore boundary", text: "my_nsfw_clip", want: true},
		{name: "suffix inside token", text: "nsfwly", want: false},
		{name: "prefix inside token", text: "thensfw", want: false},
		{name: "embedded in token", text: "thensfwly", want: false},
		{name: "clean text", text: "holiday pictures", want: false},
		{name: "empty text", text: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.text))
		})
	}
}

func TestMatchEscapesKeywords(t *testing.T) {
	m := New([]string{"18+"})
	assert.True(t, m.Match("strictly 18+ content"))
	assert.False(t, m.Match("use port 1880"))
}

func TestMatchEmptyKeywordList(t *testing.T) {
	m := New(nil)
	assert.False(t, m.Match("anything at all"))
	assert.False(t, m.MatchListing(Listing{Names: []string{"nsfw"}}))
}

func TestMatchListing(t *testing.T) {
	m := New(DefaultKeywords)

	tests := []struct {
		name    string
		listing Listing
		want    bool
	}{
		{
			name:    "item name matches",
			listing: Listing{Items: []Item{{Name: "clean.mp4"}, {Name: "nsfw_clip.mp4"}}},
			want:    true,
		},
		{
			name:    "plain names match",
			listing: Listing{Names: []string{"vacation.avi", "xxx.rip.mkv"}},
			want:    true,
		},
		{
			name:    "clean contents",
			listing: Listing{Contents: []Content{{Filename: "ok.txt"}}},
			want:    false,
		},
		{
			name:    "matching contents",
			listing: Listing{Contents: []Content{{Filename: "ok.txt"}, {Filename: "porn.mkv"}}},
			want:    true,
		},
		{
			name:    "empty listing",
			listing: Listing{},
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MatchListing(tt.listing))
		})
	}
}

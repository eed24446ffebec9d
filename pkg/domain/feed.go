package domain

import "time"

// ParsedFeed represents a fetched and parsed syndication feed
type ParsedFeed struct {
	Title   string
	Link    string
	Entries []Entry
	// Malformed is set when the feed parsed but with structural problems
	// (missing channel title, entries without title or link); entries are
	// still processed. Unparseable feeds fail outright instead.
	Malformed bool
}

// Entry represents a single raw feed entry before filtering
type Entry struct {
	Title           string
	Link            string
	Summary         string
	Content         string
	Published       time.Time
	MediaContent    []MediaImage
	MediaThumbnails []string
}

// MediaImage is an image declared in a media:content element
type MediaImage struct {
	URL   string
	Width int
}

package models

import (
	"math"
	"time"
)

// MediaType is the kind of visual media a record describes
type MediaType string

const (
	ImageMedia MediaType = "image"
	GIFMedia   MediaType = "gif"
	VideoMedia MediaType = "video"
)

// MediaTypes lists every media type in display order
var MediaTypes = []MediaType{ImageMedia, VideoMedia, GIFMedia}

// Format is the aspect-ratio bucket of a media item
type Format string

const (
	LandscapeFormat Format = "landscape"
	VerticalFormat  Format = "vertical"
	SquareFormat    Format = "square"
	UnknownFormat   Format = "unknown"
)

// Metadata holds the textual context extracted next to a media item
type Metadata struct {
	Keywords []string `json:"keywords"`
	Topics   []string `json:"topics"`
}

// ContentRecord represents one classified media item observed on a page
type ContentRecord struct {
	ID              string    `json:"id"`
	URL             string    `json:"url"`
	Type            MediaType `json:"type"`
	Format          Format    `json:"format"`
	Characteristics []string  `json:"characteristics"`
	Engagement      int64     `json:"engagement"`
	Metadata        Metadata  `json:"metadata"`
	Timestamp       int64     `json:"timestamp"`
	PageURL         string    `json:"page_url"`
}

// ObservedAt returns the record timestamp as a time.Time
func (r *ContentRecord) ObservedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// HasCharacteristic reports whether the record carries the given tag
func (r *ContentRecord) HasCharacteristic(tag string) bool {
	for _, c := range r.Characteristics {
		if c == tag {
			return true
		}
	}
	return false
}

// AddEngagement sums two engagement values, saturating at math.MaxInt64.
// Negative operands count as zero.
func AddEngagement(a, b int64) int64 {
	a, b = max(a, 0), max(b, 0)
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

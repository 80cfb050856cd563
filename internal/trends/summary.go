package trends

import "github.com/xaenox/trendlens/internal/models"

// IconUsage splits icons into social buttons and everything else
type IconUsage struct {
	Social int `json:"social"`
	Other  int `json:"other"`
}

// PersonalContentTypes breaks personal content down by kind
type PersonalContentTypes struct {
	Images int `json:"images"`
	Videos int `json:"videos"`
	Memes  int `json:"memes"`
}

// Summary holds the headline numbers of the dashboard
type Summary struct {
	Total                int                      `json:"total"`
	PersonalContent      int                      `json:"personal_content"`
	Icons                int                      `json:"icons"`
	Media                map[models.MediaType]int `json:"media"`
	VideoFormats         map[models.Format]int    `json:"video_formats"`
	IconUsage            IconUsage                `json:"icon_usage"`
	PersonalContentTypes PersonalContentTypes     `json:"personal_content_types"`
}

// Summarize counts the snapshot for the dashboard headline and charts
func Summarize(records []models.ContentRecord) *Summary {
	s := &Summary{
		Total: len(records),
		Media: map[models.MediaType]int{
			models.ImageMedia: 0,
			models.VideoMedia: 0,
			models.GIFMedia:   0,
		},
		VideoFormats: map[models.Format]int{
			models.VerticalFormat:  0,
			models.LandscapeFormat: 0,
			models.SquareFormat:    0,
		},
	}

	for i := range records {
		rec := &records[i]
		personal := rec.HasCharacteristic("personal-content")
		icon := rec.HasCharacteristic("icon")
		socialIcon := rec.HasCharacteristic("social-icon")

		if personal {
			s.PersonalContent++
		}
		if icon {
			s.Icons++
			if !socialIcon {
				s.IconUsage.Other++
			}
		}
		if socialIcon {
			s.IconUsage.Social++
		}

		if _, known := s.Media[rec.Type]; known {
			s.Media[rec.Type]++
		}
		if rec.Type == models.VideoMedia {
			if _, known := s.VideoFormats[rec.Format]; known {
				s.VideoFormats[rec.Format]++
			}
		}

		switch {
		case personal && rec.Type == models.ImageMedia:
			s.PersonalContentTypes.Images++
		case personal && rec.Type == models.VideoMedia:
			s.PersonalContentTypes.Videos++
		}
		if rec.HasCharacteristic("meme") {
			s.PersonalContentTypes.Memes++
		}
	}
	return s
}

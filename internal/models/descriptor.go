package models

// TagKind is the HTML element a descriptor was taken from
type TagKind string

const (
	TagImage  TagKind = "img"
	TagVideo  TagKind = "video"
	TagIFrame TagKind = "iframe"
)

// Box is the rendered size of an element
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Ancestor describes one element on the path from a media element up to the
// document root. Text and Labels are only filled for ancestors the extractor
// considers context containers (article, section, post, product, comment).
type Ancestor struct {
	Tag     string   `json:"tag"`
	ID      string   `json:"id,omitempty"`
	Classes []string `json:"classes,omitempty"`
	Text    string   `json:"text,omitempty"`
	// Labels are heading and category/tag texts in document order.
	Labels []string `json:"labels,omitempty"`
}

// RawDescriptor is the DOM-free description of a media element, as produced
// by the scraping side. Ancestors are ordered nearest first.
type RawDescriptor struct {
	Tag        TagKind    `json:"tag"`
	Src        string     `json:"src"`
	Alt        string     `json:"alt,omitempty"`
	Title      string     `json:"title,omitempty"`
	AriaLabel  string     `json:"aria_label,omitempty"`
	ClassList  []string   `json:"class_list,omitempty"`
	Width      float64    `json:"width,omitempty"`
	Height     float64    `json:"height,omitempty"`
	Box        Box        `json:"box"`
	Live       bool       `json:"live,omitempty"`
	Ancestors  []Ancestor `json:"ancestors,omitempty"`
	PageURL    string     `json:"page_url,omitempty"`
	ObservedAt int64      `json:"observed_at,omitempty"`
}

// Parent returns the immediate parent element, if known
func (d *RawDescriptor) Parent() *Ancestor {
	if len(d.Ancestors) == 0 {
		return nil
	}
	return &d.Ancestors[0]
}

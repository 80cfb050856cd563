package classifier

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/xaenox/trendlens/internal/models"
)

// Characteristic tags produced by the default rule table
const (
	CharIllustration    = "illustration"
	CharMeme            = "meme"
	CharProfilePicture  = "profile-picture"
	CharSocial          = "social"
	CharIcon            = "icon"
	CharSocialIcon      = "social-icon"
	CharProductPhoto    = "product-photo"
	CharUGC             = "ugc"
	CharPersonalContent = "personal-content"
	CharYouTube         = "youtube"
	CharVimeo           = "vimeo"
	CharLivestream      = "livestream"
)

// Field selects which lowercased descriptor text a rule scans
type Field int

const (
	FieldSrc Field = iota
	FieldAlt
	FieldTitle
	FieldClass
	FieldParentClass
)

// Subject is the normalized view of a descriptor the rules are evaluated against
type Subject struct {
	Descriptor *models.RawDescriptor
	Type       models.MediaType
	URL        string
	IconMax    float64
	fields     map[Field]string
}

func newSubject(d *models.RawDescriptor, mediaType models.MediaType, resolvedURL string, iconMax float64) *Subject {
	s := &Subject{
		Descriptor: d,
		Type:       mediaType,
		URL:        resolvedURL,
		IconMax:    iconMax,
		fields:     make(map[Field]string, 5),
	}
	s.fields[FieldSrc] = strings.ToLower(resolvedURL)
	s.fields[FieldAlt] = strings.ToLower(d.Alt)
	s.fields[FieldTitle] = strings.ToLower(d.Title)
	s.fields[FieldClass] = strings.ToLower(strings.Join(d.ClassList, " "))
	if p := d.Parent(); p != nil {
		s.fields[FieldParentClass] = classAttr(p)
	}
	return s
}

// IsIcon reports whether the rendered box fits the icon size on both axes
func (s *Subject) IsIcon() bool {
	w, h := boxSize(s.Descriptor)
	return w > 0 && h > 0 && w <= s.IconMax && h <= s.IconMax
}

// Rule maps text patterns and/or a structural condition to one characteristic.
// A rule fires when any pattern occurs in any of its fields, or when Condition
// holds. Media restricts the rule to the listed media types.
type Rule struct {
	Characteristic string
	Fields         []Field
	Patterns       []string
	Condition      func(s *Subject) bool
	Media          []models.MediaType
}

// DefaultRules is the ordered rule table used by the classifier
var DefaultRules = []Rule{
	{
		Characteristic: CharIllustration,
		Fields:         []Field{FieldSrc, FieldAlt, FieldTitle, FieldClass},
		Patterns:       []string{"illustration", "vector", "drawing"},
	},
	{
		Characteristic: CharMeme,
		Fields:         []Field{FieldSrc, FieldAlt, FieldTitle},
		Patterns:       []string{"meme"},
	},
	{
		Characteristic: CharProfilePicture,
		Fields:         []Field{FieldSrc, FieldAlt, FieldClass, FieldParentClass},
		Patterns:       []string{"profile", "avatar"},
	},
	{
		Characteristic: CharSocial,
		Fields:         []Field{FieldSrc},
		Patterns:       []string{"social", "facebook", "twitter", "instagram", "linkedin", "pinterest", "tiktok"},
	},
	{
		Characteristic: CharIcon,
		Condition:      (*Subject).IsIcon,
	},
	{
		Characteristic: CharSocialIcon,
		Condition: func(s *Subject) bool {
			return s.IsIcon() && closest(s.Descriptor, landmarkSelector) != nil
		},
	},
	{
		Characteristic: CharProductPhoto,
		Condition: func(s *Subject) bool {
			return closest(s.Descriptor, productSelector) != nil
		},
	},
	{
		Characteristic: CharUGC,
		Fields:         []Field{FieldSrc, FieldAlt, FieldClass, FieldParentClass},
		Patterns:       []string{"profile", "avatar"},
		Condition:      inPost,
	},
	{
		Characteristic: CharPersonalContent,
		Fields:         []Field{FieldSrc, FieldAlt, FieldClass, FieldParentClass},
		Patterns:       []string{"profile", "avatar"},
		Condition:      inPost,
	},
	{
		Characteristic: CharYouTube,
		Fields:         []Field{FieldSrc},
		Patterns:       []string{"youtube", "youtu.be"},
		Media:          []models.MediaType{models.VideoMedia},
	},
	{
		Characteristic: CharVimeo,
		Fields:         []Field{FieldSrc},
		Patterns:       []string{"vimeo"},
		Media:          []models.MediaType{models.VideoMedia},
	},
	{
		Characteristic: CharLivestream,
		Condition:      func(s *Subject) bool { return s.Descriptor.Live },
		Media:          []models.MediaType{models.VideoMedia},
	},
}

func inPost(s *Subject) bool {
	return closest(s.Descriptor, postSelector) != nil
}

type compiledRule struct {
	Rule
	matcher *ahocorasick.Matcher
}

// RuleSet is a compiled, read-only rule table
type RuleSet struct {
	rules []compiledRule
}

// NewRuleSet compiles one Aho-Corasick automaton per rule
func NewRuleSet(rules []Rule) *RuleSet {
	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{Rule: r}
		patterns := make([]string, 0, len(r.Patterns))
		for _, p := range r.Patterns {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				patterns = append(patterns, p)
			}
		}
		if len(patterns) > 0 && len(r.Fields) > 0 {
			cr.matcher = ahocorasick.NewStringMatcher(patterns)
		}
		rs.rules = append(rs.rules, cr)
	}
	return rs
}

// Evaluate runs every rule independently and returns the characteristics that
// fired, in table order and without duplicates.
func (rs *RuleSet) Evaluate(s *Subject) []string {
	result := make([]string, 0, 4)
	seen := make(map[string]struct{}, len(rs.rules))
	for i := range rs.rules {
		r := &rs.rules[i]
		if _, dup := seen[r.Characteristic]; dup {
			continue
		}
		if !r.appliesTo(s.Type) {
			continue
		}
		if r.matches(s) {
			seen[r.Characteristic] = struct{}{}
			result = append(result, r.Characteristic)
		}
	}
	return result
}

// Vocabulary returns every characteristic the rule set can produce
func (rs *RuleSet) Vocabulary() []string {
	vocab := make([]string, 0, len(rs.rules))
	seen := make(map[string]struct{}, len(rs.rules))
	for _, r := range rs.rules {
		if _, ok := seen[r.Characteristic]; ok {
			continue
		}
		seen[r.Characteristic] = struct{}{}
		vocab = append(vocab, r.Characteristic)
	}
	return vocab
}

func (r *compiledRule) appliesTo(t models.MediaType) bool {
	if len(r.Media) == 0 {
		return true
	}
	for _, m := range r.Media {
		if m == t {
			return true
		}
	}
	return false
}

func (r *compiledRule) matches(s *Subject) bool {
	if r.matcher != nil {
		texts := make([]string, 0, len(r.Fields))
		for _, f := range r.Fields {
			if t := s.fields[f]; t != "" {
				texts = append(texts, t)
			}
		}
		// newline keeps patterns from matching across field boundaries
		if len(texts) > 0 && len(r.matcher.Match([]byte(strings.Join(texts, "\n")))) > 0 {
			return true
		}
	}
	return r.Condition != nil && r.Condition(s)
}

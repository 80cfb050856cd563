package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xaenox/trendlens/internal/models"
)

func evaluate(d *models.RawDescriptor, mediaType models.MediaType) []string {
	rs := NewRuleSet(DefaultRules)
	return rs.Evaluate(newSubject(d, mediaType, d.Src, 48))
}

func TestRuleSet_Evaluate(t *testing.T) {
	tests := []struct {
		name      string
		desc      *models.RawDescriptor
		mediaType models.MediaType
		want      []string
	}{
		{
			name: "illustration from class",
			desc: &models.RawDescriptor{Src: "https://x.test/a.png", ClassList: []string{"Vector-Art"}},
			want: []string{CharIllustration},
		},
		{
			name: "meme from title",
			desc: &models.RawDescriptor{Src: "https://x.test/a.png", Title: "Daily MEME"},
			want: []string{CharMeme},
		},
		{
			name: "profile from parent class marks personal content",
			desc: &models.RawDescriptor{
				Src:       "https://x.test/u/1.png",
				Ancestors: []models.Ancestor{{Tag: "div", Classes: []string{"user-avatar"}}},
			},
			want: []string{CharProfilePicture, CharUGC, CharPersonalContent},
		},
		{
			name: "profile on a grandparent does not count",
			desc: &models.RawDescriptor{
				Src: "https://x.test/u/1.png",
				Ancestors: []models.Ancestor{
					{Tag: "span"},
					{Tag: "div", Classes: []string{"avatar"}},
				},
			},
			want: []string{},
		},
		{
			name: "social platform in src",
			desc: &models.RawDescriptor{Src: "https://cdn.instagram.com/p/1.jpg"},
			want: []string{CharSocial},
		},
		{
			name: "icon outside landmark",
			desc: &models.RawDescriptor{Src: "https://x.test/i.svg", Box: models.Box{Width: 48, Height: 48}},
			want: []string{CharIcon},
		},
		{
			name: "icon inside footer",
			desc: &models.RawDescriptor{
				Src:       "https://x.test/i.svg",
				Box:       models.Box{Width: 24, Height: 24},
				Ancestors: []models.Ancestor{{Tag: "a"}, {Tag: "FOOTER"}},
			},
			want: []string{CharIcon, CharSocialIcon},
		},
		{
			name: "wide element is not an icon",
			desc: &models.RawDescriptor{Src: "https://x.test/i.svg", Box: models.Box{Width: 49, Height: 20}},
			want: []string{},
		},
		{
			name: "missing box is not an icon",
			desc: &models.RawDescriptor{Src: "https://x.test/i.svg"},
			want: []string{},
		},
		{
			name: "product by id",
			desc: &models.RawDescriptor{
				Src:       "https://x.test/p.jpg",
				Ancestors: []models.Ancestor{{Tag: "div", ID: "productGallery"}},
			},
			want: []string{CharProductPhoto},
		},
		{
			name: "comment container is ugc",
			desc: &models.RawDescriptor{
				Src:       "https://x.test/c.jpg",
				Ancestors: []models.Ancestor{{Tag: "li", Classes: []string{"comment-body"}}},
			},
			want: []string{CharUGC, CharPersonalContent},
		},
		{
			name:      "youtube embed",
			desc:      &models.RawDescriptor{Src: "https://www.youtube.com/embed/abc", Live: true},
			mediaType: models.VideoMedia,
			want:      []string{CharYouTube, CharLivestream},
		},
		{
			name: "video rules ignore images",
			desc: &models.RawDescriptor{Src: "https://vimeo.example/thumb.jpg", Live: true},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mediaType := tt.mediaType
			if mediaType == "" {
				mediaType = models.ImageMedia
			}
			assert.Equal(t, tt.want, evaluate(tt.desc, mediaType))
		})
	}
}

func TestRuleSet_PatternsDoNotSpanFields(t *testing.T) {
	rs := NewRuleSet([]Rule{{
		Characteristic: "joined",
		Fields:         []Field{FieldAlt, FieldTitle},
		Patterns:       []string{"memes"},
	}})
	s := newSubject(&models.RawDescriptor{Alt: "me", Title: "mes"}, models.ImageMedia, "https://x.test/a.png", 48)

	assert.Empty(t, rs.Evaluate(s))
}

func TestRuleSet_Vocabulary(t *testing.T) {
	vocab := NewRuleSet(DefaultRules).Vocabulary()
	assert.Len(t, vocab, len(DefaultRules))
	assert.Contains(t, vocab, CharSocialIcon)
}

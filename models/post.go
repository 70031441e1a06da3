package models

// PostType is the kind of post the generation service is asked to write.
type PostType string

const (
	PersonalStory   PostType = "Personal story"
	TechExplanation PostType = "Tech explanation"
	HiringPost      PostType = "Hiring post"
	Achievement     PostType = "Achievement / milestone"
	Educational     PostType = "Educational post"
)

// PostTypes lists the selectable post types in display order.
var PostTypes = []PostType{PersonalStory, TechExplanation, HiringPost, Achievement, Educational}

func (p PostType) Valid() bool {
	for _, v := range PostTypes {
		if v == p {
			return true
		}
	}
	return false
}

type Tone string

const (
	Professional Tone = "Professional"
	Casual       Tone = "Casual"
	Bold         Tone = "Bold"
)

var Tones = []Tone{Professional, Casual, Bold}

func (t Tone) Valid() bool {
	for _, v := range Tones {
		if v == t {
			return true
		}
	}
	return false
}

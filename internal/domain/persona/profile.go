package persona

import (
	"encoding/json"
	"fmt"
)

// Storage keys, one namespace per visitor.
const (
	KeyCategory = "claire-george-disability"
	KeyProfile  = "claire-george-persona"
	KeyVisited  = "claire-george-visited"
)

type Phase string

const (
	PhaseUnanswered       Phase = "unanswered"
	PhaseChoosingCategory Phase = "choosing_category"
	PhaseTransitioning    Phase = "transitioning"
	PhaseResolved         Phase = "resolved"
)

// Profile is the committed persona. HasDisability is nil until the visitor
// answers the yes/no question.
type Profile struct {
	HasDisability       *bool       `json:"hasDisability"`
	Category            Category    `json:"-"`
	Preferences         Preferences `json:"preferences"`
	AssessmentCompleted bool        `json:"assessmentCompleted"`
}

type profileJSON struct {
	HasDisability       *bool       `json:"hasDisability"`
	DisabilityType      *string     `json:"disabilityType"`
	Preferences         Preferences `json:"preferences"`
	AssessmentCompleted bool        `json:"assessmentCompleted"`
}

func DefaultProfile() Profile { return Profile{} }

// ResolvedProfile is the profile committed after a choice. Preferences are
// always derived, never taken from input.
func ResolvedProfile(c Category) Profile {
	has := c != None
	return Profile{
		HasDisability:       &has,
		Category:            c,
		Preferences:         PreferencesFor(c),
		AssessmentCompleted: true,
	}
}

func (p Profile) MarshalJSON() ([]byte, error) {
	out := profileJSON{
		HasDisability:       p.HasDisability,
		Preferences:         p.Preferences,
		AssessmentCompleted: p.AssessmentCompleted,
	}
	if p.Category != None {
		s := string(p.Category)
		out.DisabilityType = &s
	}
	return json.Marshal(out)
}

func (p *Profile) UnmarshalJSON(b []byte) error {
	var in profileJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	p.HasDisability = in.HasDisability
	p.Category = None
	if in.DisabilityType != nil {
		p.Category = ParseCategory(*in.DisabilityType)
	}
	p.Preferences = PreferencesFor(p.Category)
	p.AssessmentCompleted = in.AssessmentCompleted
	return nil
}

// DecodeProfile parses the stored profile JSON.
func DecodeProfile(raw string) (Profile, error) {
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return DefaultProfile(), fmt.Errorf("decode persona profile: %w", err)
	}
	return p, nil
}

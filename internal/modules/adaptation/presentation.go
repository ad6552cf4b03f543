package adaptation

import pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"

// Presentation is the set of layout directives the renderer applies.
type Presentation struct {
	pdomain.Preferences
	TextSize          string   `json:"textSize"`
	ColorScheme       string   `json:"colorScheme"`
	Layout            string   `json:"layout"`
	Font              string   `json:"font"`
	Instructions      string   `json:"instructions"`
	SupportInfo       bool     `json:"supportInfo"`
	ReadingAids       bool     `json:"readingAids"`
	HighlightFeatures []string `json:"highlightFeatures"`
}

type directives struct {
	textSize, colorScheme, layout, font, instructions string
	supportInfo, readingAids                          bool
	highlights                                        []string
}

var directiveTable = map[pdomain.Category]directives{
	pdomain.Wheelchair: {
		highlights: []string{"wheelchair-accessible", "elevator-access", "accessible-parking"},
	},
	pdomain.LowVision: {
		textSize:    "large",
		colorScheme: "high-contrast",
		highlights:  []string{"audio-descriptions", "tactile-guides", "high-contrast"},
	},
	pdomain.Cognitive: {
		layout:       "simplified",
		instructions: "step-by-step",
		highlights:   []string{"simple-booking", "clear-instructions", "support-available"},
	},
	pdomain.Anxiety: {
		colorScheme: "calming",
		supportInfo: true,
		highlights:  []string{"24-7-support", "flexible-cancellation", "calm-environment"},
	},
	pdomain.Dyslexia: {
		font:        "dyslexia-friendly",
		readingAids: true,
		highlights:  []string{"audio-content", "simplified-text", "visual-aids"},
	},
	pdomain.Hearing: {
		highlights: []string{"visual-alerts", "captioned-content", "text-communication"},
	},
}

// PresentationFor derives layout directives from the category.
func PresentationFor(c pdomain.Category) Presentation {
	d := directiveTable[c]
	return Presentation{
		Preferences:       pdomain.PreferencesFor(c),
		TextSize:          orDefault(d.textSize, "normal"),
		ColorScheme:       orDefault(d.colorScheme, "default"),
		Layout:            orDefault(d.layout, "standard"),
		Font:              orDefault(d.font, "default"),
		Instructions:      orDefault(d.instructions, "standard"),
		SupportInfo:       d.supportInfo,
		ReadingAids:       d.readingAids,
		HighlightFeatures: append([]string{}, d.highlights...),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

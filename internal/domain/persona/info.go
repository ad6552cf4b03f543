package persona

// CategoryInfo is the authored metadata for one enumerated category.
type CategoryInfo struct {
	ID              Category  `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	TransitionLabel string    `json:"transition_label"`
	Steps           [3]string `json:"steps"`
	BackendTag      string    `json:"backend_tag,omitempty"`
}

var defaultSteps = [3]string{
	"Personalizing experience...",
	"Applying preferences...",
	"Optimizing interface...",
}

var infoTable = map[Category]CategoryInfo{
	Wheelchair: {
		ID:              Wheelchair,
		Name:            "Wheelchair Assistance",
		Description:     "I use a wheelchair or mobility aid",
		TransitionLabel: "Wheelchair Accessibility",
		Steps: [3]string{
			"Scanning accessibility features...",
			"Optimizing for mobility access...",
			"Personalizing your experience...",
		},
		BackendTag: "wheelchair_user",
	},
	LowVision: {
		ID:              LowVision,
		Name:            "Low Vision",
		Description:     "I have difficulty seeing or am visually impaired",
		TransitionLabel: "Low Vision Support",
		Steps: [3]string{
			"Enhancing visual contrast...",
			"Adjusting text size and clarity...",
			"Optimizing for better visibility...",
		},
		BackendTag: "low_vision",
	},
	Cognitive: {
		ID:              Cognitive,
		Name:            "Cognitive Impairment",
		Description:     "I have difficulty with memory, attention, or processing",
		TransitionLabel: "Cognitive Support",
		Steps: [3]string{
			"Simplifying content structure...",
			"Reducing cognitive load...",
			"Creating clear pathways...",
		},
		BackendTag: "cognitive_impairment",
	},
	Anxiety: {
		ID:              Anxiety,
		Name:            "Anxiety Disorders",
		Description:     "I experience anxiety or stress-related challenges",
		TransitionLabel: "Anxiety Support",
		Steps: [3]string{
			"Creating calming environment...",
			"Highlighting safety features...",
			"Reducing stress elements...",
		},
		BackendTag: "anxiety_travel_fear",
	},
	Dyslexia: {
		ID:              Dyslexia,
		Name:            "Dyslexia",
		Description:     "I have difficulty reading or processing text",
		TransitionLabel: "Dyslexia Support",
		Steps: [3]string{
			"Adjusting font and spacing...",
			"Simplifying language...",
			"Improving readability...",
		},
		BackendTag: "dyslexia",
	},
	Hearing: {
		ID:              Hearing,
		Name:            "Hearing Impairment",
		Description:     "I am deaf or hard of hearing",
		TransitionLabel: "Hearing Support",
		Steps: [3]string{
			"Enhancing visual information...",
			"Adding text alternatives...",
			"Optimizing visual cues...",
		},
	},
}

// Info returns the authored metadata. Custom categories get a synthetic
// entry using the raw text as name and the generic transition steps.
func Info(c Category) (CategoryInfo, bool) {
	if info, ok := infoTable[c]; ok {
		return info, true
	}
	if c == None {
		return CategoryInfo{ID: None, Name: "No preference", Steps: defaultSteps}, false
	}
	return CategoryInfo{
		ID:              c,
		Name:            string(c),
		Description:     string(c),
		TransitionLabel: "Personalized Support",
		Steps:           defaultSteps,
	}, false
}

// Infos returns the enumerated categories in picker order.
func Infos() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(Known))
	for _, c := range Known {
		out = append(out, infoTable[c])
	}
	return out
}

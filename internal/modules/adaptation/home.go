package adaptation

import pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"

type ServiceBlurb struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type HomeContent struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Services [3]ServiceBlurb `json:"services"`
}

type homeCopy struct {
	title, subtitle     string
	care, hotels, tours string
}

var baselineHome = homeCopy{
	title:    "Welcome to Accessible Switzerland",
	subtitle: "We are your one stop shop for accessible holidays and travel in Switzerland.",
	care:     "Additional services offered by Claire & George to ensure you have a relaxing and stress-free holiday. Nothing is too much trouble.",
	hotels:   "Here you will find our selection of places to stay, including the best wheelchair accessible hotels, in Switzerland!",
	tours:    "Experience the beauty of Switzerland with our specially designed accessible tours and expert guidance.",
}

var homeTable = map[pdomain.Category]homeCopy{
	pdomain.Wheelchair: {
		title:    "Switzerland Without Barriers",
		subtitle: "Step-free hotels, accessible trains and mountain views you can reach in your wheelchair.",
		care:     "Mobility assistance, transfer support and equipment delivered to your room.",
		hotels:   "Hotels with roll-in showers, elevators, wide doorways and accessible parking.",
		tours:    "Tours on wheelchair accessible trains with adapted viewing platforms.",
	},
	pdomain.LowVision: {
		title:    "Switzerland You Can Hear and Touch",
		subtitle: "Audio descriptions, tactile guides and high contrast information at every step.",
		care:     "Sighted guides and assistants who read, describe and accompany you.",
		hotels:   "Hotels with audio alerts, braille signage and well lit paths.",
		tours:    "Audio-described tours with tactile models and a slow, guided pace.",
	},
	pdomain.Cognitive: {
		title:    "Simple, Clear Swiss Holidays",
		subtitle: "Easy booking, clear steps and someone to help whenever you need it.",
		care:     "Friendly helpers who guide you one step at a time.",
		hotels:   "Quiet hotels with picture signs and simple check-in.",
		tours:    "Short, well planned tours with clear instructions.",
	},
	pdomain.Anxiety: {
		title:    "Travel Switzerland at Your Own Pace",
		subtitle: "Calm places, flexible cancellation and 24/7 support so nothing comes as a surprise.",
		care:     "Companions who know the way and stay with you.",
		hotels:   "Peaceful hotels with private entrances and flexible cancellation.",
		tours:    "Private, unhurried tours with the plan shared in advance.",
	},
	pdomain.Dyslexia: {
		title:    "Switzerland Made Easy to Read",
		subtitle: "Short text, audio content and visual guides for every trip.",
		care:     "Help with timetables, menus and forms.",
		hotels:   "Hotels with audio guides and large print information.",
		tours:    "Tours with audio content and visual route maps.",
	},
	pdomain.Hearing: {
		title:    "See Switzerland, Your Way",
		subtitle: "Sign language interpreters, captions and visual alerts throughout your journey.",
		care:     "Certified sign language interpreters for any appointment.",
		hotels:   "Hotels with visual alarms and text-based reception.",
		tours:    "Tours with interpreters, captioned media and printed route cards.",
	},
}

// Home returns the hero copy and the three service blurbs. Unknown and
// custom categories get the baseline.
func Home(c pdomain.Category) HomeContent {
	cp, ok := homeTable[c]
	if !ok {
		cp = baselineHome
	}
	return HomeContent{
		Title:    ReadableText(c, cp.title),
		Subtitle: ReadableText(c, cp.subtitle),
		Services: [3]ServiceBlurb{
			{Key: "care", Title: ReadableText(c, "Holidays with Care"), Description: ReadableText(c, cp.care), Link: "/care-services"},
			{Key: "hotels", Title: ReadableText(c, "Hotels and Accommodation"), Description: ReadableText(c, cp.hotels), Link: "/hotels"},
			{Key: "tours", Title: ReadableText(c, "Accessible Tour of Switzerland"), Description: ReadableText(c, cp.tours), Link: "/tours"},
		},
	}
}

package adaptation

import pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"

type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type HotelsView struct {
	Hero  Hero    `json:"hero"`
	Items []Hotel `json:"items"`
}

type TourItem struct {
	Tour
	Badge string `json:"badge,omitempty"`
}

type ToursView struct {
	Hero  Hero       `json:"hero"`
	Items []TourItem `json:"items"`
}

type CareServiceItem struct {
	CareService
	Badge string `json:"badge,omitempty"`
}

type CareServicesView struct {
	Hero  Hero              `json:"hero"`
	Items []CareServiceItem `json:"items"`
}

const customBadge = "Accessibility adapted"

var badges = map[pdomain.Category]string{
	pdomain.Wheelchair: "Wheelchair adapted",
	pdomain.LowVision:  "Low vision adapted",
	pdomain.Cognitive:  "Easy access adapted",
	pdomain.Anxiety:    "Calm travel adapted",
	pdomain.Dyslexia:   "Easy read adapted",
	pdomain.Hearing:    "Hearing adapted",
}

// Badge is the label attached to tour and care items. None gets no badge.
func Badge(c pdomain.Category) string {
	if c == pdomain.None {
		return ""
	}
	if b, ok := badges[c]; ok {
		return b
	}
	return customBadge
}

type heroSet struct {
	baseline Hero
	variants map[pdomain.Category]Hero
}

func (h heroSet) pick(c pdomain.Category) Hero {
	hero, ok := h.variants[c]
	if !ok {
		hero = h.baseline
	}
	return Hero{Title: ReadableText(c, hero.Title), Subtitle: ReadableText(c, hero.Subtitle)}
}

var hotelHeroes = heroSet{
	baseline: Hero{
		Title:    "Wheelchair Accessible Hotels in Switzerland",
		Subtitle: "Discover our carefully selected collection of accessible hotels and accommodations throughout Switzerland, all verified for excellent accessibility standards.",
	},
	variants: map[pdomain.Category]Hero{
		pdomain.Wheelchair: {Title: "Step-Free Hotels in Switzerland", Subtitle: "Roll-in showers, elevators and accessible parking at every hotel below."},
		pdomain.LowVision:  {Title: "Hotels with Audio and Tactile Support", Subtitle: "Audio alerts, braille signage and well lit spaces."},
		pdomain.Cognitive:  {Title: "Simple, Quiet Hotels", Subtitle: "Clear signs and easy check-in."},
		pdomain.Anxiety:    {Title: "Calm Places to Stay", Subtitle: "Peaceful hotels with flexible cancellation and support around the clock."},
		pdomain.Dyslexia:   {Title: "Hotels Made Easy to Read", Subtitle: "Audio guides and large print information."},
		pdomain.Hearing:    {Title: "Hotels with Visual Support", Subtitle: "Visual alarms and text-based reception."},
	},
}

var tourHeroes = heroSet{
	baseline: Hero{
		Title:    "Accessible Tour of Switzerland",
		Subtitle: "Experience the stunning beauty of Switzerland with our specially designed accessible tours. Every detail is planned to ensure comfort, safety, and unforgettable memories.",
	},
	variants: map[pdomain.Category]Hero{
		pdomain.Wheelchair: {Title: "Wheelchair Accessible Tours", Subtitle: "Accessible trains, boats and viewing platforms all the way."},
		pdomain.LowVision:  {Title: "Tours to Hear and Touch", Subtitle: "Audio-described routes with tactile models and sighted guides."},
		pdomain.Cognitive:  {Title: "Easy, Well Planned Tours", Subtitle: "Short days and clear instructions."},
		pdomain.Anxiety:    {Title: "Unhurried, Private Tours", Subtitle: "Small groups and the plan shared in advance."},
		pdomain.Dyslexia:   {Title: "Tours with Audio Content", Subtitle: "Listen along with visual route maps."},
		pdomain.Hearing:    {Title: "Tours with Sign Language", Subtitle: "Interpreters, captions and printed route cards."},
	},
}

var careHeroes = heroSet{
	baseline: Hero{
		Title:    "Holidays with Care",
		Subtitle: "Additional services offered by Claire & George to ensure you have a relaxing and stress-free holiday. Nothing is too much trouble.",
	},
	variants: map[pdomain.Category]Hero{
		pdomain.Wheelchair: {Title: "Mobility Care on Holiday", Subtitle: "Assistants, transfers and equipment wherever you stay."},
		pdomain.LowVision:  {Title: "Guided Care", Subtitle: "Sighted assistants who read and describe."},
		pdomain.Cognitive:  {Title: "Simple Support", Subtitle: "Helpers who guide you step by step."},
		pdomain.Anxiety:    {Title: "Someone by Your Side", Subtitle: "Companions and a 24/7 support line."},
		pdomain.Dyslexia:   {Title: "Reading Help", Subtitle: "Help with timetables, menus and forms."},
		pdomain.Hearing:    {Title: "Interpreting and Visual Support", Subtitle: "Certified sign language interpreters."},
	},
}

// matches is the listing filter: no preference and custom categories see
// the whole catalog, known categories only their exact tag.
func matches(visitor, listing pdomain.Category) bool {
	if visitor == pdomain.None || visitor.IsCustom() {
		return true
	}
	return listing == visitor
}

// Hotels filters the hotel catalog for the visitor. Hotels carry no badge.
func Hotels(c pdomain.Category, cat *Catalog) HotelsView {
	view := HotelsView{Hero: hotelHeroes.pick(c), Items: []Hotel{}}
	if cat == nil {
		return view
	}
	for _, h := range cat.Hotels {
		if !matches(c, h.Category) {
			continue
		}
		h.Name = ReadableText(c, h.Name)
		h.Location = ReadableText(c, h.Location)
		h.Price = ReadableText(c, h.Price)
		h.Description = ReadableText(c, h.Description)
		h.Features = readableAll(c, h.Features)
		h.Amenities = readableAll(c, h.Amenities)
		view.Items = append(view.Items, h)
	}
	return view
}

func Tours(c pdomain.Category, cat *Catalog) ToursView {
	view := ToursView{Hero: tourHeroes.pick(c), Items: []TourItem{}}
	if cat == nil {
		return view
	}
	badge := ReadableText(c, Badge(c))
	for _, t := range cat.Tours {
		if !matches(c, t.Category) {
			continue
		}
		t.Name = ReadableText(c, t.Name)
		t.Location = ReadableText(c, t.Location)
		t.Duration = ReadableText(c, t.Duration)
		t.GroupSize = ReadableText(c, t.GroupSize)
		t.Price = ReadableText(c, t.Price)
		t.Description = ReadableText(c, t.Description)
		t.Highlights = readableAll(c, t.Highlights)
		view.Items = append(view.Items, TourItem{Tour: t, Badge: badge})
	}
	return view
}

func CareServices(c pdomain.Category, cat *Catalog) CareServicesView {
	view := CareServicesView{Hero: careHeroes.pick(c), Items: []CareServiceItem{}}
	if cat == nil {
		return view
	}
	badge := ReadableText(c, Badge(c))
	for _, s := range cat.CareServices {
		if !matches(c, s.Category) {
			continue
		}
		s.Name = ReadableText(c, s.Name)
		s.Duration = ReadableText(c, s.Duration)
		s.Price = ReadableText(c, s.Price)
		s.Description = ReadableText(c, s.Description)
		s.Features = readableAll(c, s.Features)
		view.Items = append(view.Items, CareServiceItem{CareService: s, Badge: badge})
	}
	return view
}

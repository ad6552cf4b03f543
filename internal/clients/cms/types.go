package cms

import "encoding/json"

// ContentType is the backend's path segment for a listing kind.
type ContentType string

const (
	ContentHotel       ContentType = "hotel"
	ContentTour        ContentType = "tour"
	ContentCareService ContentType = "care-service"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentHotel, ContentTour, ContentCareService:
		return true
	}
	return false
}

// ParseContentType accepts the singular backend names and the plural route
// names used by the CMS surface.
func ParseContentType(raw string) (ContentType, bool) {
	switch raw {
	case "hotel", "hotels":
		return ContentHotel, true
	case "tour", "tours":
		return ContentTour, true
	case "care-service", "care-services", "care_service":
		return ContentCareService, true
	}
	return "", false
}

type HotelContent struct {
	Name                   string              `json:"name"`
	Location               string              `json:"location"`
	Coordinates            string              `json:"coordinates,omitempty"`
	Prices                 map[string]any      `json:"prices"`
	AccessibilityFeatures  map[string]string   `json:"accessibility_features"`
	Images                 []string            `json:"images"`
	CancellationConditions string              `json:"cancellation_conditions"`
	MealTimes              map[string]string   `json:"meal_times"`
	Parking                string              `json:"parking"`
	Amenities              map[string]string   `json:"amenities"`
	NearbyAccessiblePlaces []map[string]string `json:"nearby_accessible_places"`
	AccessibilityNotes     string              `json:"accessibility_notes"`
}

type TourContent struct {
	Name                  string              `json:"name"`
	Description           string              `json:"description"`
	Destinations          []string            `json:"destinations"`
	Activities            []map[string]string `json:"activities"`
	AccessibilityFeatures map[string]string   `json:"accessibility_features"`
	Photos                []string            `json:"photos"`
	Duration              string              `json:"duration"`
	Itinerary             []map[string]string `json:"itinerary"`
	SupportServices       []string            `json:"support_services"`
}

type CareServiceContent struct {
	Name                  string            `json:"name"`
	Description           string            `json:"description"`
	CareTypes             []string          `json:"care_types"`
	StaffQualifications   []string          `json:"staff_qualifications"`
	PricingInsurance      map[string]string `json:"pricing_insurance"`
	Images                []string          `json:"images"`
	EmergencyContact      map[string]string `json:"emergency_contact"`
	AccessibilityFeatures map[string]string `json:"accessibility_features"`
}

// Record is the metadata the backend attaches to every stored listing.
type Record struct {
	ID          int64  `json:"id"`
	ContentType string `json:"content_type,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type Hotel struct {
	Record
	HotelContent
}

type Tour struct {
	Record
	TourContent
}

type CareService struct {
	Record
	CareServiceContent
}

// Summary is one row of a list response. Which text fields are set
// depends on the listing kind.
type Summary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Coordinates string `json:"coordinates,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type DisabilityTypes struct {
	Types        []string          `json:"disability_types"`
	Descriptions map[string]string `json:"descriptions"`
}

// ContentModel is the backend's schema description for one listing kind.
type ContentModel struct {
	Model  string          `json:"model"`
	Schema json.RawMessage `json:"schema"`
}

type Regenerated struct {
	Message          string          `json:"message"`
	Content          json.RawMessage `json:"content"`
	ContentStructure string          `json:"content_structure"`
}

type Validated struct {
	Message   string          `json:"message"`
	Content   json.RawMessage `json:"validated_content"`
	ModelUsed string          `json:"model_used"`
}

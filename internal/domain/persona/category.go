package persona

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category is the visitor's self-reported accessibility need. The zero
// value means no preference was expressed.
type Category string

const (
	None       Category = ""
	Wheelchair Category = "wheelchair"
	LowVision  Category = "low-vision"
	Cognitive  Category = "cognitive"
	Anxiety    Category = "anxiety"
	Dyslexia   Category = "dyslexia"
	Hearing    Category = "hearing"
)

// NullSentinel is the stored form of an explicit "no preference".
const NullSentinel = "null"

const maxCustomRunes = 64

// Known lists the enumerated categories in picker order.
var Known = []Category{Wheelchair, LowVision, Cognitive, Anxiety, Dyslexia, Hearing}

var aliases = map[string]Category{
	"wheelchair":           Wheelchair,
	"wheelchair_user":      Wheelchair,
	"low-vision":           LowVision,
	"low_vision":           LowVision,
	"lowvision":            LowVision,
	"cognitive":            Cognitive,
	"cognitive_impairment": Cognitive,
	"anxiety":              Anxiety,
	"anxiety_travel_fear":  Anxiety,
	"dyslexia":             Dyslexia,
	"hearing":              Hearing,
	"hearing_impairment":   Hearing,
}

// ParseCategory normalises raw input. It never fails: unrecognised text
// becomes a custom category.
func ParseCategory(raw string) Category {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", NullSentinel, "none", "undefined":
		return None
	}
	if c, ok := aliases[strings.ToLower(s)]; ok {
		return c
	}
	return Category(sanitizeCustom(s))
}

func sanitizeCustom(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if unicode.IsControl(r) || r == utf8.RuneError {
			continue
		}
		if n == maxCustomRunes {
			break
		}
		b.WriteRune(r)
		n++
	}
	return strings.TrimSpace(b.String())
}

func (c Category) IsNone() bool { return c == None }

func (c Category) IsKnown() bool {
	_, ok := infoTable[c]
	return ok
}

// IsCustom reports a free-text category outside the enumeration.
func (c Category) IsCustom() bool { return c != None && !c.IsKnown() }

// StorageValue is the string written under the category key.
func (c Category) StorageValue() string {
	if c == None {
		return NullSentinel
	}
	return string(c)
}

func (c Category) String() string { return string(c) }

// BackendTag maps to the content backend's disability type. Categories the
// backend has no content for map to "".
func (c Category) BackendTag() string {
	if info, ok := infoTable[c]; ok {
		return info.BackendTag
	}
	return ""
}

// CategoryFromBackendTag is the inverse of BackendTag.
func CategoryFromBackendTag(tag string) (Category, bool) {
	t := strings.ToLower(strings.TrimSpace(tag))
	for _, c := range Known {
		if infoTable[c].BackendTag == t && t != "" {
			return c, true
		}
	}
	return None, false
}

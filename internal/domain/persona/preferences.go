package persona

type Preferences struct {
	HighContrast       bool `json:"highContrast"`
	LargeText          bool `json:"largeText"`
	SimplifiedLayout   bool `json:"simplifiedLayout"`
	AudioSupport       bool `json:"audioSupport"`
	KeyboardNavigation bool `json:"keyboardNavigation"`
}

var preferenceTable = map[Category]Preferences{
	Wheelchair: {KeyboardNavigation: true},
	LowVision:  {HighContrast: true, LargeText: true, SimplifiedLayout: true, AudioSupport: true, KeyboardNavigation: true},
	Cognitive:  {LargeText: true, SimplifiedLayout: true, AudioSupport: true},
	Anxiety:    {SimplifiedLayout: true},
	Dyslexia:   {LargeText: true, SimplifiedLayout: true, AudioSupport: true},
	Hearing:    {KeyboardNavigation: true},
}

// PreferencesFor derives the preference bundle from the category. None and
// custom categories get all flags off.
func PreferencesFor(c Category) Preferences {
	return preferenceTable[c]
}

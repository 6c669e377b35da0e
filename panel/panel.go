// Package panel describes the locality settings panel and serves it over
// HTTP. Every widget change becomes a locality.SettingChanged applied
// through the settings manager, which persists it immediately.
package panel

import (
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/nevindra/locality"
)

// Title is the panel heading.
const Title = "Locality Settings"

// Kind is the widget type.
type Kind string

const (
	Checkbox Kind = "checkbox"
	Dropdown Kind = "dropdown"
)

// Choice is one dropdown option.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Widget binds one setting to a control.
type Widget struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Checked bool     `json:"checked,omitempty"`
	Value   string   `json:"value,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
}

// Panel is the declarative panel description. It renders closed by default.
type Panel struct {
	Title   string   `json:"title"`
	Open    bool     `json:"open"`
	Widgets []Widget `json:"widgets"`
}

// Locales offered in the locale dropdown.
var Locales = []string{
	"en-US", "en-GB", "de-DE", "fr-FR", "es-ES", "it-IT", "pt-BR", "nl-NL",
	"sv-SE", "pl-PL", "ru-RU", "tr-TR", "ja-JP", "ko-KR", "zh-CN", "id-ID",
	"hi-IN",
}

// Units offered in the temperature unit dropdown.
var Units = []string{string(locality.Celsius), string(locality.Fahrenheit)}

// Describe builds the panel for the current settings, one widget per
// setting, in persisted key order.
func Describe(s locality.Settings) Panel {
	return Panel{
		Title: Title,
		Widgets: []Widget{
			{Key: locality.KeyAddTime, Label: "Add Current Time", Kind: Checkbox, Checked: s.AddTime},
			{Key: locality.KeyAddDate, Label: "Add Current Date", Kind: Checkbox, Checked: s.AddDate},
			{Key: locality.KeyAddTimezone, Label: "Add Timezone", Kind: Checkbox, Checked: s.AddTimezone},
			{Key: locality.KeyAddLocation, Label: "Add Location", Kind: Checkbox, Checked: s.AddLocation},
			{Key: locality.KeyAddWeather, Label: "Add Weather", Kind: Checkbox, Checked: s.AddWeather},
			{Key: locality.KeyTimezone, Label: "Select Timezone", Kind: Dropdown, Value: s.Timezone, Choices: plainChoices(Timezones())},
			{Key: locality.KeyTempUnit, Label: "Temperature Unit", Kind: Dropdown, Value: string(s.TempUnit), Choices: plainChoices(Units)},
			{Key: locality.KeyLocale, Label: "Locale", Kind: Dropdown, Value: s.Locale, Choices: localeChoices()},
		},
	}
}

// Allowed reports whether value is within the widget domain for key.
// Checkbox keys accept any value; the settings layer parses booleans.
func Allowed(key, value string) bool {
	switch key {
	case locality.KeyTimezone:
		_, ok := slices.BinarySearch(Timezones(), value)
		return ok
	case locality.KeyTempUnit:
		return slices.Contains(Units, value)
	case locality.KeyLocale:
		return slices.Contains(Locales, value)
	}
	return slices.Contains(locality.Keys, key)
}

func plainChoices(values []string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		out[i] = Choice{Value: v, Label: v}
	}
	return out
}

func localeChoices() []Choice {
	out := make([]Choice, 0, len(Locales))
	for _, l := range Locales {
		label := l
		if tag, err := language.Parse(l); err == nil {
			if name := display.Self.Name(tag); name != "" {
				label = name + " (" + l + ")"
			}
		}
		out = append(out, Choice{Value: l, Label: label})
	}
	return out
}

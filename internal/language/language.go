package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

// AllLabel is the catalog label that disables language filtering.
const AllLabel = "All Languages"

// Option is a selectable language filter. An empty Code means no filtering.
type Option struct {
	Code  string `json:"code,omitempty"`
	Label string `json:"label"`
}

// Any reports whether the option leaves results unfiltered.
func (o Option) Any() bool {
	return o.Code == ""
}

// String returns the label shown to users and embedded in prompts.
func (o Option) String() string {
	if o.Label == "" {
		return AllLabel
	}
	return o.Label
}

type entry struct {
	code2   string // ISO 639-1 (2-letter)
	code3   string // ISO 639-2 (3-letter)
	alt3    string // ISO 639-2/B alternate (e.g. "fre")
	display string
}

// Catalog order is the order users see in pickers.
var catalog = []entry{
	{"hi", "hin", "", "Hindi"},
	{"en", "eng", "", "English"},
	{"ta", "tam", "", "Tamil"},
	{"te", "tel", "", "Telugu"},
	{"kn", "kan", "", "Kannada"},
	{"ml", "mal", "", "Malayalam"},
	{"mr", "mar", "", "Marathi"},
	{"pa", "pan", "", "Punjabi"},
	{"ko", "kor", "", "Korean"},
	{"ja", "jpn", "", "Japanese"},
	{"es", "spa", "", "Spanish"},
	{"fr", "fra", "fre", "French"},
}

var (
	byCode map[string]*entry
	byName map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(catalog)*2)
	byName = make(map[string]*entry, len(catalog))
	for i := range catalog {
		e := &catalog[i]
		byCode[e.code2] = e
		byCode[e.code3] = e
		if e.alt3 != "" {
			byCode[e.alt3] = e
		}
		byName[strings.ToLower(e.display)] = e
	}
}

// Options returns the selectable catalog, starting with the no-filter option.
func Options() []Option {
	out := make([]Option, 0, len(catalog)+1)
	out = append(out, Option{Label: AllLabel})
	for _, e := range catalog {
		out = append(out, Option{Code: e.code2, Label: e.display})
	}
	return out
}

// Resolve maps a label ("Korean"), ISO 639-1/639-2 code ("ko", "kor"), or
// BCP-47 tag ("ko-KR") to a catalog option. Empty input and "all" select the
// no-filter option. Languages outside the catalog are rejected.
func Resolve(input string) (Option, error) {
	trimmed := strings.TrimSpace(input)
	key := strings.ToLower(trimmed)
	switch key {
	case "", "all", "any", strings.ToLower(AllLabel):
		return Option{Label: AllLabel}, nil
	}
	if e := lookup(key); e != nil {
		return Option{Code: e.code2, Label: e.display}, nil
	}
	return Option{}, fmt.Errorf("unsupported language %q (choose one of: %s)", trimmed, strings.Join(labels(), ", "))
}

func lookup(key string) *entry {
	if e, ok := byName[key]; ok {
		return e
	}
	if e, ok := byName[cases.Fold().String(key)]; ok {
		return e
	}
	if e, ok := byCode[key]; ok {
		return e
	}
	if tag, err := xlanguage.Parse(key); err == nil {
		base, _ := tag.Base()
		if e, ok := byCode[base.String()]; ok {
			return e
		}
	}
	if base, err := xlanguage.ParseBase(key); err == nil {
		if e, ok := byCode[base.String()]; ok {
			return e
		}
	}
	return nil
}

// ToISO2 converts any recognized language code, tag, or name to ISO 639-1.
// Returns empty string for unrecognized input.
func ToISO2(code string) string {
	key := strings.ToLower(strings.TrimSpace(code))
	if key == "" {
		return ""
	}
	if e := lookup(key); e != nil {
		return e.code2
	}
	if tag, err := xlanguage.Parse(key); err == nil {
		if base, conf := tag.Base(); conf != xlanguage.No {
			return base.String()
		}
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(strings.ToLower(strings.TrimSpace(code))); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// ForCode builds a filter option from a raw code, tag, or name. The code is
// lowercased once and mapped to ISO 639-1 when recognized; unrecognized codes
// are kept as given so they filter everything out rather than nothing.
func ForCode(code string) Option {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return Option{}
	}
	if iso := ToISO2(code); iso != "" {
		code = iso
	}
	return Option{Code: code, Label: DisplayName(code)}
}

// Matches reports whether a TMDB original_language value equals the option's
// code. TMDB reports ISO 639-1 in lowercase, so the comparison is exact.
func (o Option) Matches(originalLanguage string) bool {
	if o.Any() {
		return true
	}
	return originalLanguage == o.Code
}

func labels() []string {
	out := make([]string, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e.display)
	}
	return out
}

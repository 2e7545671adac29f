package detect

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// noChangesSummary is returned for an empty descriptor list.
const noChangesSummary = "no notable changes"

// Summarize joins per-category phrasings in fixed priority order
// (resolution, HDR, video codec, audio codec, audio channels,
// subtitles, file size) with natural-language conjunctions.
func (d *Detector) Summarize(changes []Change) string {
	if len(changes) == 0 {
		return noChangesSummary
	}

	byCategory := make(map[Category][]string, len(changes))
	for _, change := range changes {
		byCategory[change.Category] = append(byCategory[change.Category], change.Description)
	}

	var phrases []string
	for _, cat := range summaryOrder {
		phrases = append(phrases, byCategory[cat]...)
	}
	if len(phrases) == 0 {
		return noChangesSummary
	}

	switch len(phrases) {
	case 1:
		return phrases[0]
	case 2:
		return phrases[0] + " and " + phrases[1]
	default:
		return strings.Join(phrases[:len(phrases)-1], ", ") + ", and " + phrases[len(phrases)-1]
	}
}

var englishNames = display.English.Languages()

// bibliographicISO639 maps ISO 639-2/B codes, which media servers emit
// for some languages, onto the terminological codes the language
// package understands.
var bibliographicISO639 = map[string]string{
	"alb": "sqi", "arm": "hye", "baq": "eus", "bur": "mya",
	"chi": "zho", "cze": "ces", "dut": "nld", "fre": "fra",
	"geo": "kat", "ger": "deu", "gre": "ell", "ice": "isl",
	"mac": "mkd", "mao": "mri", "may": "msa", "per": "fas",
	"rum": "ron", "slo": "slk", "tib": "bod", "wel": "cym",
}

// languageNames maps subtitle language codes to English display names,
// falling back to the raw code when the tag cannot be parsed.
func languageNames(codes []string) []string {
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		normalized := strings.ToLower(strings.TrimSpace(code))
		if alias, ok := bibliographicISO639[normalized]; ok {
			normalized = alias
		}
		tag, err := language.Parse(normalized)
		if err != nil {
			names = append(names, code)
			continue
		}
		if name := englishNames.Name(tag); name != "" {
			names = append(names, name)
		} else {
			names = append(names, code)
		}
	}
	return names
}

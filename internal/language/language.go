// Package language normalizes caption language codes and resolves their
// display names.
package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var englishNames = display.English.Languages()

// Normalize reduces a language code to its base ISO 639-1 form, so "en-US",
// "eng", and "EN" all become "en". Returns "" for unparseable input.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// DisplayName returns the English name for a language code ("de" becomes
// "German"). Unrecognized codes come back uppercased; empty input yields
// "Unknown".
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToUpper(code)
	}
	if name := englishNames.Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(code)
}

// NormalizeList normalizes codes to their base form and drops duplicates and
// unparseable entries, preserving first-seen order.
func NormalizeList(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		normalized := Normalize(code)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

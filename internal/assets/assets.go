// Package assets recovers the underlying base asset from traded
// instrument codes. It is the single normalization used everywhere two
// legs are compared on the same underlying.
package assets

import (
	"regexp"
	"strings"
)

// futuresPrefixes are the recognized futures roots. Codes starting with
// one of these embed the expiry series directly after the 3-character
// prefix, so the prefix itself is the base asset.
var futuresPrefixes = []string{"WIN", "WDO", "DOL"}

// knownRoots maps 4-letter roots to their canonical underlying ticker.
// Both the option-series rule and the class-digit rule reduce a code to
// its root, so "PETRA17" and "PETR4" land on the same entry.
var knownRoots = map[string]string{
	"PETR": "PETR4",
	"VALE": "VALE3",
	"ITUB": "ITUB4",
	"BBDC": "BBDC4",
	"BBAS": "BBAS3",
	"ABEV": "ABEV3",
	"MGLU": "MGLU3",
	"WEGE": "WEGE3",
	"B3SA": "B3SA3",
	"BOVA": "BOVA11",
}

var (
	// option series code: root + series letter + strike digits, e.g. PETRA17
	optionCode = regexp.MustCompile(`^([A-Z]{4,})([A-Z])(\d{2,})$`)
	// plain ticker with share-class/lot digits, e.g. VALE3, BOVA11
	classDigits = regexp.MustCompile(`^([A-Z]{4,})(\d{1,2})$`)
)

// Underlying returns the base asset for an instrument code. It is
// deterministic and side-effect-free: recognized futures codes truncate
// to their 3-character prefix, option codes strip the series suffix and
// map the root through the known-roots table, plain tickers with class
// digits map through the same table, and anything else comes back
// unchanged.
func Underlying(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return c
	}

	for _, prefix := range futuresPrefixes {
		if strings.HasPrefix(c, prefix) {
			return c[:3]
		}
	}

	if m := optionCode.FindStringSubmatch(c); m != nil {
		root := m[1]
		if ticker, ok := knownRoots[root]; ok {
			return ticker
		}
		return root
	}

	if m := classDigits.FindStringSubmatch(c); m != nil {
		if ticker, ok := knownRoots[m[1]]; ok {
			return ticker
		}
		return c
	}

	return c
}

// SameUnderlying reports whether the sibling trades on the same base
// asset as the leg. Normalized-base equality is tried first, then a raw
// prefix match, because some data sources report only the traded code
// rather than the normalized base.
func SameUnderlying(legAsset, siblingAsset string) bool {
	base := Underlying(legAsset)
	if base == Underlying(siblingAsset) {
		return true
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(siblingAsset)), base)
}

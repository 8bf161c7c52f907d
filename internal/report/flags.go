package report

import (
	"strings"

	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

// markerPhrases are scanned case-insensitively in collected section payloads.
// A match becomes a red flag even when the synthesis model missed it.
var markerPhrases = []string{
	"procédure collective",
	"redressement judiciaire",
	"liquidation judiciaire",
	"cessation de paiement",
	"radiation",
	"red flag",
	"⚠️",
}

// ScanRedFlags returns one red flag per marker phrase found in any section
// payload, in markerPhrases order.
func ScanRedFlags(sections []models.Section) []string {
	var corpus strings.Builder
	for _, sec := range sections {
		if sec.Kind == models.SectionSynthesis {
			continue
		}
		corpus.Write(sec.Payload)
		corpus.WriteByte('\n')
	}
	haystack := strings.ToLower(corpus.String())

	var flags []string
	for _, phrase := range markerPhrases {
		if strings.Contains(haystack, strings.ToLower(phrase)) {
			flags = append(flags, "Mention détectée dans les sources: "+phrase)
		}
	}
	return flags
}

// mergeRedFlags combines model-reported and scanner-detected flags, dropping
// duplicates while keeping first-seen order.
func mergeRedFlags(fromModel, fromScan []string) []string {
	seen := make(map[string]bool, len(fromModel)+len(fromScan))
	merged := make([]string, 0, len(fromModel)+len(fromScan))
	for _, f := range append(append([]string{}, fromModel...), fromScan...) {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		merged = append(merged, f)
	}
	return merged
}

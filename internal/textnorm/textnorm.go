// Package textnorm normalizes scraped text fragments.
//
// The fan-club site mixes full-width and half-width alphanumerics freely
// and pads cell contents with newlines, so every text fragment goes
// through Clean before any parsing or identity comparison.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Clean strips newlines and surrounding whitespace and folds full-width
// alphanumerics and punctuation to their half-width forms. Half-width
// katakana is folded to full-width by the same mapping and recomposed to
// NFC, so voiced kana come out precomposed the way the site writes them.
// Event identity is exact string equality, so every fragment must reach
// one canonical form here. Clean is pure and always succeeds.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\n", "")
	text = strings.TrimSpace(text)
	return norm.NFC.String(width.Fold.String(text))
}

// FoldWidth applies the same folding and recomposition as Clean but keeps
// line structure intact. Article bodies go through this so date patterns
// match regardless of digit width while paragraph breaks survive for
// section scoping.
func FoldWidth(text string) string {
	return norm.NFC.String(width.Fold.String(text))
}

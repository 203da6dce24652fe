package display

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

var titleCaser = cases.Title(language.English)

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return WrapWidth(text, DefaultWidth)
}

func WrapWidth(text string, width int) string {
	return wordwrap.String(text, width)
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Title title-cases every word of s.
func Title(s string) string {
	return titleCaser.String(s)
}

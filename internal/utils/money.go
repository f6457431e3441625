package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatGBP renders a price the way the catalog displays it, e.g. £9.99.
func FormatGBP(v float64) string {
	return message.NewPrinter(language.BritishEnglish).Sprintf("£%.2f", v)
}

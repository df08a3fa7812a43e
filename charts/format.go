package charts

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatNumber groups thousands and drops the decimals of whole numbers: 1234 -> "1,234",
// 1234.5 -> "1,234.50".
func FormatNumber(v float64) string {
	p := message.NewPrinter(language.English)
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return p.Sprintf("%d", int64(v))
	}
	return p.Sprintf("%.2f", v)
}

// FormatWeight always prints two decimals: 1234 -> "1,234.00".
func FormatWeight(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", v)
}

package currency

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultMarket   = "en-US"
	DefaultCurrency = "USD"
)

// FormatPrice renders "USD 1,234.5" with digit grouping taken from the market.
func FormatPrice(amount float64, market, code string) string {
	tag, err := language.Parse(market)
	if err != nil {
		tag = language.AmericanEnglish
	}

	label := strings.ToUpper(strings.TrimSpace(code))
	if label == "" {
		label = DefaultCurrency
	}
	if unit, err := currency.ParseISO(label); err == nil {
		label = unit.String()
	}

	p := message.NewPrinter(tag)
	return label + " " + p.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3)))
}

// FormatDuration renders minutes as "2 hrs 30 mins", "1 hr" or "45 mins".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	rest := minutes % 60

	if hours == 0 {
		return fmt.Sprintf("%d %s", rest, unit(rest, "min"))
	}
	if rest == 0 {
		return fmt.Sprintf("%d %s", hours, unit(hours, "hr"))
	}
	return fmt.Sprintf("%d %s %d %s", hours, unit(hours, "hr"), rest, unit(rest, "min"))
}

// Zero reads as singular on result cards ("0 min").
func unit(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

// Pluralize returns word for a count of one, otherwise plural or word+"s".
func Pluralize(count int, word, plural string) string {
	if count == 1 {
		return word
	}
	if plural != "" {
		return plural
	}
	return word + "s"
}

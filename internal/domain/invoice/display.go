package invoice

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"CAD": "C$",
	"AUD": "A$",
	"NZD": "NZ$",
	"CHF": "CHF",
	"MXN": "MX$",
	"BRL": "R$",
	"COP": "COL$",
	"ZAR": "R",
	"NGN": "₦",
	"KES": "KSh",
	"KRW": "₩",
	"SGD": "S$",
	"AED": "د.إ",
	"PHP": "₱",
}

// CurrencySymbol símbolo explícito → búsqueda por código ISO → "$".
func CurrencySymbol(code, explicit string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if s, ok := currencySymbols[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return s
	}
	return "$"
}

// DaysUntilDue ceil((due − now) / 24h) con piso en 0: una factura vencida muestra 0.
func DaysUntilDue(due, now time.Time) int {
	if due.IsZero() {
		return 0
	}
	days := math.Ceil(due.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// DueCountdownLabel "N days" ("1 day" en singular).
func DueCountdownLabel(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// Initials primera letra de cada palabra, en mayúscula: "jane doe" → "JD".
func Initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

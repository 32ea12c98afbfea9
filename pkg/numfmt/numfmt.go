// Package numfmt separa el valor numérico de su representación en pantalla
// para los campos de montos: "1,234.56" se muestra, 1234.56 se calcula.
package numfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format agrupa miles con coma y fija dos decimales: 1234.5 → "1,234.50".
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return printer.Sprintf("%.2f", v)
}

// FormatDecimal igual que Format para montos decimal.
func FormatDecimal(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return Format(f)
}

// Sanitize conserva solo dígitos, comas y puntos; deja un único punto decimal
// (el primero) y concatena los dígitos que venían detrás de los demás.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',':
			b.WriteRune(r)
		case r == '.':
			if !seenDot {
				b.WriteRune(r)
				seenDot = true
			}
		}
	}
	return b.String()
}

// Parse aplica Sanitize, quita las comas y convierte a float64. Cualquier entrada no numérica vale 0.
func Parse(s string) float64 {
	s = strings.ReplaceAll(Sanitize(s), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseDecimal es Parse sin pasar por float64.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.ReplaceAll(Sanitize(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Clamp limita v a [min, max]; un límite nil no se aplica.
func Clamp(v float64, min, max *float64) float64 {
	if min != nil && v < *min {
		v = *min
	}
	if max != nil && v > *max {
		v = *max
	}
	return v
}

// Field modela un input de monto: texto crudo con foco, formateado sin foco.
// OnChange se dispara en cada Change (cada tecla), no solo al perder el foco.
type Field struct {
	Min      *float64
	Max      *float64
	OnChange func(value float64, display string)

	value   float64
	display string
	focused bool
}

// NewField crea el campo con un valor inicial ya formateado.
func NewField(value float64, min, max *float64) *Field {
	v := Clamp(value, min, max)
	return &Field{Min: min, Max: max, value: v, display: Format(v)}
}

// Focus muestra el número sin formato para editarlo.
func (f *Field) Focus() {
	f.focused = true
	if f.value == 0 {
		f.display = ""
		return
	}
	f.display = strconv.FormatFloat(f.value, 'f', -1, 64)
}

// Change procesa el texto tecleado.
func (f *Field) Change(raw string) {
	clean := Sanitize(raw)
	f.value = Clamp(Parse(clean), f.Min, f.Max)
	f.display = clean
	if f.OnChange != nil {
		f.OnChange(f.value, Format(f.value))
	}
}

// Blur reformatea a partir del valor ya limitado.
func (f *Field) Blur() {
	f.focused = false
	f.display = Format(f.value)
}

func (f *Field) Value() float64  { return f.value }
func (f *Field) Display() string { return f.display }
func (f *Field) Focused() bool   { return f.focused }

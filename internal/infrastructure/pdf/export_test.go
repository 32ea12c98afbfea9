package pdf

// HexColor expone hexColor a los tests externos.
var HexColor = hexColor

// WithPrintableCurrency expone withPrintableCurrency a los tests externos.
var WithPrintableCurrency = withPrintableCurrency

package binder

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// printableValidator rejects strings containing control characters. Prefixes
// and names end up in LIKE patterns and Content-Disposition headers, so
// anything outside the printable range is refused up front.
func printableValidator(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

package validation

import (
	"fmt"
	"strings"
	"unicode"

	validatorv10 "github.com/go-playground/validator/v10"
)

// MsgMobile is reported for any phone that fails the mobile rule.
const MsgMobile = "Enter a valid 10-digit mobile number"

func message(fe validatorv10.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "mobile":
		return MsgMobile
	case "pincode":
		return "Enter a valid 6-digit pincode"
	case "looseemail", "email":
		return "Enter a valid email address"
	case "url":
		return label + " must be a valid URL"
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	default:
		return fe.Error()
	}
}

// humanize turns "deliveryDate" into "Delivery date".
func humanize(field string) string {
	if i := strings.Index(field, "["); i > 0 {
		field = field[:i]
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

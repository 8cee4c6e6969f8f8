package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/bakery-storefront/internal/pricing"
)

var (
	mobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldErrors maps a field name to a human-readable message. Empty means valid.
type FieldErrors map[string]string

// Validator runs struct validation and renders field-keyed messages.
type Validator struct {
	v *validatorv10.Validate
}

// New returns a Validator with the storefront's custom rules registered.
func New() *Validator {
	v := validatorv10.New()

	// report json names so messages key on what the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "mobile", func(fl validatorv10.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "pincode", func(fl validatorv10.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "looseemail", func(fl validatorv10.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "notblank", func(fl validatorv10.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{v: v}
}

func mustRegister(v *validatorv10.Validate, tag string, fn validatorv10.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// IsMobile reports whether phone is a 10-digit Indian mobile number.
func IsMobile(phone string) bool {
	return mobilePattern.MatchString(phone)
}

// Struct validates any request payload. Every rule is evaluated; nothing short-circuits.
func (val *Validator) Struct(s interface{}) FieldErrors {
	return toFieldErrors(val.v.Struct(s), "")
}

// Checkout validates a checkout form.
func (val *Validator) Checkout(form CheckoutForm) FieldErrors {
	return val.Struct(form)
}

// Order validates a full checkout submission: the form, every line item, and that any
// client-supplied pricing agrees with the server's calculation.
func (val *Validator) Order(req CreateOrderRequest) FieldErrors {
	errs := val.Checkout(req.CheckoutForm)

	switch {
	case len(req.Items) == 0:
		errs["items"] = "Your cart is empty"
	case len(req.Items) > pricing.MaxItems:
		errs["items"] = fmt.Sprintf("An order can hold at most %d items", pricing.MaxItems)
	}
	for i, it := range req.Items {
		for k, msg := range toFieldErrors(val.v.Struct(it), fmt.Sprintf("items[%d].", i)) {
			errs[k] = msg
		}
	}

	if req.Pricing != nil && len(req.Items) > 0 {
		if want := pricing.Calculate(req.Items); *req.Pricing != want {
			errs["pricing"] = fmt.Sprintf("Prices have changed: expected grand total %d, got %d", want.GrandTotal, req.Pricing.GrandTotal)
		}
	}
	return errs
}

func toFieldErrors(err error, prefix string) FieldErrors {
	out := FieldErrors{}
	if err == nil {
		return out
	}
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		out["error"] = err.Error()
		return out
	}
	for _, fe := range ve {
		out[prefix+fieldKey(fe)] = message(fe)
	}
	return out
}

// fieldKey drops the root struct name from the namespace: "ProductRequest.sizes[1kg]" -> "sizes[1kg]".
func fieldKey(fe validatorv10.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/bakery-storefront/internal/pricing"
)

func validForm() CheckoutForm {
	return CheckoutForm{
		Name:         "Asha Roy",
		Phone:        "9876543210",
		Email:        "asha@example.com",
		Address:      "12 Park Street",
		Area:         "Park Street",
		Pincode:      "700001",
		DeliveryDate: "2026-10-20",
		DeliveryTime: "4pm - 6pm",
	}
}

func TestCheckout_Valid(t *testing.T) {
	v := New()

	if errs := v.Checkout(validForm()); len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestCheckout_Phone(t *testing.T) {
	v := New()
	cases := map[string]bool{
		"9876543210":  true,
		"6000000000":  true,
		"1234567890":  false, // must start 6-9
		"98765432":    false, // too short
		"98765432101": false,
		"98765x3210":  false,
		"":            false,
	}
	for phone, ok := range cases {
		form := validForm()
		form.Phone = phone
		errs := v.Checkout(form)
		if _, failed := errs["phone"]; failed == ok {
			t.Fatalf("phone %q: expected ok=%v, got errors %v", phone, ok, errs)
		}
	}
}

func TestCheckout_Pincode(t *testing.T) {
	v := New()

	form := validForm()
	form.Pincode = "70001"
	errs := v.Checkout(form)
	if errs["pincode"] != "Enter a valid 6-digit pincode" {
		t.Fatalf("expected pincode error, got %v", errs)
	}

	form.Pincode = "700001"
	if errs := v.Checkout(form); len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestCheckout_EmailOptional(t *testing.T) {
	v := New()

	form := validForm()
	form.Email = ""
	if errs := v.Checkout(form); len(errs) != 0 {
		t.Fatalf("empty email should be valid, got %v", errs)
	}

	form.Email = "not-an-email"
	if _, ok := v.Checkout(form)["email"]; !ok {
		t.Fatal("expected email error")
	}

	form.Email = "a@b"
	if _, ok := v.Checkout(form)["email"]; !ok {
		t.Fatal("expected email error for missing tld")
	}
}

func TestCheckout_AllRulesEvaluated(t *testing.T) {
	v := New()

	errs := v.Checkout(CheckoutForm{
		Name:    "   ",
		Address: "\t",
		Email:   "bad",
	})

	for _, field := range []string{"name", "phone", "email", "address", "area", "pincode", "deliveryDate", "deliveryTime"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
	if _, ok := errs["landmark"]; ok {
		t.Fatal("landmark is optional")
	}
	if errs["deliveryDate"] != "Delivery date is required" {
		t.Fatalf("unexpected message %q", errs["deliveryDate"])
	}
}

func TestOrder_PricingMismatch(t *testing.T) {
	v := New()

	items := []pricing.LineItem{{ProductID: "p1", Title: "Truffle", UnitPrice: 450, Quantity: 1}}
	stale := pricing.Summary{Subtotal: 450, DeliveryFee: 80, Tax: 22, GrandTotal: 552}

	errs := v.Order(CreateOrderRequest{CheckoutForm: validForm(), Items: items, Pricing: &stale})
	if _, ok := errs["pricing"]; !ok {
		t.Fatalf("expected pricing error, got %v", errs)
	}

	fresh := pricing.Calculate(items)
	if errs := v.Order(CreateOrderRequest{CheckoutForm: validForm(), Items: items, Pricing: &fresh}); len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestOrder_ItemsRequiredAndValidated(t *testing.T) {
	v := New()

	errs := v.Order(CreateOrderRequest{CheckoutForm: validForm()})
	if errs["items"] == "" {
		t.Fatalf("expected items error, got %v", errs)
	}

	errs = v.Order(CreateOrderRequest{
		CheckoutForm: validForm(),
		Items:        []pricing.LineItem{{ProductID: "p1", Title: "Truffle", UnitPrice: 450, Quantity: 0}},
	})
	if errs["items[0].quantity"] != "Quantity must be at least 1" {
		t.Fatalf("expected quantity error, got %v", errs)
	}
}

func TestStruct_ProductSizes(t *testing.T) {
	v := New()

	errs := v.Struct(ProductRequest{Title: "Red Velvet", Category: "cakes"})
	if _, ok := errs["sizes"]; !ok {
		t.Fatalf("expected sizes error, got %v", errs)
	}

	errs = v.Struct(ProductRequest{Title: "Red Velvet", Category: "cakes", Sizes: map[string]int64{"1kg": 900}})
	if len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestIsMobile(t *testing.T) {
	if !IsMobile("9876543210") || IsMobile("1234567890") {
		t.Fatal("IsMobile mismatch")
	}
}

func TestBindAndValidate_Writes400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"123"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req CancelRequest
	if BindAndValidate(c, &req, v) {
		t.Fatal("expected validation failure")
	}
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "validation_failed") {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	if BindAndValidate(c, &req, v) {
		t.Fatal("expected bind failure")
	}
	if !strings.Contains(w.Body.String(), "invalid_request_body") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestOrder_LineItemUpperBounds(t *testing.T) {
	v := New()

	errs := v.Order(CreateOrderRequest{
		CheckoutForm: validForm(),
		Items:        []pricing.LineItem{{ProductID: "p1", Title: "Truffle", UnitPrice: pricing.MaxUnitPrice + 1, Quantity: pricing.MaxQuantity + 1}},
	})
	if errs["items[0].unitPrice"] != "Unit price must be at most 1000000" {
		t.Fatalf("expected unitPrice bound error, got %v", errs)
	}
	if errs["items[0].quantity"] != "Quantity must be at most 999" {
		t.Fatalf("expected quantity bound error, got %v", errs)
	}
}

func TestOrder_TooManyItems(t *testing.T) {
	v := New()

	items := make([]pricing.LineItem, pricing.MaxItems+1)
	for i := range items {
		items[i] = pricing.LineItem{ProductID: "p1", Title: "Truffle", UnitPrice: 100, Quantity: 1}
	}
	errs := v.Order(CreateOrderRequest{CheckoutForm: validForm(), Items: items})
	if errs["items"] == "" {
		t.Fatalf("expected items count error, got %v", errs)
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/router-for-me/calculator-api/internal/calculator"
	"github.com/router-for-me/calculator-api/internal/models"
)

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		10:     "10.0",
		0:      "0.0",
		-3:     "-3.0",
		5.5:    "5.5",
		8.7:    "8.7",
		0.1:    "0.1",
		1e21:   "1e+21",
		-2.25:  "-2.25",
		1.0e15: "1000000000000000.0",
	}
	for in, want := range cases {
		if got := formatNumber(in); got != want {
			t.Fatalf("formatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := CurrentUser(c); ok {
		t.Fatalf("expected no current user")
	}
	SetCurrentUser(c, models.User{ID: 7, Username: "alice"})
	user, ok := CurrentUser(c)
	if !ok || user.Username != "alice" {
		t.Fatalf("unexpected current user: %+v %v", user, ok)
	}
}

func TestRespondUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondUnauthorized(c, "Could not validate credentials")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("missing bearer challenge")
	}
	if !c.IsAborted() {
		t.Fatalf("expected aborted context")
	}
}

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	if errRegister := registerValidators(v); errRegister != nil {
		t.Fatalf("register validators: %v", errRegister)
	}
	type payload struct {
		Email string `json:"email" validate:"emailaddr"`
	}
	if errValid := v.Struct(payload{Email: "alice@example.com"}); errValid != nil {
		t.Fatalf("expected valid email, got %v", errValid)
	}
	errInvalid := v.Struct(payload{Email: "invalid-email"})
	fieldErrs, ok := errInvalid.(validator.ValidationErrors)
	if !ok || len(fieldErrs) != 1 {
		t.Fatalf("expected one validation error, got %v", errInvalid)
	}
	if fieldErrs[0].Field() != "email" || fieldErrs[0].Tag() != "emailaddr" {
		t.Fatalf("unexpected field error %s/%s", fieldErrs[0].Field(), fieldErrs[0].Tag())
	}
}

func TestInvalidOperationMessage(t *testing.T) {
	_, errParse := calculator.ParseOperation(" Add")
	if errParse == nil {
		t.Fatalf("expected padded operation to be rejected")
	}
	want := "Invalid operation:  add. Use: add, subtract, multiply, divide"
	if got := invalidOperationMessage(errParse); got != want {
		t.Fatalf("invalidOperationMessage = %q, want %q", got, want)
	}
}

func TestParseUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		raw    string
		ok     bool
		status int
	}{
		{raw: "42", ok: true, status: http.StatusOK},
		{raw: "0", ok: false, status: http.StatusNotFound},
		{raw: "-3", ok: false, status: http.StatusNotFound},
		{raw: "abc", ok: false, status: http.StatusUnprocessableEntity},
		{raw: "1.5", ok: false, status: http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Params = gin.Params{{Key: "id", Value: tc.raw}}
		id, ok := parseUserID(c)
		if ok != tc.ok {
			t.Fatalf("parseUserID(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
		}
		if ok && id != 42 {
			t.Fatalf("parseUserID(%q) = %d", tc.raw, id)
		}
		if !ok && rec.Code != tc.status {
			t.Fatalf("parseUserID(%q) status = %d, want %d", tc.raw, rec.Code, tc.status)
		}
	}
}

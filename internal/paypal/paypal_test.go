package paypal

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPaymentURL(t *testing.T) {
	raw := PaymentURL("bob@example.com", decimal.RequireFromString("12.5"), "https://app.example.com")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("PaymentURL produced unparsable URL: %v", err)
	}
	q := u.Query()

	if got := q.Get("business"); got != "bob@example.com" {
		t.Errorf("business = %q, want bob@example.com", got)
	}
	if got := q.Get("amount"); got != "12.50" {
		t.Errorf("amount = %q, want 12.50", got)
	}
	if got := q.Get("currency_code"); got != "USD" {
		t.Errorf("currency_code = %q, want USD", got)
	}
	if got := q.Get("return"); got != "https://app.example.com"+SuccessMarker {
		t.Errorf("return = %q, want success marker URL", got)
	}
	if got := q.Get("cancel_return"); got != "https://app.example.com"+CancelMarker {
		t.Errorf("cancel_return = %q, want cancel marker URL", got)
	}
}

func TestClassifyReturn(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Outcome
	}{
		{"success marker", "https://app.example.com/paypal/success?tx=123", OutcomeSuccess},
		{"cancel marker", "https://app.example.com/paypal/cancel", OutcomeCancel},
		{"unrelated url", "https://www.paypal.com/checkoutnow/error", OutcomeError},
		{"empty", "", OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyReturn(tt.url); got != tt.want {
				t.Errorf("ClassifyReturn(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// Package paypal builds payment-request URLs for the hosted PayPal checkout
// and classifies the URL the embedded browser view lands on afterwards.
//
// The checkout itself is a black box: the app opens the request URL, the
// user completes or abandons payment, and the browser is eventually
// redirected to one of our marker URLs. Classification is a substring match
// on that final URL. The URL is client-observed and carries no signature, so
// it must never be the source of payment details; callers keep the amount
// and payee in a server-side session and use the URL only to pick an
// outcome.
package paypal

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is fixed; the app only settles in US dollars.
const Currency = "USD"

const checkoutBase = "https://www.paypal.com/cgi-bin/webscr"

// Marker path segments appended to the return base URL. The embedded view
// reports whichever one PayPal redirects to.
const (
	SuccessMarker = "/paypal/success"
	CancelMarker  = "/paypal/cancel"
)

// Outcome is the result derived from the final navigated URL.
type Outcome int

const (
	// OutcomeError means the final URL matched neither marker.
	OutcomeError Outcome = iota
	// OutcomeSuccess means the success marker was reached.
	OutcomeSuccess
	// OutcomeCancel means the user abandoned the checkout.
	OutcomeCancel
)

// PaymentURL builds the hosted-checkout URL for sending amount to the
// recipient's PayPal email. returnBase is this deployment's externally
// reachable base URL; the success and cancel markers are appended to it.
func PaymentURL(recipient string, amount decimal.Decimal, returnBase string) string {
	q := url.Values{}
	q.Set("cmd", "_xclick")
	q.Set("business", recipient)
	q.Set("amount", amount.StringFixed(2))
	q.Set("currency_code", Currency)
	q.Set("item_name", "Homesplit settlement")
	q.Set("return", returnBase+SuccessMarker)
	q.Set("cancel_return", returnBase+CancelMarker)
	return checkoutBase + "?" + q.Encode()
}

// ClassifyReturn derives the payment outcome from the final navigated URL.
func ClassifyReturn(finalURL string) Outcome {
	switch {
	case strings.Contains(finalURL, SuccessMarker):
		return OutcomeSuccess
	case strings.Contains(finalURL, CancelMarker):
		return OutcomeCancel
	default:
		return OutcomeError
	}
}

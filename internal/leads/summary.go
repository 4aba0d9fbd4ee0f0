// Package leads assembles captured enquiries into deliverable payloads
// and hands them to the configured delivery channels.
package leads

import (
	"fmt"
	"strings"

	"quote-service/internal/quote"
)

// Summary builds the subject line and human-readable body sent to the
// sales channel for one captured lead.
func Summary(productName string, lead quote.LeadInfo, last quote.LastQuote) (subject, body string) {
	subject = fmt.Sprintf("New quote enquiry - %s", productName)

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "City: %s\n", lead.City)
	fmt.Fprintf(&b, "Mobile: %s\n", lead.Mobile)
	if lead.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	}
	fmt.Fprintf(&b, "Product: %s\n", productName)
	if last.Total > 0 {
		fmt.Fprintf(&b, "Estimated price: %.0f\n", last.Total)
		fmt.Fprintf(&b, "Quoted range: %.0f - %.0f\n", last.Low, last.High)
	} else {
		b.WriteString("Estimated price: not computed\n")
	}
	return subject, b.String()
}

package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func rate(d decimal.Decimal) string {
	return d.Shift(2).String() + "%"
}

// String renders the non-empty address lines, one per line.
func (a Address) String() string {
	lines := []string{a.Name, a.Company, a.Street, strings.TrimSpace(a.Zip + " " + a.City), a.Country}

	var out []string
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}

	return strings.Join(out, "\n")
}

// Text renders inv as a plain-text document: billing address, client
// references, one line per item and the totals.
func Text(inv Invoice) string {
	var sb strings.Builder

	sb.WriteString(inv.Billing.String())
	sb.WriteString("\n\n")

	refs := []struct{ label, value string }{
		{"Tax ID", inv.CustomerTaxID},
		{"Order", inv.OrderNumber},
		{"Terms", inv.PaymentTerms},
		{"Delivery", inv.DeliveryNumber},
		{"Client No.", inv.ClientNumber},
	}
	for _, r := range refs {
		if r.value != "" {
			fmt.Fprintf(&sb, "%-10s %s\n", r.label, r.value)
		}
	}

	sb.WriteString("\n")

	for _, it := range inv.Items {
		fmt.Fprintf(&sb, "%-10s %-28s %6s x %8s  %5s  %10s\n",
			it.CompletedOn, it.Description, it.Count.String(), money(it.Price),
			rate(it.VATRate), money(it.Gross))
	}

	fmt.Fprintf(&sb, "\n%-10s %10s\n%-10s %10s\n%-10s %10s",
		"Net", money(inv.Net),
		"VAT", money(inv.VAT),
		"Gross", money(inv.Gross))

	return sb.String()
}

package importer

// amountMode determines how a job's amounts are read from a row.
type amountMode int

const (
	// amountItemized means a quantity and a unit price column.
	amountItemized amountMode = iota
	// amountTotal means one net amount column; the quantity is 1.
	amountTotal
)

// Profile describes the column layout of a spreadsheet export.
// Supporting another layout is adding a Profile to profiles.
type Profile struct {
	Name       string
	DateCol    string
	ClientCol  string
	DescCol    string
	AmountMode amountMode
	CountCol   string // amountItemized
	PriceCol   string // amountItemized
	AmountCol  string // amountTotal
	VATCol     string // optional in every profile
	StatusCol  string // optional in every profile
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.ClientCol, p.DescCol}

	switch p.AmountMode {
	case amountItemized:
		cols = append(cols, p.CountCol, p.PriceCol)
	case amountTotal:
		cols = append(cols, p.AmountCol)
	}

	return cols
}

// profiles is tried in order during auto-detection; more specific layouts first.
var profiles = []Profile{
	{
		Name:       "timesheet",
		DateCol:    "Date",
		ClientCol:  "Client",
		DescCol:    "Description",
		AmountMode: amountItemized,
		CountCol:   "Hours",
		PriceCol:   "Rate",
		VATCol:     "VAT",
		StatusCol:  "Status",
	},
	{
		Name:       "items",
		DateCol:    "Date",
		ClientCol:  "Client",
		DescCol:    "Description",
		AmountMode: amountItemized,
		CountCol:   "Quantity",
		PriceCol:   "Price",
		VATCol:     "VAT",
		StatusCol:  "Status",
	},
	{
		Name:       "ledger",
		DateCol:    "Date",
		ClientCol:  "Client",
		DescCol:    "Description",
		AmountMode: amountTotal,
		AmountCol:  "Amount",
		VATCol:     "VAT",
		StatusCol:  "Status",
	},
}

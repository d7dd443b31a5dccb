package view

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/jobbook/internal/csvcodec"
)

// FormatMoney renders an amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatRate renders a VAT rate such as 0.19 as "19%".
func FormatRate(d decimal.Decimal) string {
	return d.Shift(2).String() + "%"
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Form field validators. Values end up in a CSV row, so separators are
// refused up front.

func safeText(required bool) func(string) error {
	return func(s string) error {
		if required && strings.TrimSpace(s) == "" {
			return errors.New("required")
		}

		if strings.ContainsAny(s, csvcodec.FieldSep+csvcodec.RowSep+"\r") {
			return errors.New("must not contain commas or line breaks")
		}

		return nil
	}
}

func decimalText(s string) error {
	if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
		return errors.New("not a number")
	}

	return nil
}

func dateText(required bool) func(string) error {
	return func(s string) error {
		if s == "" && !required {
			return nil
		}

		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return errors.New("use YYYY-MM-DD")
		}

		return nil
	}
}

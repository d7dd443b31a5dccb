package csvcodec

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Fields reads positional values out of a decoded row. Names are used only
// for error messages.
type Fields struct {
	row   []string
	names []string
}

func NewFields(row []string, names ...string) Fields {
	return Fields{row: row, names: names}
}

func (f Fields) name(i int) string {
	if i < len(f.names) {
		return f.names[i]
	}

	return strconv.Itoa(i)
}

func (f Fields) fail(i int, value string, err error) *RowError {
	return &RowError{Line: -1, Field: i, Name: f.name(i), Value: value, Err: err}
}

// String returns a required field.
func (f Fields) String(i int) (string, error) {
	if i >= len(f.row) {
		return "", f.fail(i, "", ErrMalformedRow)
	}

	return f.row[i], nil
}

// Optional returns the field, or "" when the row is too short to hold it.
func (f Fields) Optional(i int) string {
	if i >= len(f.row) {
		return ""
	}

	return f.row[i]
}

func (f Fields) Int(i int) (int, error) {
	s, err := f.String(i)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, f.fail(i, s, ErrInvalidNumber)
	}

	return n, nil
}

// Decimal parses a finite, locale independent decimal ("1234.5").
func (f Fields) Decimal(i int) (decimal.Decimal, error) {
	s, err := f.String(i)
	if err != nil {
		return decimal.Zero, err
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, f.fail(i, s, ErrInvalidNumber)
	}

	return d, nil
}

// Enum matches the field against the display strings of members exactly.
func Enum[E ~string](f Fields, i int, members ...E) (E, error) {
	s, err := f.String(i)
	if err != nil {
		return "", err
	}

	for _, m := range members {
		if string(m) == s {
			return m, nil
		}
	}

	return "", f.fail(i, s, ErrInvalidEnumValue)
}

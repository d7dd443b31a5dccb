// Package csvcodec converts typed records to comma separated rows and back.
//
// The format is deliberately minimal: fields joined by ',' and rows by '\n',
// no header and no quoting. Field values must therefore never contain ','
// or '\n'; Validate reports values that would break the layout.
package csvcodec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const (
	FieldSep = ","
	RowSep   = "\n"
)

var (
	ErrMalformedRow     = errors.New("malformed row")
	ErrInvalidNumber    = errors.New("invalid number")
	ErrInvalidEnumValue = errors.New("invalid enum value")
	ErrUnsafeValue      = errors.New("value contains a separator")
)

// Codec maps one record type to a positional row.
type Codec[T any] interface {
	EncodeRow(T) []string
	DecodeRow([]string) (T, error)
}

// RowError describes a single field that failed to decode.
// Line is the 0-based line index in the collection, -1 when decoding a lone row.
type RowError struct {
	Path  string
	Line  int
	Field int
	Name  string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	var sb strings.Builder

	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}

	if e.Line >= 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}

	fmt.Fprintf(&sb, "field %d (%s) %q: %v", e.Field, e.Name, e.Value, e.Err)

	return sb.String()
}

func (e *RowError) Unwrap() error { return e.Err }

// Encode serialises records into the collection format.
func Encode[T any](codec Codec[T], records []T) []byte {
	var buf bytes.Buffer

	for i, r := range records {
		if i > 0 {
			buf.WriteString(RowSep)
		}

		buf.WriteString(strings.Join(codec.EncodeRow(r), FieldSep))
	}

	return buf.Bytes()
}

// Decode parses a whole collection. Blank lines are skipped; the first line
// that fails to decode aborts the whole collection.
func Decode[T any](path string, codec Codec[T], data []byte) ([]T, error) {
	lines := strings.Split(string(data), RowSep)
	records := make([]T, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		r, err := codec.DecodeRow(strings.Split(line, FieldSep))
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				rowErr.Path = path
				rowErr.Line = i

				return nil, rowErr
			}

			return nil, fmt.Errorf("%s: line %d: %w", path, i, err)
		}

		records = append(records, r)
	}

	return records, nil
}

// Validate checks that none of the row's values would corrupt the layout.
func Validate(row []string) error {
	for i, v := range row {
		if strings.ContainsAny(v, FieldSep+RowSep+"\r") {
			return &RowError{Line: -1, Field: i, Value: v, Err: ErrUnsafeValue}
		}
	}

	return nil
}

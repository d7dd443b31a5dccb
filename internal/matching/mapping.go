// Package matching rewrites raw job descriptions into preferred ones using
// learned substring patterns.
package matching

import (
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/jobbook/internal/csvcodec"
)

// Path is the default blob path of the mappings collection.
const Path = "descriptions.csv"

// Mapping replaces any description containing Pattern (case-insensitive)
// with Preferred.
type Mapping struct {
	ID        int
	Pattern   string
	Preferred string
}

func (m *Mapping) GetID() int   { return m.ID }
func (m *Mapping) SetID(id int) { m.ID = id }

func (m Mapping) matches(description string) bool {
	return strings.Contains(strings.ToLower(description), strings.ToLower(m.Pattern))
}

var columns = []string{"id", "pattern", "preferred"}

type Codec struct{}

func (Codec) EncodeRow(m Mapping) []string {
	return []string{strconv.Itoa(m.ID), m.Pattern, m.Preferred}
}

func (Codec) DecodeRow(row []string) (Mapping, error) {
	f := csvcodec.NewFields(row, columns...)

	var (
		m   Mapping
		err error
	)

	if m.ID, err = f.Int(0); err != nil {
		return Mapping{}, err
	}

	if m.Pattern, err = f.String(1); err != nil {
		return Mapping{}, err
	}

	if m.Preferred, err = f.String(2); err != nil {
		return Mapping{}, err
	}

	return m, nil
}

func Validate(m Mapping) error {
	return csvcodec.Validate(Codec{}.EncodeRow(m))
}

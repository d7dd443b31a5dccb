// Package importer turns spreadsheet exports of past work into jobs.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/jobbook/internal/encoding"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

var ErrUnknownLayout = errors.New("no matching spreadsheet layout")

// dateLayouts are accepted in order; the first is the stored form.
var dateLayouts = []string{time.DateOnly, "02-01-2006", "02.01.2006", "02/01/2006"}

// Row is one parsed job together with the client name it refers to.
// Line is 1-based in the original file.
type Row struct {
	Line       int
	ClientName string
	Job        job.Job
}

// Parser reads semicolon or comma separated exports. The layout is
// auto-detected by matching column headers against known profiles; any
// preamble before the header is ignored.
type Parser struct {
	// DefaultVAT applies when the layout has no VAT column or the cell is empty.
	DefaultVAT decimal.Decimal
}

func NewParser(defaultVAT decimal.Decimal) *Parser {
	return &Parser{DefaultVAT: defaultVAT}
}

func (p *Parser) Parse(data []byte) ([]Row, error) {
	text, err := enc.ToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []record

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, record{line: line, fields: fields})
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrUnknownLayout
	}

	return p.parseRows(profile, cols, rows[headerIdx+1:])
}

// record is a csv row with its 1-based line in the file. Blank lines are
// skipped by the reader, so positions cannot be derived from the index.
type record struct {
	line   int
	fields []string
}

// sniffDelimiter picks ';' unless the first non-empty line has more commas.
func sniffDelimiter(text []byte) rune {
	for line := range strings.SplitSeq(string(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.Count(line, ",") > strings.Count(line, ";") {
			return ','
		}

		break
	}

	return ';'
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func (c colIndex) index(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

// detectProfile scans rows for a header that matches a known profile and
// returns it with its column map and header row index.
func detectProfile(rows []record) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row.fields {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a parsable date (footers, subtotals) and
// fails on rows that have a date but broken content.
func (p *Parser) parseRows(profile *Profile, cols colIndex, rows []record) ([]Row, error) {
	var out []Row

	for _, rec := range rows {
		line, row := rec.line, rec.fields

		date, ok := parseDate(cellValue(row, cols.index(profile.DateCol)))
		if !ok {
			continue
		}

		j := job.Job{
			Date:        date,
			Description: cellValue(row, cols.index(profile.DescCol)),
			Status:      job.StatusInProgress,
		}

		clientName := cellValue(row, cols.index(profile.ClientCol))

		switch {
		case clientName == "":
			return nil, fmt.Errorf("row %d: missing client", line)
		case j.Description == "":
			return nil, fmt.Errorf("row %d: missing description", line)
		}

		if err := p.parseAmounts(profile, cols, row, &j); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		if s := cellValue(row, cols.index(profile.StatusCol)); s != "" {
			st, err := job.ParseStatus(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}

			j.Status = st
		}

		out = append(out, Row{Line: line, ClientName: clientName, Job: j})
	}

	return out, nil
}

func (p *Parser) parseAmounts(profile *Profile, cols colIndex, row []string, j *job.Job) error {
	var err error

	switch profile.AmountMode {
	case amountItemized:
		if j.Count, err = parseAmount(cellValue(row, cols.index(profile.CountCol))); err != nil {
			return fmt.Errorf("%s: %w", profile.CountCol, err)
		}

		if j.Price, err = parseAmount(cellValue(row, cols.index(profile.PriceCol))); err != nil {
			return fmt.Errorf("%s: %w", profile.PriceCol, err)
		}
	case amountTotal:
		j.Count = decimal.NewFromInt(1)
		if j.Price, err = parseAmount(cellValue(row, cols.index(profile.AmountCol))); err != nil {
			return fmt.Errorf("%s: %w", profile.AmountCol, err)
		}
	}

	j.VAT = p.DefaultVAT
	if s := cellValue(row, cols.index(profile.VATCol)); s != "" {
		if j.VAT, err = parseRate(s); err != nil {
			return fmt.Errorf("%s: %w", profile.VATCol, err)
		}
	}

	j.Recalculate()

	return nil
}

// parseDate returns the date in the stored YYYY-MM-DD form.
func parseDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), true
		}
	}

	return "", false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

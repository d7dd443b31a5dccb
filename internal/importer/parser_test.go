package importer_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/jobbook/internal/importer"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newParser() *importer.Parser {
	return importer.NewParser(dec("0.19"))
}

func TestParser_Timesheet(t *testing.T) {
	csv := `Timesheet export;March 2024
Owner;Jane

Date;Client;Description;Hours;Rate;VAT;Status
01-03-2024;Acme;Audit;2;50,00;19;Invoice Pending
2024-03-05;Globex;Setup;1,5;1.200,00;;
Total;;;3,5;;;
`

	rows, err := newParser().Parse([]byte(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 5, rows[0].Line)
	assert.Equal(t, "Acme", rows[0].ClientName)
	assert.Equal(t, "2024-03-01", rows[0].Job.Date)
	assert.Equal(t, "Audit", rows[0].Job.Description)
	assert.True(t, dec("100").Equal(rows[0].Job.Net))
	assert.True(t, dec("119").Equal(rows[0].Job.Gross))
	assert.Equal(t, job.StatusInvoicePending, rows[0].Job.Status)

	assert.Equal(t, "Globex", rows[1].ClientName)
	assert.True(t, dec("1800").Equal(rows[1].Job.Net))
	assert.True(t, dec("0.19").Equal(rows[1].Job.VAT), "default rate applies to empty cells")
	assert.Equal(t, job.StatusInProgress, rows[1].Job.Status)
}

func TestParser_LedgerCommaSeparated(t *testing.T) {
	csv := "Description,Client,Date,Amount\n" +
		"\"Retainer, March\",Acme,31.03.2024,500.5\n"

	rows, err := newParser().Parse([]byte(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Retainer, March", rows[0].Job.Description)
	assert.Equal(t, "2024-03-31", rows[0].Job.Date)
	assert.True(t, dec("1").Equal(rows[0].Job.Count))
	assert.True(t, dec("500.5").Equal(rows[0].Job.Net))
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Date;Client;Description;Quantity;Price\n01-03-2024;Café Central;Caféteria menu;1;10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	rows, err := newParser().Parse(latin1Bytes)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Café Central", rows[0].ClientName)
}

func TestParser_Errors(t *testing.T) {
	type testCase struct {
		name    string
		csv     string
		wantErr string
	}

	tests := []testCase{
		{
			name:    "empty file",
			csv:     "",
			wantErr: importer.ErrUnknownLayout.Error(),
		},
		{
			name:    "missing client",
			csv:     "Date;Client;Description;Amount\n01-03-2024;;Audit;10\n",
			wantErr: "row 2: missing client",
		},
		{
			name:    "missing description",
			csv:     "Date;Client;Description;Amount\n01-03-2024;Acme;;10\n",
			wantErr: "row 2: missing description",
		},
		{
			name:    "bad amount",
			csv:     "Date;Client;Description;Amount\n01-03-2024;Acme;Audit;ten\n",
			wantErr: "row 2: Amount",
		},
		{
			name:    "bad status",
			csv:     "Date;Client;Description;Amount;Status\n01-03-2024;Acme;Audit;10;Paid\n",
			wantErr: "row 2: invalid enum value",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newParser().Parse([]byte(tc.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParser_HeaderOnly(t *testing.T) {
	rows, err := newParser().Parse([]byte("Date;Client;Description;Amount"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

package matching_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/jobbook/internal/blob/memory"
	"github.com/MrJamesThe3rd/jobbook/internal/csvcodec"
	"github.com/MrJamesThe3rd/jobbook/internal/matching"
	"github.com/MrJamesThe3rd/jobbook/internal/store"
)

func newService(t *testing.T, seed string) (*matching.Service, *memory.Transport) {
	t.Helper()

	ctx := context.Background()
	transport := memory.New()

	if seed != "" {
		require.NoError(t, transport.Upload(ctx, matching.Path, []byte(seed)))
	}

	s := store.NewCSV(transport, matching.Path, matching.Codec{}, []matching.Mapping{}, store.WithSaveDelay(time.Hour))
	s.Load(ctx)
	t.Cleanup(s.Close)

	return matching.NewService(s), transport
}

func TestService_Suggest(t *testing.T) {
	svc, _ := newService(t, "1,audit,Annual audit\n2,AUDIT Q,Quarterly audit\n3,review,Code review\n4,audit q,Quarter audit")

	type testCase struct {
		name string
		raw  string
		want string
	}

	tests := []testCase{
		{name: "no match", raw: "Workshop", want: ""},
		{name: "case insensitive", raw: "Yearly AUDIT 2024", want: "Annual audit"},
		{name: "longest pattern wins", raw: "audit q1", want: "Quarter audit"},
		{name: "single match", raw: "PR Review", want: "Code review"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, svc.Suggest(tc.raw))
		})
	}
}

func TestService_Learn(t *testing.T) {
	ctx := context.Background()
	svc, transport := newService(t, "")

	m, err := svc.Learn("  hotfix ", "Emergency fix")
	require.NoError(t, err)
	assert.Equal(t, matching.Mapping{ID: 1, Pattern: "hotfix", Preferred: "Emergency fix"}, m)
	assert.Equal(t, "Emergency fix", svc.Suggest("HOTFIX for login"))

	_, err = svc.Learn("", "x")
	assert.ErrorIs(t, err, matching.ErrEmptyPattern)

	_, err = svc.Learn("a,b", "x")
	assert.ErrorIs(t, err, csvcodec.ErrUnsafeValue)

	_, err = transport.Download(ctx, matching.Path)
	assert.Error(t, err, "nothing is written before the debounce expires")
}

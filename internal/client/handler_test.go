package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/jobbook/internal/blob/memory"
	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/store"
)

func newHandler(t *testing.T, seed string) (*client.Handler, *memory.Transport, *store.Persistent[[]client.Client]) {
	t.Helper()

	ctx := context.Background()
	transport := memory.New()

	if seed != "" {
		require.NoError(t, transport.Upload(ctx, client.Path, []byte(seed)))
	}

	s := store.NewCSV[client.Client](transport, client.Path, client.Codec{}, []client.Client{}, store.WithSaveDelay(time.Hour))
	s.Load(ctx)
	t.Cleanup(s.Close)

	return client.NewHandler(s), transport, s
}

func TestHandler_AddToEmptyStore(t *testing.T) {
	h, _, _ := newHandler(t, "")

	acme := client.Client{ID: 0, Name: "Acme"}
	id := h.Add(&acme)

	assert.Equal(t, 1, id)
	assert.Equal(t, 1, acme.ID)
	assert.Equal(t, []client.Client{{ID: 1, Name: "Acme"}}, h.All())
}

func TestHandler_GetByName(t *testing.T) {
	h, _, _ := newHandler(t, "1,Acme\n2,Globex\n3,Acme")

	got, ok := h.GetByName("Acme")
	require.True(t, ok)
	assert.Equal(t, 1, got.ID, "first inserted match wins")

	_, ok = h.GetByName("acme")
	assert.False(t, ok)

	byID, ok := h.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Globex", byID.Name)
}

func TestHandler_PersistsThroughTransport(t *testing.T) {
	ctx := context.Background()
	h, transport, s := newHandler(t, "1,Acme")

	h.Add(&client.Client{Name: "Globex", City: "Springfield"})
	require.True(t, h.Set(client.Client{ID: 1, Name: "Acme Corp"}))
	require.NoError(t, s.Save(ctx))

	data, err := transport.Download(ctx, client.Path)
	require.NoError(t, err)
	assert.Equal(t, "1,Acme Corp,,,,,,,,,,\n2,Globex,,,,Springfield,,,,,,", string(data))
}

func TestHandler_UpsertComposition(t *testing.T) {
	h, _, _ := newHandler(t, "")

	c := client.Client{Name: "New"}
	if !h.Set(c) {
		h.Add(&c)
	}

	assert.Equal(t, 1, c.ID)
	assert.Len(t, h.All(), 1)

	c.Name = "Renamed"
	assert.True(t, h.Set(c))
	assert.Equal(t, []client.Client{{ID: 1, Name: "Renamed"}}, h.All())
}

func TestHandler_LoadedFlag(t *testing.T) {
	s := store.NewCSV[client.Client](memory.New(), client.Path, client.Codec{}, client.Defaults)
	h := client.NewHandler(s)

	assert.False(t, h.Loaded())

	s.Load(context.Background())

	assert.True(t, h.Loaded())
	assert.Equal(t, client.Defaults, h.All())
}

package client

import (
	"github.com/MrJamesThe3rd/jobbook/internal/entity"
	"github.com/MrJamesThe3rd/jobbook/internal/store"
)

// Handler is the CRUD facade over the clients collection. Construct it once
// per store and pass it to whoever needs it.
type Handler struct {
	entity.Handler[Client, *Client]
}

func NewHandler(s *store.Persistent[[]Client]) *Handler {
	return &Handler{Handler: entity.NewHandler[Client](s)}
}

// GetByName returns the first client whose name matches exactly. Names are
// not unique; with duplicates the earliest inserted client wins.
func (h *Handler) GetByName(name string) (Client, bool) {
	return h.Find(func(c Client) bool { return c.Name == name })
}

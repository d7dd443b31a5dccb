package job

import (
	"github.com/MrJamesThe3rd/jobbook/internal/entity"
	"github.com/MrJamesThe3rd/jobbook/internal/store"
)

// Handler is the CRUD facade over the jobs collection.
type Handler struct {
	entity.Handler[Job, *Job]
}

func NewHandler(s *store.Persistent[[]Job]) *Handler {
	return &Handler{Handler: entity.NewHandler[Job](s)}
}

func (h *Handler) ByStatus(status Status) []Job {
	return h.Filter(func(j Job) bool { return j.Status == status })
}

func (h *Handler) ByClient(clientID int) []Job {
	return h.Filter(func(j Job) bool { return j.ClientID == clientID })
}

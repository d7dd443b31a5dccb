package matching

import (
	"errors"
	"strings"

	"github.com/MrJamesThe3rd/jobbook/internal/entity"
	"github.com/MrJamesThe3rd/jobbook/internal/store"
)

var ErrEmptyPattern = errors.New("pattern and preferred description are required")

type Service struct {
	entity.Handler[Mapping, *Mapping]
}

func NewService(s *store.Persistent[[]Mapping]) *Service {
	return &Service{Handler: entity.NewHandler[Mapping](s)}
}

// Suggest returns the preferred description for raw, or "" when nothing
// matches. The longest pattern wins; among equal lengths the newest one.
func (s *Service) Suggest(raw string) string {
	var best *Mapping

	for _, m := range s.All() {
		if !m.matches(raw) {
			continue
		}

		if best == nil || len(m.Pattern) > len(best.Pattern) ||
			(len(m.Pattern) == len(best.Pattern) && m.ID > best.ID) {
			best = &m
		}
	}

	if best == nil {
		return ""
	}

	return best.Preferred
}

// Learn remembers a mapping and returns it with its assigned id.
func (s *Service) Learn(pattern, preferred string) (Mapping, error) {
	m := Mapping{Pattern: strings.TrimSpace(pattern), Preferred: strings.TrimSpace(preferred)}
	if m.Pattern == "" || m.Preferred == "" {
		return Mapping{}, ErrEmptyPattern
	}

	if err := Validate(m); err != nil {
		return Mapping{}, err
	}

	s.Add(&m)

	return m, nil
}

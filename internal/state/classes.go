package state

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/events"
	"github.com/Zeyad-Azima/GymFit/internal/observability"
)

// Classes lists the schedule, optionally filtered by type. An empty type
// returns every class.
func (s *Store) Classes(classType domain.ClassType) []domain.Class {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Class, 0, len(s.classes))
	for _, c := range s.classes {
		if classType == "" || c.Type == classType {
			out = append(out, c)
		}
	}
	return out
}

// BookClass toggles the booking for a class and returns the updated class.
func (s *Store) BookClass(ctx context.Context, classID int64) (domain.Class, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.classes {
		if s.classes[i].ID == classID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Class{}, domain.ErrClassNotFound
	}
	if err := s.classes[idx].ToggleBooking(); err != nil {
		s.mu.Unlock()
		return domain.Class{}, err
	}
	class := s.classes[idx]
	s.mu.Unlock()

	eventType := events.TypeClassUnbooked
	if class.IsBooked {
		eventType = events.TypeClassBooked
	}
	observability.RecordAction("book_class")
	s.logger.InfoContext(ctx, "class booking toggled",
		slog.Int64("class_id", class.ID),
		slog.Bool("booked", class.IsBooked),
		slog.Int("spots", class.Spots),
	)
	s.publish(ctx, eventType, "class", strconv.FormatInt(class.ID, 10), events.ClassBooking{
		ClassID:  class.ID,
		Title:    class.Title,
		IsBooked: class.IsBooked,
		Spots:    class.Spots,
	})
	return class, nil
}

package state

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/events"
	"github.com/Zeyad-Azima/GymFit/internal/observability"
)

// Trainers lists the chat contacts.
func (s *Store) Trainers() []domain.Trainer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Trainer(nil), s.trainers...)
}

// Messages returns one conversation in the order messages were appended.
func (s *Store) Messages(trainerID int64) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.trainerIndex(trainerID) < 0 {
		return nil, domain.ErrTrainerNotFound
	}
	out := make([]domain.Message, 0)
	for _, m := range s.messages {
		if m.TrainerID == trainerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) trainerIndex(trainerID int64) int {
	for i := range s.trainers {
		if s.trainers[i].ID == trainerID {
			return i
		}
	}
	return -1
}

func conversationKey(trainerID int64) string {
	return "trainer:" + strconv.FormatInt(trainerID, 10)
}

// SendMessage appends a user message and schedules one simulated trainer
// reply after the reply delay. A later message does not cancel an earlier
// reply, so replies may land after newer user messages.
func (s *Store) SendMessage(ctx context.Context, trainerID int64, text string) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}

	s.mu.Lock()
	if s.trainerIndex(trainerID) < 0 {
		s.mu.Unlock()
		return domain.Message{}, domain.ErrTrainerNotFound
	}
	msg := domain.Message{
		ID:        uuid.NewString(),
		TrainerID: trainerID,
		Text:      text,
		IsUser:    true,
		Timestamp: s.now().UTC(),
	}
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	observability.RecordAction("send_message")
	s.publish(ctx, events.TypeMessageSent, "trainer", strconv.FormatInt(trainerID, 10), chatPayload(msg))

	if err := s.replies.Schedule(conversationKey(trainerID), s.replyDelay, func() {
		s.deliverReply(trainerID)
	}); err != nil {
		s.logger.WarnContext(ctx, "trainer reply not scheduled", slog.Int64("trainer_id", trainerID), slog.Any("error", err))
	}
	return msg, nil
}

func (s *Store) deliverReply(trainerID int64) {
	ctx := context.Background()

	s.mu.Lock()
	idx := s.trainerIndex(trainerID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	reply := domain.Message{
		ID:        uuid.NewString(),
		TrainerID: trainerID,
		Text:      domain.TrainerReplies[s.intn(len(domain.TrainerReplies))],
		Timestamp: s.now().UTC(),
	}
	s.messages = append(s.messages, reply)
	s.trainers[idx].LastMessage = reply.Text
	s.trainers[idx].LastMessageAt = reply.Timestamp
	s.trainers[idx].Unread = true
	s.mu.Unlock()

	observability.RecordReplyDelivered("trainer")
	s.logger.DebugContext(ctx, "trainer reply delivered", slog.Int64("trainer_id", trainerID))
	s.publish(ctx, events.TypeMessageReplied, "trainer", strconv.FormatInt(trainerID, 10), chatPayload(reply))
}

func chatPayload(m domain.Message) events.ChatMessage {
	return events.ChatMessage{
		MessageID: m.ID,
		TrainerID: m.TrainerID,
		IsUser:    m.IsUser,
		Text:      m.Text,
		SentAt:    m.Timestamp,
	}
}

// PendingReplies reports how many trainer replies are still scheduled.
func (s *Store) PendingReplies(trainerID int64) int {
	return s.replies.Pending(conversationKey(trainerID))
}

// CloseConversation cancels the replies still pending for a trainer and
// returns how many were dropped.
func (s *Store) CloseConversation(ctx context.Context, trainerID int64) (int, error) {
	s.mu.RLock()
	known := s.trainerIndex(trainerID) >= 0
	s.mu.RUnlock()
	if !known {
		return 0, domain.ErrTrainerNotFound
	}

	n := s.replies.Cancel(conversationKey(trainerID))
	observability.RecordRepliesCancelled("trainer", n)
	s.logger.DebugContext(ctx, "conversation closed", slog.Int64("trainer_id", trainerID), slog.Int("cancelled", n))
	return n, nil
}

// MarkConversationRead clears the unread flag for a trainer.
func (s *Store) MarkConversationRead(ctx context.Context, trainerID int64) (domain.Trainer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.trainerIndex(trainerID)
	if idx < 0 {
		return domain.Trainer{}, domain.ErrTrainerNotFound
	}
	s.trainers[idx].Unread = false
	return s.trainers[idx], nil
}

// CallTrainer is a placeholder for the voice call integration.
func (s *Store) CallTrainer(ctx context.Context, trainerID int64) error {
	s.logger.DebugContext(ctx, "call trainer requested", slog.Int64("trainer_id", trainerID))
	return nil
}

// VideoCallTrainer is a placeholder for the video call integration.
func (s *Store) VideoCallTrainer(ctx context.Context, trainerID int64) error {
	s.logger.DebugContext(ctx, "video call requested", slog.Int64("trainer_id", trainerID))
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telegram-reminder-bot/internal/domain"
	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/domain/ports/repository"
	"telegram-reminder-bot/internal/domain/timeparse"

	"github.com/rs/zerolog"
)

const (
	replyAskText      = "What should I remind you about?"
	replyAskTime      = "When should I remind you? For example: \"in 30 minutes\", \"18:00\" or \"2025-10-07 09:00\"."
	replyTimeNotFound = "I could not understand the time. Try \"in 5 minutes\", \"tomorrow at 10\" or \"2025-10-07 09:00\"."
	replyTimeInPast   = "That time has already passed. Give me a time in the future."
	replyFlowAborted  = "Okay, cancelled."
	replyNoFlow       = "Nothing to cancel. Use /cancel <id> to cancel a reminder from /list."
)

// Compile-time check
var _ ConversationUseCase = (*conversationUC)(nil)

// ConversationUseCase drives the per-user creation state machine. Two entry
// points exist on purpose: free text in the idle state that already carries a
// time expression creates the reminder in a single turn, while /new walks the
// user through text and time in separate messages.
type ConversationUseCase interface {
	HandleText(ctx context.Context, userID, chatID int64, text string) (string, error)
	BeginGuided(ctx context.Context, userID, chatID int64) (string, error)
	// AbortFlow discards any in-progress guided flow. The second return value
	// reports whether there was a flow to abort.
	AbortFlow(ctx context.Context, userID int64) (string, bool, error)
}

type conversationUC struct {
	sessions  repository.SessionRepository
	reminders ReminderUseCase
	zone      *time.Location
	log       *zerolog.Logger
	now       func() time.Time
}

func NewConversationUseCase(sessions repository.SessionRepository, reminders ReminderUseCase, zone *time.Location, logger *zerolog.Logger) *conversationUC {
	if zone == nil {
		zone = time.UTC
	}
	ucLog := logger.With().Str("component", "ConversationUC").Logger()
	return &conversationUC{
		sessions:  sessions,
		reminders: reminders,
		zone:      zone,
		log:       &ucLog,
		now:       time.Now,
	}
}

func (u *conversationUC) HandleText(ctx context.Context, userID, chatID int64, text string) (string, error) {
	sess, err := u.sessions.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	state := model.ConversationIdle
	if sess != nil {
		state = sess.State
	}

	switch state {
	case model.ConversationAwaitingText:
		sess.DraftText = text
		sess.State = model.ConversationAwaitingTime
		sess.Touch()
		if err := u.sessions.Set(ctx, sess); err != nil {
			return "", fmt.Errorf("save session: %w", err)
		}
		return replyAskTime, nil

	case model.ConversationAwaitingTime:
		res, err := timeparse.Resolve(text, u.now(), u.zone)
		if err != nil {
			// Recoverable: keep the draft and reprompt.
			sess.Touch()
			if serr := u.sessions.Set(ctx, sess); serr != nil {
				return "", fmt.Errorf("save session: %w", serr)
			}
			return parseFailureReply(err), nil
		}
		r, err := u.reminders.Create(ctx, userID, sess.ChatID, sess.DraftText, res.At)
		if err != nil {
			return u.createFailureReply(err)
		}
		if err := u.sessions.Clear(ctx, userID); err != nil {
			u.log.Warn().Err(err).Int64("user", userID).Msg("clear session failed")
		}
		return u.confirmReply(r), nil

	default: // Idle: single-turn path
		return u.createFromFreeText(ctx, userID, chatID, text)
	}
}

// createFromFreeText is the single-turn path: the whole message carries both
// the time expression and the reminder text.
func (u *conversationUC) createFromFreeText(ctx context.Context, userID, chatID int64, text string) (string, error) {
	res, err := timeparse.Resolve(text, u.now(), u.zone)
	if err != nil {
		return parseFailureReply(err), nil
	}
	r, err := u.reminders.Create(ctx, userID, chatID, timeparse.Remainder(text, res), res.At)
	if err != nil {
		return u.createFailureReply(err)
	}
	return u.confirmReply(r), nil
}

func (u *conversationUC) BeginGuided(ctx context.Context, userID, chatID int64) (string, error) {
	sess := model.NewConversationSession(userID, chatID)
	sess.State = model.ConversationAwaitingText
	if err := u.sessions.Set(ctx, sess); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return replyAskText, nil
}

func (u *conversationUC) AbortFlow(ctx context.Context, userID int64) (string, bool, error) {
	sess, err := u.sessions.Get(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.State == model.ConversationIdle {
		return replyNoFlow, false, nil
	}
	if err := u.sessions.Clear(ctx, userID); err != nil {
		return "", false, fmt.Errorf("clear session: %w", err)
	}
	return replyFlowAborted, true, nil
}

func (u *conversationUC) confirmReply(r *model.Reminder) string {
	return fmt.Sprintf("Reminder %s set: %q at %s", r.ID, r.Text, r.DueAt.In(u.zone).Format("2006-01-02 15:04"))
}

func (u *conversationUC) createFailureReply(err error) (string, error) {
	if errors.Is(err, domain.ErrTimeInPast) {
		return replyTimeInPast, nil
	}
	return "", fmt.Errorf("create reminder: %w", err)
}

func parseFailureReply(err error) string {
	if errors.Is(err, domain.ErrTimeInPast) {
		return replyTimeInPast
	}
	return replyTimeNotFound
}

package model

import (
	"strings"
	"time"

	"telegram-reminder-bot/internal/domain"

	"github.com/oklog/ulid/v2"
)

type ReminderStatus string

const (
	ReminderStatusActive      ReminderStatus = "active"
	ReminderStatusDispatching ReminderStatus = "dispatching"
	ReminderStatusSent        ReminderStatus = "sent"
	ReminderStatusCancelled   ReminderStatus = "cancelled"
)

// DefaultReminderText is stored when the time expression consumed the whole message.
const DefaultReminderText = "Reminder"

// Reminder is the central entity: one pending notification for one chat.
// DueAt is always UTC. ID, OwnerID, ChatID, DueAt and CreatedAt are immutable
// after creation; only Status and DeliveryAttempts change afterwards.
type Reminder struct {
	ID               string // ULID, sortable by creation time
	OwnerID          int64
	ChatID           int64
	Text             string
	DueAt            time.Time
	Status           ReminderStatus
	DeliveryAttempts int
	ClaimedAt        *time.Time // set while status is dispatching
	CreatedAt        time.Time
}

// NewReminder validates inputs and builds an Active reminder.
// An empty text after trimming falls back to DefaultReminderText.
func NewReminder(ownerID, chatID int64, text string, dueAtUTC, now time.Time) (*Reminder, error) {
	if ownerID <= 0 || chatID == 0 {
		return nil, domain.ErrInvalidArgument
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = DefaultReminderText
	}
	if !dueAtUTC.After(now) {
		return nil, domain.ErrTimeInPast
	}
	return &Reminder{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		ChatID:    chatID,
		Text:      text,
		DueAt:     dueAtUTC.UTC(),
		Status:    ReminderStatusActive,
		CreatedAt: now.UTC(),
	}, nil
}

// IsTerminal reports whether the reminder can never change again.
func (r *Reminder) IsTerminal() bool {
	return r.Status == ReminderStatusSent || r.Status == ReminderStatusCancelled
}

// Due reports whether the reminder is eligible for dispatch at the given instant.
func (r *Reminder) Due(now time.Time) bool {
	return r.Status == ReminderStatusActive && !r.DueAt.After(now)
}

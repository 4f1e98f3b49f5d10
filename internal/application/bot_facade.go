package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/usecase"

	"github.com/rs/zerolog"
)

const welcomeText = `Hi! I am your reminder bot.

Commands:
/new <time> <text> - create a reminder in one message
/new - guided creation, step by step
/list - your pending reminders
/cancel <id> - cancel a reminder
/help - examples

You can also just write "remind me in 5 minutes to call mom".`

const helpText = `Examples:
/new 2025-10-07 09:00 buy bread
/new in 45 minutes take the pizza out
remind me tomorrow at 10 to buy milk
/list - pending reminders
/cancel <id> - cancel one (ids are shown by /list)`

// BotFacade translates inbound MessageEvents into replies. It is the only
// surface the transport adapter talks to; every user-facing parse or
// validation problem comes back as a normal reply, never as an error.
type BotFacade struct {
	ConvUC usecase.ConversationUseCase
	RemUC  usecase.ReminderUseCase

	zone *time.Location
	log  *zerolog.Logger
}

func NewBotFacade(convUC usecase.ConversationUseCase, remUC usecase.ReminderUseCase, zone *time.Location, logger *zerolog.Logger) *BotFacade {
	if zone == nil {
		zone = time.UTC
	}
	fLog := logger.With().Str("component", "BotFacade").Logger()
	return &BotFacade{ConvUC: convUC, RemUC: remUC, zone: zone, log: &fLog}
}

// Handle routes one inbound event and returns the reply for its chat.
func (b *BotFacade) Handle(ctx context.Context, ev model.MessageEvent) (model.OutboundMessage, error) {
	text, err := b.dispatch(ctx, ev)
	if err != nil {
		b.log.Error().Err(err).Int64("user", ev.UserID).Str("command", ev.Command).Msg("handler failed")
		return model.OutboundMessage{ChatID: ev.ChatID, Text: "Something went wrong, please try again."}, err
	}
	return model.OutboundMessage{ChatID: ev.ChatID, Text: text}, nil
}

func (b *BotFacade) dispatch(ctx context.Context, ev model.MessageEvent) (string, error) {
	if !ev.IsCommand {
		return b.ConvUC.HandleText(ctx, ev.UserID, ev.ChatID, ev.Text)
	}
	switch ev.Command {
	case "start":
		return welcomeText, nil
	case "help":
		return helpText, nil
	case "new":
		if args := strings.TrimSpace(ev.CommandArgs); args != "" {
			return b.ConvUC.HandleText(ctx, ev.UserID, ev.ChatID, args)
		}
		return b.ConvUC.BeginGuided(ctx, ev.UserID, ev.ChatID)
	case "list":
		return b.handleList(ctx, ev.UserID)
	case "cancel":
		return b.handleCancel(ctx, ev.UserID, strings.TrimSpace(ev.CommandArgs))
	default:
		return "Unknown command. Try /help.", nil
	}
}

func (b *BotFacade) handleList(ctx context.Context, userID int64) (string, error) {
	items, err := b.RemUC.ListActive(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list reminders: %w", err)
	}
	if len(items) == 0 {
		return "You have no pending reminders.", nil
	}
	sb := strings.Builder{}
	sb.WriteString("Your reminders:\n")
	for _, r := range items {
		sb.WriteString(fmt.Sprintf("%s - %q at %s\n", r.ID, r.Text, r.DueAt.In(b.zone).Format("2006-01-02 15:04")))
	}
	sb.WriteString("\nCancel one with /cancel <id>")
	return sb.String(), nil
}

// handleCancel covers both meanings of /cancel: without an argument it aborts
// a guided creation flow, with an argument it cancels a stored reminder.
func (b *BotFacade) handleCancel(ctx context.Context, userID int64, id string) (string, error) {
	if id == "" {
		reply, _, err := b.ConvUC.AbortFlow(ctx, userID)
		return reply, err
	}
	ok, err := b.RemUC.Cancel(ctx, userID, id)
	if err != nil {
		return "", fmt.Errorf("cancel reminder: %w", err)
	}
	if !ok {
		return "No pending reminder with that id. See /list.", nil
	}
	return "Reminder cancelled.", nil
}

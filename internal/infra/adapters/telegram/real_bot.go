package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-reminder-bot/internal/application"
	"telegram-reminder-bot/internal/config"
	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/domain/ports/adapter"
	"telegram-reminder-bot/internal/infra/logging"
)

// Ensure the bot satisfies the Notifier port used by the dispatcher.
var _ adapter.Notifier = (*RealTelegramBot)(nil)

// RealTelegramBot polls updates via tgbotapi, translates them into
// MessageEvents for the facade, and doubles as the dispatcher's Notifier.
type RealTelegramBot struct {
	bot    *tgbotapi.BotAPI
	cfg    *config.BotConfig
	facade *application.BotFacade
	log    *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBot(cfg *config.BotConfig, facade *application.BotFacade, logger *zerolog.Logger) (*RealTelegramBot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	botLog := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBot{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		log:           &botLog,
		updateWorkers: workers,
	}, nil
}

func (r *RealTelegramBot) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBot) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBot) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	msg := up.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return nil
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithUserID(ctx, msg.From.ID)
	ctx = logging.WithChatID(ctx, msg.Chat.ID)
	logging.With(ctx, r.log).Debug().Msg("inbound message")

	reply, err := r.facade.Handle(ctx, eventFromMessage(msg))
	// The facade always returns a user-facing reply, even on internal errors.
	if sendErr := r.Send(ctx, reply); sendErr != nil {
		return sendErr
	}
	return err
}

// eventFromMessage maps a Telegram message onto the transport-neutral shape
// the core consumes.
func eventFromMessage(msg *tgbotapi.Message) model.MessageEvent {
	return model.MessageEvent{
		UserID:      msg.From.ID,
		ChatID:      msg.Chat.ID,
		Text:        msg.Text,
		IsCommand:   msg.IsCommand(),
		Command:     msg.Command(),
		CommandArgs: msg.CommandArguments(),
	}
}

// Send implements the Notifier port.
func (r *RealTelegramBot) Send(_ context.Context, out model.OutboundMessage) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(out.ChatID, out.Text))
	return err
}

package channels

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/peopled/peopled/internal/bus"
	"github.com/peopled/peopled/internal/config"
)

// TelegramChannel implements the Telegram bot via long polling.
type TelegramChannel struct {
	Base
	cfg *config.TelegramConfig
	bot *tgbotapi.BotAPI
}

func NewTelegramChannel(cfg *config.TelegramConfig, b bus.Bus) *TelegramChannel {
	return &TelegramChannel{
		Base: NewBase(bus.ChannelTelegram, b, cfg.AllowFrom),
		cfg:  cfg,
	}
}

func (t *TelegramChannel) Name() string { return string(bus.ChannelTelegram) }

func (t *TelegramChannel) Start(ctx context.Context) error {
	if t.cfg.Token == "" {
		return fmt.Errorf("telegram: bot token not configured")
	}
	bot, err := tgbotapi.NewBotAPI(t.cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	t.bot = bot
	slog.Info("telegram: connected", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go t.handleUpdate(ctx, update)
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (t *TelegramChannel) handleUpdate(_ context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	senderID := strconv.FormatInt(msg.From.ID, 10)
	if msg.From.UserName != "" {
		senderID = senderID + "|" + msg.From.UserName
	}
	chatID := strconv.FormatInt(msg.Chat.ID, 10)

	// The reply arrives asynchronously over the bus, so show typing once
	// rather than holding a loop open.
	action := tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	_, _ = t.bot.Send(action)

	t.HandleMessage(senderID, chatID, msg.Text, map[string]any{
		"message_id": msg.MessageID,
		"user_id":    msg.From.ID,
		"username":   msg.From.UserName,
	})
}

func (t *TelegramChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	if t.bot == nil {
		return fmt.Errorf("telegram: bot not running")
	}
	chatID, err := strconv.ParseInt(msg.ChatId(), 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat_id: %s", msg.ChatId())
	}
	if msg.Content() == "" {
		return nil
	}

	for _, chunk := range splitMessage(msg.Content(), 4000) {
		m := tgbotapi.NewMessage(chatID, chunk)
		if _, err := t.bot.Send(m); err != nil {
			return fmt.Errorf("telegram: send: %w", err)
		}
	}
	return nil
}

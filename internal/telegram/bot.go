package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/leetcode-bot/internal/service"
)

// ReplyHandler обрабатывает ответы участников
type ReplyHandler interface {
	HandleReply(ctx context.Context, reply service.Reply) error
}

// Options содержит настройки бота
type Options struct {
	ChatID int64
	// PollTimeout — таймаут long polling в секундах
	PollTimeout int
	// ReplyTimeout ограничивает обработку одного ответа
	ReplyTimeout time.Duration
}

// Bot отправляет сообщения в групповой чат и принимает ответы через long polling
type Bot struct {
	api  *tgbotapi.BotAPI
	opts Options
	log  logrus.FieldLogger
}

// New подключается к Bot API по токену
func New(token string, opts Options, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return NewWithAPI(api, opts, log), nil
}

// NewWithAPI создает бота поверх готового клиента Bot API
func NewWithAPI(api *tgbotapi.BotAPI, opts Options, log logrus.FieldLogger) *Bot {
	if opts.ReplyTimeout <= 0 {
		opts.ReplyTimeout = 2 * time.Minute
	}
	return &Bot{api: api, opts: opts, log: log}
}

// Username возвращает имя бота
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// SendAnnouncement отправляет анонс с кнопками-ссылками, по одной кнопке в строке
func (b *Bot) SendAnnouncement(ctx context.Context, text string, buttons []service.Button) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, btn := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL)))
	}

	msg := tgbotapi.NewMessage(b.opts.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	sent, err := b.api.Send(msg)
	if err != nil {
		return "", fmt.Errorf("failed to send announcement: %w", err)
	}
	return strconv.Itoa(sent.MessageID), nil
}

// SendReply отвечает на сообщение в чате
func (b *Bot) SendReply(ctx context.Context, replyToMessageID string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	replyTo, err := strconv.Atoi(replyToMessageID)
	if err != nil {
		return fmt.Errorf("invalid message id %q: %w", replyToMessageID, err)
	}

	msg := tgbotapi.NewMessage(b.opts.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyToMessageID = replyTo
	msg.AllowSendingWithoutReply = true

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// Run принимает обновления, пока не отменен ctx. Ответы обрабатываются по очереди.
func (b *Bot) Run(ctx context.Context, handler ReplyHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.opts.PollTimeout
	u.AllowedUpdates = []string{"message"}

	updates := b.api.GetUpdatesChan(u)
	b.log.WithField("chat_id", b.opts.ChatID).Info("Запущен прием обновлений")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("Прием обновлений остановлен")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			reply, ok := toReply(update.Message, b.opts.ChatID)
			if !ok {
				continue
			}
			b.dispatch(ctx, handler, reply)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, handler ReplyHandler, reply service.Reply) {
	ctx, cancel := context.WithTimeout(ctx, b.opts.ReplyTimeout)
	defer cancel()

	if err := handler.HandleReply(ctx, reply); err != nil {
		b.log.WithError(err).WithFields(logrus.Fields{
			"message_id": reply.MessageID,
			"sender_id":  reply.SenderID,
		}).Error("Ошибка обработки ответа")
	}
}

// toReply отбирает текстовые ответы на сообщения в нашем чате. Команды,
// сообщения ботов и сообщения без reply пропускаются.
func toReply(msg *tgbotapi.Message, chatID int64) (service.Reply, bool) {
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return service.Reply{}, false
	}
	if msg.Chat.ID != chatID || msg.ReplyToMessage == nil || msg.From.IsBot {
		return service.Reply{}, false
	}
	if msg.Text == "" || msg.IsCommand() {
		return service.Reply{}, false
	}

	return service.Reply{
		ChatID:           msg.Chat.ID,
		MessageID:        strconv.Itoa(msg.MessageID),
		ReplyToMessageID: strconv.Itoa(msg.ReplyToMessage.MessageID),
		SenderID:         strconv.FormatInt(msg.From.ID, 10),
		SenderName:       displayName(msg.From),
		Text:             msg.Text,
	}, true
}

func displayName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	if name == "" {
		name = strconv.FormatInt(u.ID, 10)
	}
	return name
}

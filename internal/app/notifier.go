package app

import (
	"context"

	"homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// Notifier delivers text to the single configured chat. Delivery is best
// effort: failures are logged and never returned.
type Notifier struct {
	client telegram.Client
	chatID int64
	logger *logrus.Entry
}

func NewNotifier(client telegram.Client, chatID int64, logger *logrus.Entry) *Notifier {
	return &Notifier{client: client, chatID: chatID, logger: logger}
}

// Send reports whether the message was accepted by the Bot API.
func (n *Notifier) Send(ctx context.Context, text string) bool {
	log := n.logger.WithField("chat_id", n.chatID)
	if err := ctx.Err(); err != nil {
		log.WithError(err).Warn("Skipping message, shutting down")
		return false
	}

	log.Infof("Отправка сообщения: %s", text)
	if err := n.client.SendMessage(n.chatID, text, nil); err != nil {
		log.WithError(err).Error("Не удалось отправить сообщение")
		return false
	}
	log.Debug("Сообщение отправлено")
	return true
}

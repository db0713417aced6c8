package bot

import (
	"regexp"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/vip-drama-bot/internal/domain/catalog"
)

/*** HELPERS ***/

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

// reply отправляет пользователю текст ошибки; непредвиденные ошибки пишутся в лог.
func (b *Bot) reply(chatID int64, op string, err error) {
	text, expected := userMessage(err)
	if !expected {
		b.log.Error(op+" failed", "chat", chatID, "err", err)
	}
	m := tgbotapi.NewMessage(chatID, text)
	if needsUpgrade(err) {
		m.ReplyMarkup = upgradeKeyboard()
	}
	b.send(m)
}

func (b *Bot) fail(chatID int64, op string, err error) {
	b.log.Error(op+" failed", "chat", chatID, "err", err)
	b.send(tgbotapi.NewMessage(chatID, genericErrorText))
}

// deliver отдаёт контент: ссылку "<chat>/<message>" копирует из канала-хранилища,
// всё остальное уходит текстом.
func (b *Bot) deliver(chatID int64, caption string, ref catalog.Reference, kb *tgbotapi.InlineKeyboardMarkup) {
	if from, msgID, ok := parseReference(ref); ok {
		c := tgbotapi.NewCopyMessage(chatID, from, msgID)
		c.Caption = caption
		if kb != nil {
			c.ReplyMarkup = *kb
		}
		if _, err := b.api.CopyMessage(c); err != nil {
			b.log.Error("copy content failed", "chat", chatID, "ref", string(ref), "err", err)
			b.send(tgbotapi.NewMessage(chatID, genericErrorText))
		}
		return
	}
	m := tgbotapi.NewMessage(chatID, caption+"\n"+string(ref))
	if kb != nil {
		m.ReplyMarkup = *kb
	}
	b.send(m)
}

var messageRef = regexp.MustCompile(`^(-?\d+)/(\d+)$`)

func parseReference(ref catalog.Reference) (int64, int, bool) {
	m := messageRef.FindStringSubmatch(string(ref))
	if m == nil {
		return 0, 0, false
	}
	chat, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	msgID, err := strconv.Atoi(m[2])
	if err != nil || msgID == 0 {
		return 0, 0, false
	}
	return chat, msgID, true
}

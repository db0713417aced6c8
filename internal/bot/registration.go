package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/vip-drama-bot/internal/dialog"
)

// handleStart регистрирует участника; с токеном сразу отдаёт нужную часть серии.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message, token string) {
	chatID := msg.Chat.ID
	id := externalID(msg.From)

	m, created, err := b.access.RegisterOrGreet(ctx, id, displayName(msg.From))
	if err != nil {
		b.reply(chatID, "register", err)
		return
	}
	if created {
		b.log.Info("member registered", "member", id)
	}
	if token != "" {
		b.deliverPart(ctx, chatID, id, token)
		return
	}
	out := tgbotapi.NewMessage(chatID, welcomeText(m.DisplayName))
	out.DisableWebPagePreview = true
	b.send(out)
}

func (b *Bot) askCode(ctx context.Context, chatID int64) {
	m := tgbotapi.NewMessage(chatID, askCodeText)
	m.ReplyMarkup = navKeyboard(false, true)
	b.send(m)
	if err := b.states.Set(ctx, chatID, dialog.StateAwaitCode, dialog.Payload{"cmd": "gratis"}); err != nil {
		b.log.Warn("save dialog failed", "chat", chatID, "err", err)
	}
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

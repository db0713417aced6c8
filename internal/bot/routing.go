package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/vip-drama-bot/internal/dialog"
	"github.com/Spok95/vip-drama-bot/internal/domain/deeplink"
)

const partCallbackPrefix = "part:"

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	id := externalID(msg.From)
	args := strings.TrimSpace(msg.CommandArguments())

	// любая команда сбрасывает незаконченный ввод
	if err := b.states.Reset(ctx, chatID); err != nil {
		b.log.Warn("reset dialog failed", "chat", chatID, "err", err)
	}

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg, args)
	case "gratis":
		if args == "" {
			b.askCode(ctx, chatID)
			return
		}
		b.handleFree(ctx, chatID, id, args)
	case "vip":
		b.showVIPMenu(ctx, chatID, msg.From)
	case "status":
		b.showStatus(ctx, chatID, msg.From)
	case "help":
		b.send(tgbotapi.NewMessage(chatID, helpText))
	case "grant":
		b.handleGrant(ctx, msg, args)
	default:
		b.send(tgbotapi.NewMessage(chatID, unknownCommandText))
	}
}

// handleStateMessage Обычный текст: код фильма после /gratis без аргумента
func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.fail(chatID, "load dialog", err)
		return
	}
	if st.State != dialog.StateAwaitCode {
		b.send(tgbotapi.NewMessage(chatID, helpText))
		return
	}
	code := strings.TrimSpace(msg.Text)
	if code == "" {
		b.send(tgbotapi.NewMessage(chatID, askCodeText))
		return
	}
	if err := b.states.Reset(ctx, chatID); err != nil {
		b.log.Warn("reset dialog failed", "chat", chatID, "err", err)
	}
	b.handleFree(ctx, chatID, externalID(msg.From), code)
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, partCallbackPrefix):
		_ = b.answerCallback(cb, "", false)
		b.deliverPart(ctx, chatID, externalID(cb.From), strings.TrimPrefix(data, partCallbackPrefix))
	case data == "vip:menu":
		_ = b.answerCallback(cb, "", false)
		b.showVIPMenu(ctx, chatID, cb.From)
	case data == "nav:cancel" || data == "nav:back":
		if err := b.states.Reset(ctx, chatID); err != nil {
			b.log.Warn("reset dialog failed", "chat", chatID, "err", err)
		}
		b.editTextAndClear(chatID, cb.Message.MessageID, "Dibatalkan.")
		_ = b.answerCallback(cb, "Dibatalkan", false)
	default:
		_ = b.answerCallback(cb, "", false)
	}
}

func (b *Bot) handleFree(ctx context.Context, chatID int64, id, code string) {
	g, err := b.access.RequestFree(ctx, id, code)
	if err != nil {
		b.reply(chatID, "request free", err)
		return
	}
	b.deliver(chatID, freeCaption(g), g.Reference, nil)
}

func (b *Bot) deliverPart(ctx context.Context, chatID int64, id, token string) {
	g, err := b.access.RequestPartToken(ctx, id, token)
	if err != nil {
		b.reply(chatID, "request part", err)
		return
	}
	var kb *tgbotapi.InlineKeyboardMarkup
	if g.Part == deeplink.P1 && g.ContinueToken != "" {
		k := continueKeyboard(b.api.Self.UserName, g.ContinueToken)
		kb = &k
	}
	b.deliver(chatID, partCaption(g), g.Reference, kb)
}

func externalID(u *tgbotapi.User) string {
	return strconv.FormatInt(u.ID, 10)
}

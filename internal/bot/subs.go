package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/vip-drama-bot/internal/domain/members"
)

// showVIPMenu Кнопки оплаты и email, по которому платёж найдёт участника
func (b *Bot) showVIPMenu(ctx context.Context, chatID int64, u *tgbotapi.User) {
	offers, err := b.access.EntitlementOptions(ctx, externalID(u))
	if err != nil {
		b.reply(chatID, "vip menu", err)
		return
	}
	if len(offers) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Paket VIP belum tersedia."))
		return
	}
	m := tgbotapi.NewMessage(chatID, vipMenuText(displayName(u), offers[0].Email))
	m.ReplyMarkup = vipMenuKeyboard(offers)
	b.send(m)
}

func (b *Bot) showStatus(ctx context.Context, chatID int64, u *tgbotapi.User) {
	st, err := b.access.Status(ctx, externalID(u))
	if err != nil {
		b.reply(chatID, "status", err)
		return
	}
	m := tgbotapi.NewMessage(chatID, statusText(displayName(u), st))
	if !st.VIPActive {
		m.ReplyMarkup = upgradeKeyboard()
	}
	b.send(m)
}

// handleGrant ручная выдача VIP админом: /grant <id> <дней>
func (b *Bot) handleGrant(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	if b.adminChat == 0 || msg.From.ID != b.adminChat {
		b.send(tgbotapi.NewMessage(chatID, unknownCommandText))
		return
	}
	id, days, err := parseGrantArgs(args)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Format: /grant <id> <hari>"))
		return
	}
	m, err := b.subs.GrantOrExtend(ctx, id, days)
	if err != nil {
		b.reply(chatID, "admin grant", err)
		return
	}
	b.log.Info("vip granted manually", "member", id, "days", days, "admin", msg.From.ID)
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ VIP %s aktif sampai %s", id, m.Expiry.Format(members.DateLayout))))
}

func parseGrantArgs(args string) (string, int, error) {
	f := strings.Fields(args)
	if len(f) != 2 {
		return "", 0, fmt.Errorf("want 2 arguments, got %d", len(f))
	}
	days, err := strconv.Atoi(f[1])
	if err != nil {
		return "", 0, err
	}
	if days <= 0 {
		return "", 0, fmt.Errorf("days must be positive")
	}
	return f[0], days, nil
}

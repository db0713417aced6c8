package bot

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/vip-drama-bot/internal/dialog"
	"github.com/Spok95/vip-drama-bot/internal/domain/access"
	"github.com/Spok95/vip-drama-bot/internal/domain/billing"
	"github.com/Spok95/vip-drama-bot/internal/domain/members"
	"github.com/Spok95/vip-drama-bot/internal/domain/subscriptions"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	access    *access.Controller
	subs      *subscriptions.Engine
	states    *dialog.Repo
	adminChat int64
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	ctl *access.Controller, subs *subscriptions.Engine,
	statesRepo *dialog.Repo, adminChatID int64) *Bot {

	return &Bot{
		api: api, log: log, access: ctl, subs: subs,
		states: statesRepo, adminChat: adminChatID,
	}
}

// Run читает апдейты long polling'ом; каждый апдейт обрабатывается в своей горутине,
// порядок операций одного участника обеспечивает блокировка в members.
func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.dispatch(ctx, upd)
			}()
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("update handler panic", "update_id", upd.UpdateID, "panic", r)
		}
	}()
	switch {
	case upd.Message != nil:
		b.onMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		b.onCallback(ctx, upd.CallbackQuery)
	}
}

// NotifyVIP сообщает участнику об активации VIP после оплаты.
func (b *Bot) NotifyVIP(_ context.Context, m *members.Member, pkg billing.Package) error {
	chatID, err := strconv.ParseInt(m.ExternalID, 10, 64)
	if err != nil {
		return err
	}
	_, err = b.api.Send(tgbotapi.NewMessage(chatID, vipActivatedText(m, pkg)))
	return err
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

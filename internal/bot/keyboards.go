package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/vip-drama-bot/internal/domain/access"
	"github.com/Spok95/vip-drama-bot/internal/domain/deeplink"
)

// лимит callback_data в Telegram
const maxCallbackData = 64

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Kembali", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Batal", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func vipMenuKeyboard(offers []access.Offer) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(offers))
	for _, o := range offers {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(offerLabel(o), o.Package.URL),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func upgradeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💎 Upgrade VIP", "vip:menu"),
		),
	)
}

// continueKeyboard Кнопка на вторую часть: callback, если токен влезает, иначе deep-link
func continueKeyboard(botUsername, token string) tgbotapi.InlineKeyboardMarkup {
	const label = "▶️ Lanjut Part 2"
	data := partCallbackPrefix + token
	if len(data) <= maxCallbackData || botUsername == "" {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(label, deeplink.Link(botUsername, token)),
		),
	)
}

package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/vip-drama-bot/internal/domain/access"
	"github.com/Spok95/vip-drama-bot/internal/domain/billing"
	"github.com/Spok95/vip-drama-bot/internal/domain/members"
	"github.com/Spok95/vip-drama-bot/internal/domain/subscriptions"
)

const (
	helpText = "📖 Perintah:\n" +
		"/gratis <kode> — tonton gratis (kuota harian)\n" +
		"/vip — daftar VIP untuk akses tanpa batas\n" +
		"/status — cek status dan sisa kuota\n" +
		"/help — bantuan"
	askCodeText        = "Kirim kode film yang ingin kamu tonton, contoh: ep01"
	unknownCommandText = "Perintah tidak dikenal. Ketik /help."
	genericErrorText   = "⚠️ Maaf, sedang ada gangguan teknis. Coba lagi beberapa saat lagi."
)

// userMessage — единственное место, где ошибки превращаются в текст для пользователя.
// expected=false значит ошибку надо залогировать.
func userMessage(err error) (text string, expected bool) {
	switch {
	case errors.Is(err, access.ErrQuotaExhausted):
		return "🚫 Kuota tontonan gratis kamu hari ini sudah habis.\nCoba lagi besok atau upgrade ke VIP dengan /vip.", true
	case errors.Is(err, access.ErrContentNotFound):
		return "❌ Kode film tidak ditemukan. Periksa lagi kodenya.", true
	case errors.Is(err, access.ErrVipRequired):
		return "🔒 Part 2 khusus member VIP.\nUpgrade dengan /vip atau tonton gratis dengan /gratis <kode>.", true
	case errors.Is(err, access.ErrMalformedToken):
		return "⚠️ Link tidak valid. Buka lagi link dari channel.", true
	case errors.Is(err, subscriptions.ErrMemberNotFound):
		return "❌ Member belum terdaftar. Minta mereka menekan /start dulu.", true
	}
	return genericErrorText, false
}

func needsUpgrade(err error) bool {
	return errors.Is(err, access.ErrVipRequired) || errors.Is(err, access.ErrQuotaExhausted)
}

func welcomeText(name string) string {
	if name == "" {
		name = "kamu"
	}
	return fmt.Sprintf("👋 Selamat datang %s di VIP Drama Cina!\n\n"+
		"🎬 Tonton gratis dengan /gratis <kode> (kuota harian).\n"+
		"💎 Upgrade ke VIP dengan /vip untuk akses tanpa batas.\n"+
		"ℹ️ Cek status dengan /status.", name)
}

func freeCaption(g *access.FreeGrant) string {
	return fmt.Sprintf("🎬 %s\nSisa kuota gratis hari ini: %d", title(g.Entry.Title, g.Entry.Code), g.Remaining)
}

func partCaption(g *access.PartGrant) string {
	return fmt.Sprintf("🎬 %s — Part %s", title(g.Entry.Title, g.Entry.Code), strings.TrimPrefix(string(g.Part), "P"))
}

func statusText(name string, st *access.Status) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 %s\n", name)
	if st.VIPActive {
		sb.WriteString("💎 Status: VIP")
		if st.Member.Expiry != nil {
			fmt.Fprintf(&sb, " (aktif sampai %s)", st.Member.Expiry.Format(members.DateLayout))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("Status: Non-VIP\n")
	}
	fmt.Fprintf(&sb, "🎟 Kuota gratis hari ini: %d/%d", st.Remaining, st.Cap)
	return sb.String()
}

func vipMenuText(name, email string) string {
	return fmt.Sprintf("Halo %s! Pilih paket VIP yang kamu inginkan.\n\n"+
		"⚠️ Saat membayar, isi email dengan:\n%s\n"+
		"agar VIP aktif otomatis.", name, email)
}

func vipActivatedText(m *members.Member, pkg billing.Package) string {
	until := ""
	if m.Expiry != nil {
		until = " sampai " + m.Expiry.Format(members.DateLayout)
	}
	return fmt.Sprintf("🎉 Pembayaran %s diterima! VIP kamu aktif%s.", pkg.Title, until)
}

func offerLabel(o access.Offer) string {
	return fmt.Sprintf("%s - %s", o.Package.Title, formatRupiah(o.Package.Price))
}

// formatRupiah 150000 -> "Rp 150.000"
func formatRupiah(amount int) string {
	s := strconv.Itoa(amount)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "Rp -" + sb.String()
	}
	return "Rp " + sb.String()
}

func title(t, code string) string {
	if strings.TrimSpace(t) == "" {
		return code
	}
	return t
}

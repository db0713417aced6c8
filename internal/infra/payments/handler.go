package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Spok95/vip-drama-bot/internal/domain/billing"
	"github.com/Spok95/vip-drama-bot/internal/infra/records"
)

const bodyLimit = 1 << 20 // 1 MiB

type Reconciler interface {
	Reconcile(ctx context.Context, ev billing.Event) (*billing.Result, error)
}

// Handler принимает webhook Trakteer: проверяет подпись, разбирает тело
// и передаёт событие в billing. Наружу уходит только общий статус.
type Handler struct {
	log      *slog.Logger
	verifier *Verifier
	rec      Reconciler
}

func NewHandler(log *slog.Logger, verifier *Verifier, rec Reconciler) *Handler {
	return &Handler{log: log, verifier: verifier, rec: rec}
}

type webhookPayload struct {
	TransactionID    string `json:"transaction_id"`
	Status           string `json:"status"`
	TrakteerID       string `json:"trakteer_id"`
	SupporterMessage string `json:"supporter_message"`
	Customer         struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"customer"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeStatus(w, http.StatusMethodNotAllowed, "error")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, bodyLimit))
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "error")
		return
	}

	ev := billing.Event{Authenticated: h.verifier.Verify(body, r.Header.Get(SignatureHeader))}
	if ev.Authenticated {
		var p webhookPayload
		if err := json.Unmarshal(body, &p); err != nil {
			h.log.Warn("payment webhook: bad payload", "err", err)
			writeStatus(w, http.StatusBadRequest, "error")
			return
		}
		ev.TransactionID = p.TransactionID
		ev.Status = p.Status
		ev.PackageID = p.TrakteerID
		ev.Email = p.Customer.Email
		ev.Message = p.SupporterMessage
	}

	res, err := h.rec.Reconcile(r.Context(), ev)
	switch {
	case err == nil:
		h.log.Info("payment webhook processed",
			"tx", ev.TransactionID, "outcome", string(res.Outcome), "member", res.ExternalID, "package", res.Package.ID)
		if res.Outcome == billing.OutcomeGranted {
			writeStatus(w, http.StatusOK, "success")
			return
		}
		writeStatus(w, http.StatusOK, string(res.Outcome))

	case errors.Is(err, billing.ErrUnauthorizedEvent):
		h.log.Warn("payment webhook: invalid signature", "remote", r.RemoteAddr)
		writeStatus(w, http.StatusForbidden, "error")

	case errors.Is(err, billing.ErrIdentityNotFound),
		errors.Is(err, billing.ErrUnknownPackage),
		errors.Is(err, billing.ErrMemberNotFound):
		h.log.Warn("payment webhook rejected",
			"tx", ev.TransactionID, "package", ev.PackageID, "err", err)
		writeStatus(w, http.StatusOK, "ignored")

	default:
		// хранилище недоступно и т.п.: 500, чтобы Trakteer повторил доставку
		h.log.Error("payment webhook failed", "tx", ev.TransactionID, "err", err,
			"store_unavailable", errors.Is(err, records.ErrUnavailable))
		writeStatus(w, http.StatusInternalServerError, "error")
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Spok95/vip-drama-bot/internal/domain/members"
	"github.com/Spok95/vip-drama-bot/internal/domain/subscriptions"
	"github.com/Spok95/vip-drama-bot/internal/infra/metrics"
)

var (
	ErrUnauthorizedEvent = errors.New("billing: unauthorized event")
	ErrIdentityNotFound  = errors.New("billing: identity not found")
	ErrUnknownPackage    = errors.New("billing: unknown package")
	ErrMemberNotFound    = subscriptions.ErrMemberNotFound
)

// DefaultIdentityDomain — домен синтетического email "<id>@vipbot.com".
const DefaultIdentityDomain = "vipbot.com"

// Event — уведомление об оплате. Authenticated выставляет транспорт
// после проверки подписи; без него Reconcile ничего не меняет.
type Event struct {
	Authenticated bool
	TransactionID string
	Status        string
	PackageID     string
	Email         string
	Message       string
}

type Outcome string

const (
	OutcomeGranted   Outcome = "granted"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
)

type Result struct {
	Outcome    Outcome
	ExternalID string
	Package    Package
	Expiry     *time.Time
}

// Deduper помнит обработанные транзакции.
// Claim возвращает false, если транзакция уже взята или завершена.
type Deduper interface {
	Claim(ctx context.Context, txID string) (bool, error)
	Release(ctx context.Context, txID string) error
}

// Notifier сообщает участнику о выданном VIP.
type Notifier interface {
	NotifyVIP(ctx context.Context, m *members.Member, pkg Package) error
}

type Reconciler struct {
	subs     *subscriptions.Engine
	packages Packages
	identity *regexp.Regexp
	dedup    Deduper
	notify   Notifier
	log      *slog.Logger
}

func NewReconciler(subs *subscriptions.Engine, packages Packages, identityDomain string,
	dedup Deduper, log *slog.Logger) *Reconciler {
	if identityDomain == "" {
		identityDomain = DefaultIdentityDomain
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{
		subs:     subs,
		packages: packages,
		identity: identityPattern(identityDomain),
		dedup:    dedup,
		log:      log,
	}
}

// SetNotifier подключает уведомления после запуска транспорта.
func (r *Reconciler) SetNotifier(n Notifier) { r.notify = n }

func (r *Reconciler) Reconcile(ctx context.Context, ev Event) (*Result, error) {
	res, err := r.reconcile(ctx, ev)
	label := "error"
	switch {
	case err == nil:
		label = string(res.Outcome)
	case errors.Is(err, ErrUnauthorizedEvent):
		label = "unauthorized"
	case errors.Is(err, ErrIdentityNotFound):
		label = "identity_not_found"
	case errors.Is(err, ErrUnknownPackage):
		label = "unknown_package"
	case errors.Is(err, ErrMemberNotFound):
		label = "member_not_found"
	}
	metrics.PaymentEvents.WithLabelValues(label).Inc()
	return res, err
}

func (r *Reconciler) reconcile(ctx context.Context, ev Event) (*Result, error) {
	if !ev.Authenticated {
		return nil, ErrUnauthorizedEvent
	}
	if !IsPaid(ev.Status) {
		return &Result{Outcome: OutcomeIgnored}, nil
	}

	externalID, ok := r.ExtractIdentity(ev)
	if !ok {
		return nil, ErrIdentityNotFound
	}
	pkg, ok := r.packages.Lookup(ev.PackageID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, ev.PackageID)
	}
	res := &Result{ExternalID: externalID, Package: pkg}

	txID := strings.TrimSpace(ev.TransactionID)
	if txID != "" && r.dedup != nil {
		claimed, err := r.dedup.Claim(ctx, txID)
		if err != nil {
			return nil, fmt.Errorf("billing: claim %s: %w", txID, err)
		}
		if !claimed {
			res.Outcome = OutcomeDuplicate
			return res, nil
		}
	}

	m, err := r.subs.GrantOrExtend(ctx, externalID, pkg.Days)
	if err != nil {
		if txID != "" && r.dedup != nil {
			if rerr := r.dedup.Release(ctx, txID); rerr != nil {
				r.log.Error("dedup release failed", "tx", txID, "err", rerr)
			}
		}
		return nil, err
	}
	res.Outcome = OutcomeGranted
	res.Expiry = m.Expiry

	if r.notify != nil {
		if err := r.notify.NotifyVIP(ctx, m, pkg); err != nil {
			r.log.Warn("vip notification failed", "member", externalID, "err", err)
		}
	}
	return res, nil
}

// ExtractIdentity ищет "<id>@<домен>" сначала в email, затем в тексте сообщения.
func (r *Reconciler) ExtractIdentity(ev Event) (string, bool) {
	for _, field := range []string{ev.Email, ev.Message} {
		if m := r.identity.FindStringSubmatch(field); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// IsPaid — статусы, при которых платёж считается оплаченным.
func IsPaid(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "paid", "success", "settlement":
		return true
	}
	return false
}

// IdentityEmail — email, который участник указывает при оплате.
func IdentityEmail(externalID, domain string) string {
	if domain == "" {
		domain = DefaultIdentityDomain
	}
	return externalID + "@" + domain
}

func identityPattern(domain string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)([a-z0-9_-]+)@` + regexp.QuoteMeta(domain) + `\b`)
}

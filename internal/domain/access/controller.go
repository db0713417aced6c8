package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Spok95/vip-drama-bot/internal/domain/billing"
	"github.com/Spok95/vip-drama-bot/internal/domain/catalog"
	"github.com/Spok95/vip-drama-bot/internal/domain/deeplink"
	"github.com/Spok95/vip-drama-bot/internal/domain/members"
	"github.com/Spok95/vip-drama-bot/internal/domain/quota"
	"github.com/Spok95/vip-drama-bot/internal/domain/subscriptions"
	"github.com/Spok95/vip-drama-bot/internal/infra/metrics"
)

var (
	ErrQuotaExhausted  = quota.ErrExhausted
	ErrContentNotFound = catalog.ErrNotFound
	ErrMalformedToken  = deeplink.ErrMalformedToken
	ErrVipRequired     = errors.New("access: vip required")
)

type FreeGrant struct {
	Entry     *catalog.Entry
	Reference catalog.Reference
	Remaining int
}

type PartGrant struct {
	Entry     *catalog.Entry
	Part      deeplink.Part
	Reference catalog.Reference
	// ContinueToken — токен на вторую часть, только для P1.
	ContinueToken string
}

type Status struct {
	Member    *members.Member
	VIPActive bool
	Remaining int
	Cap       int
}

// Offer — вариант покупки VIP в меню /vip.
type Offer struct {
	Package billing.Package
	// Email, который нужно указать при оплате, чтобы платёж нашёл участника.
	Email string
}

// Controller решает, выдавать ли контент. Две политики независимы:
// бесплатный поток ограничен квотой, двухчастный — только VIP.
type Controller struct {
	members  *members.Repo
	quota    *quota.Engine
	subs     *subscriptions.Engine
	catalog  *catalog.Resolver
	packages billing.Packages
	domain   string
	log      *slog.Logger
}

func NewController(repo *members.Repo, q *quota.Engine, s *subscriptions.Engine,
	c *catalog.Resolver, packages billing.Packages, identityDomain string, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		members: repo, quota: q, subs: s, catalog: c,
		packages: packages, domain: identityDomain, log: log,
	}
}

// RegisterOrGreet регистрирует участника при первом обращении и обновляет отображаемое имя.
func (c *Controller) RegisterOrGreet(ctx context.Context, externalID, displayName string) (*members.Member, bool, error) {
	unlock := c.members.Lock(externalID)
	defer unlock()

	m, created, err := c.members.Ensure(ctx, externalID, displayName)
	if err != nil {
		return nil, false, err
	}
	if !created && displayName != "" && m.DisplayName != displayName {
		m.DisplayName = displayName
		if err := c.members.Save(ctx, m); err != nil {
			return nil, false, err
		}
	}
	return m, created, nil
}

// RequestFree выдаёт бесплатную ссылку и списывает одну единицу квоты.
func (c *Controller) RequestFree(ctx context.Context, externalID, code string) (*FreeGrant, error) {
	g, err := c.requestFree(ctx, externalID, code)
	metrics.AccessRequests.WithLabelValues("free", outcome(err)).Inc()
	return g, err
}

func (c *Controller) requestFree(ctx context.Context, externalID, code string) (*FreeGrant, error) {
	unlock := c.members.Lock(externalID)
	defer unlock()

	m, _, err := c.members.Ensure(ctx, externalID, "")
	if err != nil {
		return nil, err
	}
	if _, err := c.quota.RefillIfStale(ctx, m); err != nil {
		return nil, err
	}
	if c.quota.Remaining(m) == 0 {
		return nil, ErrQuotaExhausted
	}

	entry, err := c.catalog.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := c.quota.ConsumeOne(ctx, m); err != nil {
		return nil, err
	}
	return &FreeGrant{
		Entry:     entry,
		Reference: catalog.Reference(entry.FreeReference),
		Remaining: c.quota.Remaining(m),
	}, nil
}

// RequestPart выдаёт часть серии. P1 открыта всем и квоту не трогает,
// P2 закрытой серии требует активного VIP.
func (c *Controller) RequestPart(ctx context.Context, externalID, code string, part deeplink.Part) (*PartGrant, error) {
	g, err := c.requestPart(ctx, externalID, code, part)
	metrics.AccessRequests.WithLabelValues("part", outcome(err)).Inc()
	return g, err
}

// RequestPartToken — то же по токену из deep-link.
func (c *Controller) RequestPartToken(ctx context.Context, externalID, token string) (*PartGrant, error) {
	code, part, err := deeplink.Decode(strings.TrimSpace(token))
	if err != nil {
		metrics.AccessRequests.WithLabelValues("part", outcome(err)).Inc()
		return nil, err
	}
	return c.RequestPart(ctx, externalID, code, part)
}

func (c *Controller) requestPart(ctx context.Context, externalID, code string, part deeplink.Part) (*PartGrant, error) {
	if !part.Valid() {
		return nil, fmt.Errorf("%w: unknown part %q", ErrMalformedToken, part)
	}

	unlock := c.members.Lock(externalID)
	defer unlock()

	m, _, err := c.members.Ensure(ctx, externalID, "")
	if err != nil {
		return nil, err
	}
	entry, err := c.catalog.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	if part == deeplink.P1 {
		g := &PartGrant{Entry: entry, Part: part, Reference: catalog.Reference(entry.FreeReference)}
		token, err := deeplink.Encode(entry.Code, deeplink.P2)
		if err != nil {
			// часть 1 всё равно отдаём, просто без кнопки «дальше»
			c.log.Warn("cannot build continue token", "code", entry.Code, "err", err)
		}
		g.ContinueToken = token
		return g, nil
	}

	if entry.Part2Gated && !c.subs.ActiveNow(m) {
		return nil, ErrVipRequired
	}
	return &PartGrant{Entry: entry, Part: part, Reference: catalog.Reference(entry.VIPReference)}, nil
}

// Status — состояние участника для /status; квота пересчитывается по дате.
func (c *Controller) Status(ctx context.Context, externalID string) (*Status, error) {
	unlock := c.members.Lock(externalID)
	defer unlock()

	m, _, err := c.members.Ensure(ctx, externalID, "")
	if err != nil {
		return nil, err
	}
	if _, err := c.quota.RefillIfStale(ctx, m); err != nil {
		return nil, err
	}
	return &Status{
		Member:    m,
		VIPActive: c.subs.ActiveNow(m),
		Remaining: c.quota.Remaining(m),
		Cap:       c.quota.Cap(),
	}, nil
}

// EntitlementOptions — пакеты VIP для /vip с email-идентификатором участника.
func (c *Controller) EntitlementOptions(ctx context.Context, externalID string) ([]Offer, error) {
	unlock := c.members.Lock(externalID)
	defer unlock()

	if _, _, err := c.members.Ensure(ctx, externalID, ""); err != nil {
		return nil, err
	}
	email := billing.IdentityEmail(externalID, c.domain)
	pkgs := c.packages.Sorted()
	out := make([]Offer, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, Offer{Package: p, Email: email})
	}
	return out, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "granted"
	case errors.Is(err, ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.Is(err, ErrVipRequired):
		return "vip_required"
	case errors.Is(err, ErrContentNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedToken):
		return "malformed_token"
	default:
		return "error"
	}
}

// Package assets resolves display images for drivers, circuits and teams.
//
// Every subject is resolved through four ordered tiers: a curated official
// URL, a curated archival URL, a generated SVG placeholder and a static
// fallback. Resolve picks the first applicable tier without any network
// access. Probe verifies remote tiers by fetching them and moves on to the
// next tier on failure or timeout. Both always return a usable reference.
package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pitwall/log"
)

const (
	DefaultTierTimeout = 5 * time.Second
	DefaultCeiling     = 8 * time.Second
)

type Kind string

const (
	KindDriver  Kind = "driver"
	KindCircuit Kind = "circuit"
	KindTeam    Kind = "team"
)

func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindDriver, KindCircuit, KindTeam:
		return k, true
	}
	return "", false
}

// Subject identifies the entity an image is resolved for. Only ID is
// required; the descriptive fields enable secondary lookups and generated
// placeholders.
type Subject struct {
	Kind        Kind   `json:"kind"`
	ID          string `json:"id"`
	GivenName   string `json:"givenName,omitempty"`
	FamilyName  string `json:"familyName,omitempty"`
	Name        string `json:"name,omitempty"` // circuit or team display name
	Nationality string `json:"nationality,omitempty"`
}

type Tier int

const (
	TierOfficial Tier = iota + 1
	TierArchival
	TierGenerated
	TierStatic
)

func (t Tier) String() string {
	switch t {
	case TierOfficial:
		return "official"
	case TierArchival:
		return "archival"
	case TierGenerated:
		return "generated"
	case TierStatic:
		return "static"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// remote reports whether candidates of the tier need verification.
func (t Tier) remote() bool {
	return t == TierOfficial || t == TierArchival
}

type Candidate struct {
	Tier Tier   `json:"tier"`
	URL  string `json:"url"`
}

type Resolver struct {
	catalog     *Catalog
	year        int
	prober      Prober
	tierTimeout time.Duration
	ceiling     time.Duration
	logger      *log.Logger
}

type Option func(r *Resolver)

func WithCatalog(c *Catalog) Option {
	return func(r *Resolver) { r.catalog = c }
}

// WithSeasonYear sets the season used to build official media URLs.
func WithSeasonYear(year int) Option {
	return func(r *Resolver) { r.year = year }
}

func WithProber(p Prober) Option {
	return func(r *Resolver) { r.prober = p }
}

// WithTimeouts sets the timeout of a single tier probe and the ceiling of a
// whole cascade.
func WithTimeouts(tier, ceiling time.Duration) Option {
	return func(r *Resolver) {
		r.tierTimeout = tier
		r.ceiling = ceiling
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		year:        time.Now().Year(),
		tierTimeout: DefaultTierTimeout,
		ceiling:     DefaultCeiling,
		logger:      log.Default().Named("assets"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.catalog == nil {
		r.catalog = DefaultCatalog()
	}
	if r.prober == nil {
		r.prober = NewHTTPProber(nil)
	}
	return r
}

func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Candidates lists the applicable tiers for s in cascade order. The list is
// never empty and always ends with the static tier.
func (r *Resolver) Candidates(s Subject) []Candidate {
	var out []Candidate
	add := func(t Tier, url string) {
		if url != "" {
			out = append(out, Candidate{Tier: t, URL: url})
		}
	}
	switch s.Kind {
	case KindDriver:
		if e, ok := r.catalog.driver(s.ID, s.FamilyName); ok {
			if e.Code != "" {
				add(TierOfficial, r.officialPortrait(e.Code, e.Team))
			}
			add(TierArchival, e.Archival)
		}
		if s.GivenName != "" || s.FamilyName != "" {
			add(TierGenerated, r.catalog.DriverAvatar(s.GivenName, s.FamilyName, s.Nationality))
		}
		add(TierStatic, StaticDriverPortrait)
	case KindCircuit:
		if e, ok := r.catalog.circuit(s.ID, s.Name); ok {
			if e.Official != "" {
				add(TierOfficial, officialCircuitMap(e.Official))
			}
			add(TierArchival, e.Archival)
		}
		name := s.Name
		if name == "" {
			name = prettyID(s.ID)
		}
		if name != "" {
			add(TierGenerated, CircuitPlaceholder(name))
		}
		add(TierStatic, StaticCircuitMap)
	case KindTeam:
		e, ok := r.catalog.team(s.ID, s.Name)
		if ok {
			if e.Official != "" {
				add(TierOfficial, r.officialTeamLogo(e.Official))
			}
			add(TierArchival, e.Archival)
		}
		if s.ID != "" || s.Name != "" {
			add(TierGenerated, TeamBadge(teamLabel(s, e), teamColor(e)))
		}
		add(TierStatic, StaticTeamBadge)
	default:
		add(TierStatic, StaticDriverPortrait)
	}
	return out
}

// Resolve returns the first applicable tier for s. It performs no I/O.
func (r *Resolver) Resolve(s Subject) Candidate {
	return r.Candidates(s)[0]
}

func (r *Resolver) officialPortrait(code, team string) string {
	y := r.year
	return fmt.Sprintf("https://media.formula1.com/image/upload/c_lfill,w_440/q_auto/d_common:f1:%d:fallback:driver:%dfallbackdriverright.webp/v1740000000/common/f1/%d/%s/%s/%d%s%sright.webp",
		y, y, y, team, code, y, team, code)
}

func (r *Resolver) officialTeamLogo(slug string) string {
	return fmt.Sprintf("https://media.formula1.com/image/upload/c_lfill,w_48/q_auto/v1740000000/common/f1/%d/%s/%dlogowhite.webp",
		r.year, slug, r.year)
}

func officialCircuitMap(slug string) string {
	return "https://media.formula1.com/image/upload/f_auto,c_limit,q_auto,w_1320/content/dam/fom-website/2018-redesign-assets/Circuit%20maps%2016x9/" + slug + "_Circuit"
}

func teamLabel(s Subject, e TeamEntry) string {
	switch {
	case e.Label != "":
		return e.Label
	case s.Name != "":
		return strings.ToUpper(s.Name)
	}
	return strings.ToUpper(strings.ReplaceAll(s.ID, "_", " "))
}

func teamColor(e TeamEntry) string {
	if e.Color != "" {
		return e.Color
	}
	return DefaultTeamColor
}

// Probe walks the candidates of s in order and returns the first one that
// can be fetched. Remote tiers get the tier timeout each; once the ceiling
// has passed, remaining remote tiers are skipped. Generated and static
// tiers are accepted without probing, so Probe always returns a value.
func (r *Resolver) Probe(ctx context.Context, s Subject) Candidate {
	ctx, cancel := context.WithTimeout(ctx, r.ceiling)
	defer cancel()

	candidates := r.Candidates(s)
	for _, c := range candidates {
		if !c.Tier.remote() || IsDataURI(c.URL) {
			return c
		}
		if ctx.Err() != nil {
			r.logger.Debug("probe ceiling reached, skipping tier",
				log.String("id", s.ID),
				log.String("tier", c.Tier.String()))
			continue
		}
		if r.probeOne(ctx, c.URL, r.tierTimeout) {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

// ProbeWithFallback returns primary if it can be fetched within the tier
// timeout and fallback otherwise.
func (r *Resolver) ProbeWithFallback(ctx context.Context, primary, fallback string) string {
	if IsDataURI(primary) || r.probeOne(ctx, primary, r.tierTimeout) {
		return primary
	}
	return fallback
}

// probeOne reports whether url could be fetched within timeout. The probe
// runs in its own goroutine and reports exactly once on a buffered channel;
// when the timeout wins its context is cancelled and a late answer is
// dropped with the channel.
func (r *Resolver) probeOne(ctx context.Context, url string, timeout time.Duration) bool {
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- r.prober.Probe(pctx, url)
	}()

	select {
	case err := <-done:
		if err == nil && pctx.Err() != nil {
			err = pctx.Err()
		}
		if err != nil {
			r.logger.Debug("probe failed", log.String("url", url), log.ErrorField(err))
			return false
		}
		return true
	case <-pctx.Done():
		r.logger.Debug("probe timed out", log.String("url", url), log.Duration("timeout", timeout))
		return false
	}
}

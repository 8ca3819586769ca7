package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSVG(t *testing.T, ref string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(ref, svgDataPrefix), ref)
	svg, err := url.PathUnescape(strings.TrimPrefix(ref, svgDataPrefix))
	require.NoError(t, err)
	return svg
}

func newResolver(opts ...Option) *Resolver {
	return NewResolver(append([]Option{WithSeasonYear(2025)}, opts...)...)
}

func TestResolveDriver(t *testing.T) {
	r := newResolver()
	tests := []struct {
		name     string
		subject  Subject
		wantTier Tier
		contains string
	}{
		{
			name:     "known id",
			subject:  Subject{Kind: KindDriver, ID: "verstappen", GivenName: "Max", FamilyName: "Verstappen"},
			wantTier: TierOfficial,
			contains: "maxver01",
		},
		{
			name:     "family name fallback",
			subject:  Subject{Kind: KindDriver, ID: "max_verstappen", FamilyName: "Verstappen"},
			wantTier: TierOfficial,
			contains: "/2025/redbull/maxver01/",
		},
		{
			name:     "diacritics are folded",
			subject:  Subject{Kind: KindDriver, ID: "hulkenberg_nico", FamilyName: "Hülkenberg"},
			wantTier: TierOfficial,
			contains: "nichul01",
		},
		{
			name:     "archival only",
			subject:  Subject{Kind: KindDriver, ID: "senna", GivenName: "Ayrton", FamilyName: "Senna"},
			wantTier: TierArchival,
			contains: "upload.wikimedia.org",
		},
		{
			name:     "unknown with names",
			subject:  Subject{Kind: KindDriver, ID: "doe", GivenName: "John", FamilyName: "Doe"},
			wantTier: TierGenerated,
			contains: svgDataPrefix,
		},
		{
			name:     "unknown without names",
			subject:  Subject{Kind: KindDriver, ID: "unknown"},
			wantTier: TierStatic,
			contains: "fallback",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.subject)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Contains(t, got.URL, tt.contains)
		})
	}
}

func TestCandidatesOrder(t *testing.T) {
	r := newResolver()
	c := r.Candidates(Subject{Kind: KindDriver, ID: "hamilton", GivenName: "Lewis", FamilyName: "Hamilton", Nationality: "British"})
	require.Len(t, c, 4)
	for i, want := range []Tier{TierOfficial, TierArchival, TierGenerated, TierStatic} {
		assert.Equal(t, want, c[i].Tier)
	}
	assert.Contains(t, c[1].URL, "Lewis_Hamilton")
	assert.Equal(t, StaticDriverPortrait, c[3].URL)
}

func TestResolveCircuit(t *testing.T) {
	r := newResolver()

	monaco := r.Resolve(Subject{Kind: KindCircuit, ID: "monaco"})
	assert.Equal(t, TierOfficial, monaco.Tier)
	assert.Contains(t, monaco.URL, "Monaco_Circuit")

	byName := r.Candidates(Subject{Kind: KindCircuit, ID: "interlagos_old", Name: "Autódromo José Carlos Pace"})
	assert.Equal(t, TierOfficial, byName[0].Tier)
	assert.Equal(t, TierArchival, byName[1].Tier)
	assert.Contains(t, byName[1].URL, "Interlagos")

	unknown := r.Resolve(Subject{Kind: KindCircuit, ID: "new_street_track"})
	assert.Equal(t, TierGenerated, unknown.Tier)
	assert.Contains(t, decodeSVG(t, unknown.URL), "New Street Track")

	named := r.Resolve(Subject{Kind: KindCircuit, ID: "x", Name: "Madring"})
	assert.Contains(t, decodeSVG(t, named.URL), "Madring")

	assert.Equal(t, Candidate{Tier: TierStatic, URL: StaticCircuitMap}, r.Resolve(Subject{Kind: KindCircuit}))
}

func TestResolveTeam(t *testing.T) {
	r := newResolver()

	assert.Equal(t, TierOfficial, r.Resolve(Subject{Kind: KindTeam, ID: "mclaren"}).Tier)
	assert.Equal(t, TierArchival, r.Resolve(Subject{Kind: KindTeam, ID: "brabham"}).Tier)

	legacy := r.Resolve(Subject{Kind: KindTeam, ID: "force_india"})
	assert.Equal(t, TierGenerated, legacy.Tier)
	svg := decodeSVG(t, legacy.URL)
	assert.Contains(t, svg, "FORCE INDIA")
	assert.Contains(t, svg, "#FF80C7")

	// unknown ids fall back to the team name
	byName := r.Resolve(Subject{Kind: KindTeam, ID: "red_bull_racing", Name: "RED BULL racing"})
	assert.Equal(t, TierOfficial, byName.Tier)
	assert.Contains(t, byName.URL, "redbullracing")
	assert.Equal(t, TierArchival, r.Resolve(Subject{Kind: KindTeam, Name: "Brabham"}).Tier)

	unknown := decodeSVG(t, r.Resolve(Subject{Kind: KindTeam, ID: "new_team"}).URL)
	assert.Contains(t, unknown, "NEW TEAM")
	assert.Contains(t, unknown, DefaultTeamColor)
}

func TestDriverAvatar(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		name               string
		given, family, nat string
		initials, color    string
	}{
		{name: "initials", given: "Max", family: "Verstappen", nat: "Netherlands", initials: "MV", color: DefaultAvatarColor},
		{name: "nationality color", given: "Lewis", family: "Hamilton", nat: "British", initials: "LH", color: "#E63946"},
		{name: "unknown nationality", given: "John", family: "Doe", nat: "Unknown", initials: "JD", color: "#6C757D"},
		{name: "single characters", given: "A", family: "B", nat: "German", initials: "AB", color: "#2D3436"},
		{name: "long names", given: "Alexander", family: "Vandenberghe", nat: "Belgian", initials: "AV", color: "#FDDA24"},
		{name: "accents", given: "José", family: "María", nat: "Spanish", initials: "JM", color: "#F4A261"},
		{name: "lower case", given: "max", family: "verstappen", nat: "Dutch", initials: "mv", color: "#FF6B35"},
		{name: "mixed case", given: "nyck", family: "De Vries", nat: "Dutch", initials: "nD", color: "#FF6B35"},
		{name: "no names", initials: "?", color: DefaultAvatarColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := decodeSVG(t, c.DriverAvatar(tt.given, tt.family, tt.nat))
			assert.Contains(t, svg, ">"+tt.initials+"<")
			assert.Contains(t, svg, tt.color)
			assert.Contains(t, svg, tt.nat)
		})
	}
}

func TestDriverAvatarDeterministic(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t,
		c.DriverAvatar("Charles", "Leclerc", "Monegasque"),
		c.DriverAvatar("Charles", "Leclerc", "Monegasque"))
	assert.Equal(t, "éo", Initials("élodie", "  olsen"))
	assert.Equal(t, "L", Initials("", "Leclerc"))
}

func TestDriverImages(t *testing.T) {
	r := newResolver()

	imgs := r.DriverImages(Subject{ID: "verstappen", GivenName: "Max", FamilyName: "Verstappen", Nationality: "Dutch"}, "red_bull")
	assert.Contains(t, imgs.Driver, "media.formula1.com")
	assert.Contains(t, imgs.DriverAvatar, svgDataPrefix)
	assert.Contains(t, imgs.Team, "redbullracing")
	assert.Equal(t, Helmet, imgs.Helmet)

	noTeam := r.DriverImages(Subject{ID: "test", GivenName: "Sebastian", FamilyName: "Vettel"}, "")
	assert.NotEmpty(t, noTeam.Driver)
	assert.Empty(t, noTeam.Team)

	circuit := r.CircuitImages(Subject{ID: "spa"})
	assert.Equal(t, circuit.Circuit, circuit.TrackMap)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
drivers:
  Bortoleto:
    code: gabbor01
    team: kicksauber
circuits:
  madring:
    archival: https://example.com/madring.png
circuitNames:
  Madring Street Circuit: madring
nationalityColors:
  Brazilian: "#123456"
`), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	r := newResolver(WithCatalog(c))

	assert.Contains(t, r.Resolve(Subject{Kind: KindDriver, ID: "gabriel_bortoleto", FamilyName: "Bortoleto"}).URL, "gabbor01")
	assert.Equal(t, "https://example.com/madring.png", r.Resolve(Subject{Kind: KindCircuit, ID: "x", Name: "madring street circuit"}).URL)
	assert.Contains(t, c.DriverAvatar("Gabriel", "Bortoleto", "Brazilian"), "%23123456")
	// built-in entries survive
	assert.Equal(t, TierOfficial, r.Resolve(Subject{Kind: KindDriver, ID: "norris"}).Tier)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestProbeFirstSuccessWins(t *testing.T) {
	var mu sync.Mutex
	var probed []string
	prober := ProberFunc(func(ctx context.Context, ref string) error {
		mu.Lock()
		probed = append(probed, ref)
		mu.Unlock()
		if strings.Contains(ref, "media.formula1.com") {
			return errors.New("404")
		}
		return nil
	})
	r := newResolver(WithProber(prober))

	got := r.Probe(context.Background(), Subject{Kind: KindDriver, ID: "hamilton", GivenName: "Lewis", FamilyName: "Hamilton"})
	assert.Equal(t, TierArchival, got.Tier)
	assert.Len(t, probed, 2)
}

func TestProbeTimeoutAdvances(t *testing.T) {
	var late atomic.Bool
	prober := ProberFunc(func(ctx context.Context, ref string) error {
		<-ctx.Done()
		late.Store(true)
		return nil // a late success must not count
	})
	r := newResolver(WithProber(prober), WithTimeouts(20*time.Millisecond, time.Second))

	got := r.Probe(context.Background(), Subject{Kind: KindDriver, ID: "norris", GivenName: "Lando", FamilyName: "Norris"})
	assert.Equal(t, TierGenerated, got.Tier)
	assert.Eventually(t, late.Load, time.Second, 5*time.Millisecond)
}

func TestProbeCeilingSkipsRemoteTiers(t *testing.T) {
	var calls atomic.Int32
	prober := ProberFunc(func(ctx context.Context, ref string) error {
		calls.Add(1)
		<-ctx.Done()
		return ctx.Err()
	})
	r := newResolver(WithProber(prober), WithTimeouts(time.Second, 30*time.Millisecond))

	start := time.Now()
	got := r.Probe(context.Background(), Subject{Kind: KindDriver, ID: "lewis", FamilyName: "Hamilton"})
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, TierGenerated, got.Tier)
	assert.Equal(t, int32(1), calls.Load())
}

func TestProbeStaticNeverProbed(t *testing.T) {
	prober := ProberFunc(func(ctx context.Context, ref string) error {
		t.Errorf("unexpected probe of %s", ref)
		return nil
	})
	r := newResolver(WithProber(prober))

	got := r.Probe(context.Background(), Subject{Kind: KindDriver, ID: "unknown"})
	assert.Equal(t, Candidate{Tier: TierStatic, URL: StaticDriverPortrait}, got)
}

func TestProbeWithFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	r := newResolver(WithProber(NewHTTPProber(srv.Client())))
	ctx := context.Background()

	assert.Equal(t, srv.URL+"/ok.png", r.ProbeWithFallback(ctx, srv.URL+"/ok.png", "fallback"))
	assert.Equal(t, "fallback", r.ProbeWithFallback(ctx, srv.URL+"/missing.png", "fallback"))
	assert.Equal(t, "fallback", r.ProbeWithFallback(ctx, srv.URL+"/page", "fallback"))
	assert.Equal(t, Helmet, r.ProbeWithFallback(ctx, Helmet, "fallback"))
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Circuit")
	assert.True(t, ok)
	assert.Equal(t, KindCircuit, k)
	_, ok = ParseKind("car")
	assert.False(t, ok)
}

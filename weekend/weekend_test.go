//nolint:funlen // ok for tests
package weekend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitwall/model"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func kinds(w *Weekend) []Kind {
	out := make([]Kind, 0, len(w.Sessions()))
	for _, s := range w.Sessions() {
		out = append(out, s.Kind)
	}
	return out
}

func sprintWeekend() model.Race {
	return model.Race{
		Season:        "2024",
		Round:         "6",
		RaceName:      "Miami Grand Prix",
		Date:          "2024-05-05",
		Time:          "20:00:00Z",
		FirstPractice: &model.SessionDate{Date: "2024-05-03", Time: "16:30:00Z"},
		Sprint:        &model.SessionDate{Date: "2024-05-04", Time: "16:00:00Z"},
		Qualifying:    &model.SessionDate{Date: "2024-05-04", Time: "20:00:00Z"},
	}
}

func TestNewSessionCount(t *testing.T) {
	tests := []struct {
		name string
		race model.Race
		want int
	}{
		{name: "race only", race: model.Race{Date: "1950-05-13"}, want: 1},
		{name: "sprint weekend", race: sprintWeekend(), want: 4},
		{
			name: "classic weekend",
			race: model.Race{
				Date:           "2024-03-02",
				Time:           "15:00:00Z",
				FirstPractice:  &model.SessionDate{Date: "2024-02-29", Time: "11:30:00Z"},
				SecondPractice: &model.SessionDate{Date: "2024-02-29", Time: "15:00:00Z"},
				ThirdPractice:  &model.SessionDate{Date: "2024-03-01", Time: "12:30:00Z"},
				Qualifying:     &model.SessionDate{Date: "2024-03-01", Time: "16:00:00Z"},
			},
			want: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(tt.race, now)
			assert.Len(t, w.Sessions(), tt.want)
			assert.NotNil(t, w.Session(KindRace))
			for _, s := range w.Sessions() {
				assert.Equal(t, NotRequested, s.State())
				_, ok := s.Results()
				assert.False(t, ok)
			}
		})
	}
}

func TestNewSessionOrder(t *testing.T) {
	w := New(sprintWeekend(), now)
	want := []Kind{KindPractice1, KindSprint, KindQualifying, KindRace}
	if diff := cmp.Diff(want, kinds(w)); diff != "" {
		t.Errorf("session order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2024-05-03", w.WeekendStart())
}

func TestNewPracticeAndRaceOnly(t *testing.T) {
	race := model.Race{
		Date:          "2024-06-09",
		FirstPractice: &model.SessionDate{Date: "2024-06-07"},
	}
	w := New(race, now)
	assert.Equal(t, []Kind{KindPractice1, KindRace}, kinds(w))
}

func TestNewMissingTimeSortsAtStartOfDay(t *testing.T) {
	race := model.Race{
		Date:       "2024-06-09",
		Time:       "00:00:01Z",
		Qualifying: &model.SessionDate{Date: "2024-06-09"},
	}
	w := New(race, now)
	assert.Equal(t, []Kind{KindQualifying, KindRace}, kinds(w))
}

func TestNewStableForEqualTimestamps(t *testing.T) {
	race := model.Race{
		Date:           "2024-06-09",
		FirstPractice:  &model.SessionDate{Date: "2024-06-09"},
		SecondPractice: &model.SessionDate{Date: "2024-06-09"},
		Sprint:         &model.SessionDate{Date: "2024-06-09"},
	}
	w := New(race, now)
	assert.Equal(t, []Kind{KindPractice1, KindPractice2, KindSprint, KindRace}, kinds(w))
}

func TestNewMalformedDatesSortLast(t *testing.T) {
	race := model.Race{
		Date:           "TBA",
		FirstPractice:  &model.SessionDate{Date: "not-a-date"},
		SecondPractice: &model.SessionDate{Date: "2024-06-08", Time: "12:00:00Z"},
		Qualifying:     &model.SessionDate{Date: ""},
	}
	var w *Weekend
	require.NotPanics(t, func() { w = New(race, now) })
	assert.Equal(t, []Kind{KindPractice2, KindPractice1, KindQualifying, KindRace}, kinds(w))
	assert.Equal(t, "2024-06-08", w.WeekendStart())
	assert.False(t, w.IsUpcoming())
}

func TestIsUpcoming(t *testing.T) {
	day := "2024-06-01"
	tests := []struct {
		name string
		time string
		now  time.Time
		want bool
	}{
		{"no time, morning", "", time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), true},
		{"no time, just before end of day", "", time.Date(2024, 6, 1, 23, 59, 58, 0, time.UTC), true},
		{"no time, end of day", "", time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC), false},
		{"no time, next day", "", time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), false},
		{"with time, before", "13:00:00Z", time.Date(2024, 6, 1, 12, 59, 59, 0, time.UTC), true},
		{"with time, at start", "13:00:00Z", time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC), false},
		{"with time, after", "13:00:00Z", time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(model.Race{Date: day, Time: tt.time}, tt.now)
			assert.Equal(t, tt.want, w.IsUpcoming())
		})
	}
}

func TestWeekendJSON(t *testing.T) {
	w := New(sprintWeekend(), now)
	require.NoError(t, w.Session(KindSprint).BeginLoad())

	data, err := json.Marshal(w)
	require.NoError(t, err)

	var got struct {
		RaceName     string `json:"raceName"`
		IsUpcoming   bool   `json:"isUpcoming"`
		WeekendStart string `json:"weekendStart"`
		Sessions     []struct {
			Type      string `json:"type"`
			IsLoaded  bool   `json:"isLoaded"`
			IsLoading bool   `json:"isLoading"`
		} `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Miami Grand Prix", got.RaceName)
	assert.False(t, got.IsUpcoming)
	assert.Equal(t, "2024-05-03", got.WeekendStart)
	require.Len(t, got.Sessions, 4)
	assert.Equal(t, "sprint", got.Sessions[1].Type)
	assert.True(t, got.Sessions[1].IsLoading)
	assert.False(t, got.Sessions[1].IsLoaded)
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("qualifying")
	assert.True(t, ok)
	assert.Equal(t, KindQualifying, k)
	_, ok = ParseKind("warmup")
	assert.False(t, ok)
}

package season

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"pitwall/weekend"
)

var sessionLength = map[weekend.Kind]time.Duration{
	weekend.KindPractice1:  time.Hour,
	weekend.KindPractice2:  time.Hour,
	weekend.KindPractice3:  time.Hour,
	weekend.KindQualifying: time.Hour,
	weekend.KindSprint:     time.Hour,
	weekend.KindRace:       2 * time.Hour,
}

// Calendar renders the sessions of the given weekends as an iCalendar
// feed. Sessions without a time become all-day events, sessions without a
// valid date are left out.
func Calendar(name string, weekends []*weekend.Weekend, stamp time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//pitwall//season//EN")
	cal.SetXWRCalName(name)

	for _, w := range weekends {
		location := fmt.Sprintf("%s, %s", w.Race.Circuit.Location.Locality, w.Race.Circuit.Location.Country)
		for _, s := range w.Sessions() {
			start, timed, ok := s.Start()
			if !ok {
				continue
			}
			event := cal.AddEvent(fmt.Sprintf("%s-%s-%s@pitwall", w.Season(), w.Round(), s.Kind))
			event.SetDtStampTime(stamp)
			event.SetSummary(fmt.Sprintf("%s - %s", w.Race.RaceName, s.Name))
			event.SetLocation(location)
			event.SetDescription(w.Race.Circuit.CircuitName)
			if w.Race.URL != "" {
				event.SetURL(w.Race.URL)
			}
			if timed {
				event.SetStartAt(start)
				event.SetEndAt(start.Add(sessionLength[s.Kind]))
			} else {
				event.SetAllDayStartAt(start)
				event.SetAllDayEndAt(start.AddDate(0, 0, 1))
			}
		}
	}
	return cal
}

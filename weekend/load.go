package weekend

import (
	"context"
	"errors"
	"fmt"

	"pitwall/model"
)

var ErrNoSession = errors.New("weekend has no such session")

// ResultsFetcher retrieves the results of one session of a weekend.
type ResultsFetcher func(ctx context.Context, w *Weekend, kind Kind) ([]model.Result, error)

// LoadSession returns the results of the session, fetching them on first
// use. Loaded results are cached in the session and never fetched again.
// A concurrent second load of the same session fails with ErrLoadInProgress.
func (w *Weekend) LoadSession(ctx context.Context, kind Kind, fetch ResultsFetcher) ([]model.Result, error) {
	s := w.Session(kind)
	if s == nil {
		return nil, fmt.Errorf("%s round %s %s: %w", w.Race.Season, w.Race.Round, kind, ErrNoSession)
	}
	if results, ok := s.Results(); ok {
		return results, nil
	}
	if err := s.BeginLoad(); err != nil {
		if errors.Is(err, ErrAlreadyLoaded) {
			results, _ := s.Results()
			return results, nil
		}
		return nil, err
	}
	results, err := fetch(ctx, w, kind)
	if err != nil {
		_ = s.AbortLoad()
		return nil, err
	}
	_ = s.CompleteLoad(results)
	results, _ = s.Results()
	return results, nil
}

package events

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// dateLayouts cover the free-text formats the catalog and the LLM produce.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2006-01-02",
	"01/02/2006",
	"2 January 2006",
}

// IsFutureEvent reports whether the event's date is today or later. Events
// without a date, or with a date no layout can parse, pass: the check only
// rejects events known to be in the past.
func IsFutureEvent(e Event, now time.Time) bool {
	dateStr := strings.TrimSpace(e.Date)
	if dateStr == "" {
		return true
	}

	// Date ranges like "May 15-17" are judged by their first part.
	if idx := strings.Index(dateStr, "-"); idx > 0 && !strings.Contains(dateStr[:idx], "/") {
		if t, ok := parseEventDate(dateStr[:idx]); ok {
			return !t.Before(now.Truncate(24 * time.Hour))
		}
	}

	t, ok := parseEventDate(dateStr)
	if !ok {
		log.Debug().Str("date", dateStr).Msg("Unparseable event date, keeping event")
		return true
	}
	return !t.Before(now.Truncate(24 * time.Hour))
}

func parseEventDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Month-and-day dates assume the current year.
	year := time.Now().Year()
	for _, layout := range []string{"January 2", "Jan 2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.AddDate(year, 0, 0), true
		}
	}
	return time.Time{}, false
}

// URLValidator checks event URLs with HEAD requests. With failOpen set,
// network errors count as valid; only a definite >=400 response rejects.
type URLValidator struct {
	httpc    *http.Client
	failOpen bool
}

// NewURLValidator creates a validator with the given per-request timeout.
func NewURLValidator(timeout time.Duration, failOpen bool) *URLValidator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &URLValidator{
		httpc:    &http.Client{Timeout: timeout},
		failOpen: failOpen,
	}
}

// Valid reports whether the URL responds with a non-error status.
func (v *URLValidator) Valid(ctx context.Context, rawURL string) bool {
	if rawURL == "" {
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return v.failOpen
	}
	resp, err := v.httpc.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Bool("fail_open", v.failOpen).Msg("URL validation request failed")
		return v.failOpen
	}
	resp.Body.Close()
	return resp.StatusCode < 400
}

// filterValid keeps events that are in the future and, for generated
// events, carry a URL that validates. Catalog events are not URL-gated.
// URL checks fan out concurrently.
func (r *Ranker) filterValid(ctx context.Context, evs []Event) []Event {
	now := time.Now()
	keep := make([]bool, len(evs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range evs {
		i := i
		ev := evs[i]
		g.Go(func() error {
			if !IsFutureEvent(ev, now) {
				log.Info().Str("event", ev.Name).Str("date", ev.Date).Msg("Event rejected, already past")
				return nil
			}
			if ev.Source == SourceGenerated {
				if ev.URL == "" {
					log.Info().Str("event", ev.Name).Msg("Event rejected, no URL")
					return nil
				}
				if !r.validator.Valid(gctx, ev.URL) {
					log.Info().Str("event", ev.Name).Str("url", ev.URL).Msg("Event rejected, URL did not validate")
					return nil
				}
			}
			keep[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Event, 0, len(evs))
	for i, ev := range evs {
		if keep[i] {
			out = append(out, ev)
		}
	}
	return out
}

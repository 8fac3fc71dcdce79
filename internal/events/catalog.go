package events

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Catalog holds locally curated events loaded from a CSV export. The file
// has one row per event-speaker pair; rows sharing a URL are merged into a
// single event carrying all its speakers.
type Catalog struct {
	mu     sync.RWMutex
	path   string
	events []Event
}

// NewCatalog creates a catalog bound to path. Call Load to populate it.
func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

// Path returns the CSV file path the catalog loads from.
func (c *Catalog) Path() string { return c.path }

// Load reads the CSV file and replaces the in-memory event set. A missing
// file leaves the catalog empty and is not an error; a malformed file is.
func (c *Catalog) Load() error {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", c.path).Msg("Catalog file not found, serving no local events")
			c.mu.Lock()
			c.events = nil
			c.mu.Unlock()
			return nil
		}
		return fmt.Errorf("catalog: open %s: %w", c.path, err)
	}
	defer f.Close()

	events, err := parseCatalog(f)
	if err != nil {
		return fmt.Errorf("catalog: parse %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.events = events
	c.mu.Unlock()
	log.Info().Str("path", c.path).Int("events", len(events)).Msg("Catalog loaded")
	return nil
}

// Events returns a snapshot of the loaded events.
func (c *Catalog) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// fieldAliases maps the column names seen across CSV exports onto the
// canonical field.
var fieldAliases = map[string][]string{
	"name":        {"event_name", "title"},
	"description": {"event_summary", "summary", "description", "event_detail"},
	"date":        {"event_date", "date", "time"},
	"location":    {"event_location", "location"},
	"url":         {"event_url", "url"},
	"role":        {"speaker_role", "speaker_title"},
}

var backgroundRe = regexp.MustCompile(`(?i)background:\s*([^\n]+)`)
var sentenceSplitRe = regexp.MustCompile(`[.!?]\s+`)

func parseCatalog(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	byURL := make(map[string]*Event)
	var order []string

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(map[string]string, len(header))
		empty := true
		for i, col := range header {
			if i >= len(record) {
				break
			}
			v := strings.TrimSpace(record[i])
			row[col] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		// Some exports shift the URL into the speaker column.
		if strings.HasPrefix(row["speaker_name"], "http") {
			if pick(row, "url") == "" {
				row["event_url"] = row["speaker_name"]
			}
			row["speaker_name"] = row["speaker_company"]
		}

		eventURL := pick(row, "url")
		ev, seen := byURL[eventURL]
		if !seen {
			ev = &Event{
				Name:        pick(row, "name"),
				Description: pick(row, "description"),
				Date:        pick(row, "date"),
				Location:    pick(row, "location"),
				URL:         eventURL,
				Source:      SourceCatalog,
			}
			ev.ConversionPath = row["conversion_path"]
			if ev.ConversionPath == "" {
				name := ev.Name
				if name == "" {
					name = "this event"
				}
				ev.ConversionPath = fmt.Sprintf("Attend %s to network with professionals in your industry.", name)
			}
			byURL[eventURL] = ev
			order = append(order, eventURL)
		}

		addSpeaker(ev, row)
	}

	events := make([]Event, 0, len(order))
	for _, u := range order {
		ev := byURL[u]
		ev.IsTradeShow = IsTradeShow(*ev)
		events = append(events, *ev)
	}
	return events, nil
}

// pick returns the first non-empty aliased column value for field.
func pick(row map[string]string, field string) string {
	for _, col := range fieldAliases[field] {
		if v := row[col]; v != "" {
			return v
		}
	}
	return ""
}

// addSpeaker appends the row's speaker to the event, skipping rows without
// a speaker name and names already recorded.
func addSpeaker(ev *Event, row map[string]string) {
	name := row["speaker_name"]
	if name == "" {
		return
	}
	for _, s := range ev.Speakers {
		if s.Name == name {
			return
		}
	}

	ev.Speakers = append(ev.Speakers, Speaker{
		Name:       name,
		Role:       pick(row, "role"),
		Company:    row["speaker_company"],
		LinkedIn:   normalizeLinkedIn(row["speaker_linkedin"]),
		Background: extractBackground(row["speaker_insight"]),
	})
}

// normalizeLinkedIn turns a bare domain or username into a full profile URL.
func normalizeLinkedIn(raw string) string {
	if raw == "" || strings.HasPrefix(raw, "http") {
		return raw
	}
	if strings.HasPrefix(raw, "linkedin.com") || strings.HasPrefix(raw, "www.linkedin.com") {
		return "https://" + raw
	}
	if !strings.Contains(raw, "/") {
		return "https://linkedin.com/in/" + raw
	}
	return raw
}

// extractBackground pulls a background line from the speaker insight text,
// falling back to its first sentence.
func extractBackground(insight string) string {
	if insight == "" {
		return ""
	}
	if m := backgroundRe.FindStringSubmatch(insight); m != nil {
		return strings.TrimSpace(m[1])
	}
	if parts := sentenceSplitRe.Split(insight, 2); len(parts) > 0 {
		return strings.TrimSpace(parts[0])
	}
	return ""
}

package gcal

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

var ErrNotAuthenticated = errors.New("google calendar not authenticated")

// Event is a simplified view of a Google Calendar event, enough for agenda
// listings in chat.
type Event struct {
	ID        string
	Summary   string
	Location  string
	StartTime time.Time
	EndTime   *time.Time
	AllDay    bool
}

// ListEventsInRange returns the primary calendar's events between from and
// to, ordered by start time.
func (c *Client) ListEventsInRange(from, to time.Time) ([]Event, error) {
	if c.service == nil {
		return nil, ErrNotAuthenticated
	}

	call := c.service.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(50)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, err := parseEvent(item, from.Location())
		if err != nil {
			fmt.Printf("Skipping unparseable calendar event %s: %v\n", item.Id, err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// QuickAdd creates an event from free-form text, letting Google's own
// parser place it in time.
func (c *Client) QuickAdd(text string) (*Event, error) {
	if c.service == nil {
		return nil, ErrNotAuthenticated
	}

	item, err := c.service.Events.QuickAdd("primary", text).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to quick-add event: %w", err)
	}

	ev, err := parseEvent(item, time.Local)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func parseEvent(item *calendar.Event, loc *time.Location) (Event, error) {
	if item == nil || item.Start == nil {
		return Event{}, fmt.Errorf("event is missing start")
	}

	ev := Event{
		ID:       item.Id,
		Summary:  item.Summary,
		Location: item.Location,
	}

	// All-day events use Date instead of DateTime.
	if item.Start.Date != "" {
		start, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return Event{}, fmt.Errorf("failed to parse all-day start date: %w", err)
		}
		ev.StartTime = start
		ev.AllDay = true
		return ev, nil
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return Event{}, fmt.Errorf("failed to parse start time: %w", err)
	}
	ev.StartTime = start.In(loc)

	if item.End != nil && item.End.DateTime != "" {
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err == nil {
			e := end.In(loc)
			ev.EndTime = &e
		}
	}
	return ev, nil
}

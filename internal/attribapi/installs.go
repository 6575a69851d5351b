package attribapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"admetrics/internal/model"
)

// FetchInstalls returns the day's install records.
func (c *Client) FetchInstalls(ctx context.Context, date time.Time) ([]model.InstallRecord, error) {
	body, err := c.get(ctx, "installs", dateQuery(date))
	if err != nil {
		return nil, err
	}

	var records []model.InstallRecord
	if err := decodePayload(body, "records", &records); err != nil {
		return nil, err
	}

	for i := range records {
		t, err := time.Parse(model.InstallTimeLayout, records[i].RawInstallTime)
		if err != nil {
			return nil, fmt.Errorf("attribapi: parsing install_time %q: %w", records[i].RawInstallTime, err)
		}
		records[i].InstallTime = t
	}
	return records, nil
}

// eventsEnvelope is the raw events page response.
type eventsEnvelope struct {
	Data     string `json:"data"`
	NextPage string `json:"next_page"`
}

// EventsPage is one page of the cursor-paginated events dataset.
type EventsPage struct {
	Records  []model.EventRecord
	NextPage string
}

// FetchEventsPage returns one page of the day's events. An empty cursor
// requests the first page. A body equal to the API's error sentinel yields
// ErrTransient; the caller retries the same cursor.
func (c *Client) FetchEventsPage(ctx context.Context, date time.Time, cursor string) (EventsPage, error) {
	q := dateQuery(date)
	if cursor != "" {
		q.Set("next_page", cursor)
	}

	body, err := c.get(ctx, "events", q)
	if err != nil {
		return EventsPage{}, err
	}
	if string(body) == "Error" {
		return EventsPage{}, ErrTransient
	}

	var envelope eventsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return EventsPage{}, fmt.Errorf("attribapi: parsing events page: %w", err)
	}

	var records []model.EventRecord
	if err := json.Unmarshal([]byte(envelope.Data), &records); err != nil {
		return EventsPage{}, fmt.Errorf("attribapi: parsing events payload: %w", err)
	}

	for i := range records {
		ms := int64(records[i].RawEventTime)
		records[i].EventTime = time.UnixMilli(ms).UTC().Format("15:04:05")
	}

	return EventsPage{Records: records, NextPage: envelope.NextPage}, nil
}

package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client talks to one Google Calendar.
type Client struct {
	svc        *gcal.Service
	calendarID string
	log        *zap.Logger
}

// NewClient builds an authenticated client from the configured credential
// and token files. There is no interactive flow here: a missing or invalid
// token is an error telling the operator to provision one.
func NewClient(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	secret, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading OAuth client secret %s: %w", cfg.CredentialsFile, err)
	}

	oauthCfg, err := google.ConfigFromJSON(secret, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parsing OAuth client secret: %w", err)
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("loading OAuth token %s (provision it out of band): %w", cfg.TokenFile, err)
	}

	// TokenSource refreshes expired access tokens transparently using the
	// stored refresh token.
	httpClient := oauth2.NewClient(ctx, oauthCfg.TokenSource(ctx, token))
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}

	return &Client{svc: svc, calendarID: cfg.CalendarID, log: log}, nil
}

// Insert creates an event and returns the id Google assigned to it.
func (c *Client) Insert(ctx context.Context, ev *gcal.Event) (string, error) {
	created, err := c.svc.Events.Insert(c.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

// Update overwrites an existing event.
func (c *Client) Update(ctx context.Context, eventID string, ev *gcal.Event) error {
	_, err := c.svc.Events.Update(c.calendarID, eventID, ev).Context(ctx).Do()
	return err
}

// Delete removes an event.
func (c *Client) Delete(ctx context.Context, eventID string) error {
	return c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// ListByPrivateProperty pages through every event carrying the given
// private extended property (e.g. "source=notion-sync"). Used by the reset
// command to find all managed events regardless of state-file contents.
func (c *Client) ListByPrivateProperty(ctx context.Context, property string) ([]*gcal.Event, error) {
	var events []*gcal.Event
	pageToken := ""
	for {
		call := c.svc.Events.List(c.calendarID).
			PrivateExtendedProperty(property).
			SingleEvents(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing events: %w", err)
		}
		events = append(events, page.Items...)

		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

// tokenFromFile reads a persisted oauth2 token.
func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

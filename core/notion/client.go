package notion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"notion-calendar-sync/core/sync"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"
)

// queryPageSize bounds each database query so a huge database never hangs a
// single request.
const queryPageSize = 100

// Client reads one Notion database.
type Client struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID
	titleProp  string
	dateProp   string
	log        *zap.Logger
}

// NewClient builds a Notion client from configuration.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Token == "" || cfg.DatabaseID == "" {
		return nil, fmt.Errorf("notion token and database id must be configured")
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 20
	}

	api := notionapi.NewClient(
		notionapi.Token(cfg.Token),
		notionapi.WithHTTPClient(&http.Client{Timeout: time.Duration(timeout) * time.Second}),
	)

	return &Client{
		api:        api,
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
		titleProp:  cfg.TitleProperty,
		dateProp:   cfg.DateProperty,
		log:        log,
	}, nil
}

// FetchAll pages through the database and returns every non-archived page
// carrying the date property, rendered to the engine's item shape. Page
// content is fetched per item, so this is the expensive call the fingerprint
// short-circuit exists to avoid.
func (c *Client) FetchAll(ctx context.Context) ([]sync.Item, error) {
	var items []sync.Item

	err := c.eachPage(ctx, func(page notionapi.Page) error {
		item, ok := c.toItem(ctx, page)
		if ok {
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Fetched Notion items", zap.Int("count", len(items)))
	return items, nil
}

// EditStamps returns the (id, last-edited) pair of every non-archived page.
// It reuses the database query results and never loads block content, so it
// stays cheap even for large databases.
func (c *Client) EditStamps(ctx context.Context) ([]sync.EditStamp, error) {
	var stamps []sync.EditStamp

	err := c.eachPage(ctx, func(page notionapi.Page) error {
		stamps = append(stamps, sync.EditStamp{
			ID:         string(page.ID),
			LastEdited: page.LastEditedTime.UTC().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stamps, nil
}

// eachPage runs fn over every non-archived page of the database, following
// cursors until the API reports no more results.
func (c *Client) eachPage(ctx context.Context, fn func(notionapi.Page) error) error {
	var cursor notionapi.Cursor
	for {
		resp, err := c.api.Database.Query(ctx, c.databaseID, &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    queryPageSize,
		})
		if err != nil {
			return fmt.Errorf("querying notion database: %w", err)
		}

		for _, page := range resp.Results {
			if page.Archived {
				continue
			}
			if err := fn(page); err != nil {
				return err
			}
		}

		if !resp.HasMore {
			return nil
		}
		cursor = resp.NextCursor
	}
}

// toItem renders one page. ok is false when the page has no date property
// and therefore nothing to put on a calendar.
func (c *Client) toItem(ctx context.Context, page notionapi.Page) (sync.Item, bool) {
	start, end, ok := c.dateRange(page)
	if !ok {
		return sync.Item{}, false
	}

	content, err := c.PageContent(ctx, string(page.ID))
	if err != nil {
		// A page whose content cannot be fetched still syncs; the body is
		// just empty until a later run succeeds.
		c.log.Warn("Failed to fetch page content", zap.String("page_id", string(page.ID)), zap.Error(err))
		content = ""
	}

	return sync.Item{
		ID:          string(page.ID),
		Title:       c.pageTitle(page),
		Start:       start,
		End:         end,
		Description: content,
	}, true
}

// pageTitle extracts the title property, defaulting to "Untitled".
func (c *Client) pageTitle(page notionapi.Page) string {
	prop, ok := page.Properties[c.titleProp].(*notionapi.TitleProperty)
	if !ok || len(prop.Title) == 0 {
		return "Untitled"
	}
	return richText(prop.Title)
}

// dateRange extracts the date property as raw ISO-8601 strings. The end
// falls back to the start when the property has no end.
func (c *Client) dateRange(page notionapi.Page) (start, end string, ok bool) {
	prop, isDate := page.Properties[c.dateProp].(*notionapi.DateProperty)
	if !isDate || prop.Date == nil || prop.Date.Start == nil {
		return "", "", false
	}

	start = formatStamp(*prop.Date.Start)
	end = start
	if prop.Date.End != nil {
		end = formatStamp(*prop.Date.End)
	}
	return start, end, true
}

// formatStamp renders a Notion date back to the wire shape: date-only when
// it carries no time component, RFC 3339 otherwise. A timed value at exactly
// midnight UTC collapses to date-only, which only costs an unnecessary
// update the first time it happens.
func formatStamp(d notionapi.Date) string {
	t := time.Time(d)
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// richText joins the plain-text fragments of a rich text array.
func richText(fragments []notionapi.RichText) string {
	out := ""
	for _, f := range fragments {
		out += f.PlainText
	}
	return out
}

package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
)

// contentPageSize keeps block-children responses small enough that one huge
// page cannot hang a request.
const contentPageSize = 50

// PageContent flattens a page's block children into readable text: bullets
// for list items, upper-cased headings, checkbox markers for to-dos.
func (c *Client) PageContent(ctx context.Context, pageID string) (string, error) {
	var lines []string

	var cursor notionapi.Cursor
	for {
		resp, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(pageID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    contentPageSize,
		})
		if err != nil {
			return "", fmt.Errorf("listing page blocks: %w", err)
		}

		for _, block := range resp.Results {
			if line, ok := renderBlock(block); ok {
				lines = append(lines, line)
			}
		}

		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// renderBlock turns one block into a text line. Blocks with no text content
// (images, dividers, embeds) are dropped.
func renderBlock(block notionapi.Block) (string, bool) {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return nonEmpty(richText(b.Paragraph.RichText))
	case *notionapi.Heading1Block:
		return heading(richText(b.Heading1.RichText))
	case *notionapi.Heading2Block:
		return heading(richText(b.Heading2.RichText))
	case *notionapi.Heading3Block:
		return heading(richText(b.Heading3.RichText))
	case *notionapi.BulletedListItemBlock:
		return listItem(richText(b.BulletedListItem.RichText))
	case *notionapi.NumberedListItemBlock:
		return listItem(richText(b.NumberedListItem.RichText))
	case *notionapi.ToDoBlock:
		text := richText(b.ToDo.RichText)
		if text == "" {
			return "", false
		}
		marker := "☐"
		if b.ToDo.Checked {
			marker = "✅"
		}
		return marker + " " + text, true
	case *notionapi.QuoteBlock:
		return nonEmpty(richText(b.Quote.RichText))
	default:
		return "", false
	}
}

func nonEmpty(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	return text, true
}

func listItem(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	return "• " + text, true
}

func heading(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	return "\n" + strings.ToUpper(text) + "\n", true
}

package sync

import (
	"strings"

	"google.golang.org/api/calendar/v3"
)

const (
	// eventTitlePrefix marks synced events visually in the calendar UI.
	eventTitlePrefix = "‣ "

	// sourceMarkerKey and SourceMarker tag every synced event with a private
	// extended property so maintenance tooling can find them without
	// touching human-created events.
	sourceMarkerKey = "source"
	SourceMarker    = "notion-sync"
)

// SourceMarkerProperty is the key=value filter string accepted by the
// Calendar API's privateExtendedProperty list parameter.
const SourceMarkerProperty = sourceMarkerKey + "=" + SourceMarker

// BuildEventBody maps an item to the Calendar API event shape.
//
// A start containing a time component produces a timed event in UTC; a
// date-only start produces an all-day event. Notion occasionally returns
// mismatched kinds for start and end, so the end is coerced to the start's
// kind: a date-only end on a timed event collapses to the start instant, and
// a timed end on an all-day event is truncated to its date.
func BuildEventBody(item Item) *calendar.Event {
	start := item.Start
	end := item.End
	if end == "" {
		end = start
	}

	var evStart, evEnd *calendar.EventDateTime
	if strings.Contains(start, "T") {
		if !strings.Contains(end, "T") {
			end = start
		}
		evStart = &calendar.EventDateTime{DateTime: start, TimeZone: "UTC"}
		evEnd = &calendar.EventDateTime{DateTime: end, TimeZone: "UTC"}
	} else {
		if i := strings.Index(end, "T"); i >= 0 {
			end = end[:i]
		}
		evStart = &calendar.EventDateTime{Date: start}
		evEnd = &calendar.EventDateTime{Date: end}
	}

	return &calendar.Event{
		Summary:     eventTitlePrefix + item.Title,
		Description: item.Description,
		Start:       evStart,
		End:         evEnd,
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{sourceMarkerKey: SourceMarker},
		},
	}
}

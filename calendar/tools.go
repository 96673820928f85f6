package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nooriai/noori/tool"
)

// timeLayout is the wire format used in tool arguments and results.
const timeLayout = "2006-01-02 15:04"

// AddEventTool exposes Store.Add as the calendar_add_event capability.
func AddEventTool(store *Store) tool.Tool {
	return tool.NewFunctionTool(
		"calendar_add_event",
		"Adds an event to the user's calendar. Times use the format 2006-01-02 15:04 in the user's local timezone.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"start": map[string]any{
					"type":        "string",
					"description": "Event start, e.g. 2026-03-14 09:30.",
				},
				"end": map[string]any{
					"type":        "string",
					"description": "Event end. Defaults to one hour after start.",
				},
				"location": map[string]any{"type": "string"},
				"notes":    map[string]any{"type": "string"},
			},
			"required": []string{"title", "start"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			title, _ := args["title"].(string)
			location, _ := args["location"].(string)
			notes, _ := args["notes"].(string)

			start, err := parseTime(args["start"])
			if err != nil {
				return nil, tool.NewToolError("calendar_add_event", err.Error(), "VALIDATION_ERROR")
			}
			var end time.Time
			if _, ok := args["end"]; ok {
				if end, err = parseTime(args["end"]); err != nil {
					return nil, tool.NewToolError("calendar_add_event", err.Error(), "VALIDATION_ERROR")
				}
			}

			ev, err := store.Add(ctx, Event{
				Title:    title,
				Start:    start,
				End:      end,
				Location: location,
				Notes:    notes,
			})
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Added %q on %s.", ev.Title, ev.Start.Format(timeLayout)), nil
		},
	)
}

// ListEventsTool exposes Store.List as the calendar_list_events capability.
func ListEventsTool(store *Store) tool.Tool {
	return tool.NewFunctionTool(
		"calendar_list_events",
		"Lists calendar events in a time range. Times use the format 2006-01-02 15:04.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"from": map[string]any{
					"type":        "string",
					"description": "Range start. Defaults to now.",
				},
				"until": map[string]any{
					"type":        "string",
					"description": "Range end. Defaults to seven days after from.",
				},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			from := time.Now()
			if _, ok := args["from"]; ok {
				var err error
				if from, err = parseTime(args["from"]); err != nil {
					return nil, tool.NewToolError("calendar_list_events", err.Error(), "VALIDATION_ERROR")
				}
			}
			until := from.Add(7 * 24 * time.Hour)
			if _, ok := args["until"]; ok {
				var err error
				if until, err = parseTime(args["until"]); err != nil {
					return nil, tool.NewToolError("calendar_list_events", err.Error(), "VALIDATION_ERROR")
				}
			}

			events, err := store.List(ctx, from, until)
			if err != nil {
				return nil, err
			}
			if len(events) == 0 {
				return "No events in that range.", nil
			}

			var b strings.Builder
			for i, ev := range events {
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "%s - %s: %s",
					ev.Start.Format(timeLayout), ev.End.Format("15:04"), ev.Title)
				if ev.Location != "" {
					fmt.Fprintf(&b, " (%s)", ev.Location)
				}
			}
			return b.String(), nil
		},
	)
}

func parseTime(v any) (time.Time, error) {
	s, _ := v.(string)
	t, err := time.ParseInLocation(timeLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected format %s", s, timeLayout)
	}
	return t, nil
}

package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/nooriai/noori/tool"
)

// SearchTool exposes Store.Search as the knowledge_search capability.
func SearchTool(store Store) tool.Tool {
	return tool.NewFunctionTool(
		"knowledge_search",
		"Searches the personal knowledge base for notes matching a query. Returns matching topics and their content.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Text to look for in topics and note content.",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of notes to return. Defaults to 5.",
				},
			},
			"required": []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			limit := 5
			if l, ok := args["limit"].(float64); ok && l > 0 {
				limit = int(l)
			}

			entries, err := store.Search(ctx, query, limit)
			if err != nil {
				return nil, err
			}
			if len(entries) == 0 {
				return "No matching notes found.", nil
			}

			var b strings.Builder
			for i, e := range entries {
				if i > 0 {
					b.WriteString("\n\n")
				}
				fmt.Fprintf(&b, "Topic: %s\n%s", e.Topic, e.Content)
			}
			return b.String(), nil
		},
	)
}

// UpsertTool exposes Store.Upsert as the knowledge_upsert capability.
func UpsertTool(store Store) tool.Tool {
	return tool.NewFunctionTool(
		"knowledge_upsert",
		"Saves a note to the personal knowledge base. Notes with the same topic are merged, never overwritten.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic": map[string]any{
					"type":        "string",
					"description": "Short topic the note belongs to, e.g. a person or project name.",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "The note text to remember.",
				},
			},
			"required": []string{"topic", "content"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			topic, _ := args["topic"].(string)
			content, _ := args["content"].(string)

			entry, err := store.Upsert(ctx, topic, content)
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Saved note under topic %q.", entry.Topic), nil
		},
	)
}

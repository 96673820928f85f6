package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/nooriai/noori/tool"
)

// SendTool exposes outgoing mail as the email_send capability.
func SendTool(cfg SMTPConfig) tool.Tool {
	return tool.NewFunctionTool(
		"email_send",
		"Sends an email on the user's behalf. Requires recipient addresses, a subject and a body.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"to": map[string]any{
					"type":        "string",
					"description": "Comma-separated recipient addresses.",
				},
				"subject": map[string]any{"type": "string"},
				"body":    map[string]any{"type": "string"},
			},
			"required": []string{"to", "subject", "body"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			toRaw, _ := args["to"].(string)
			subject, _ := args["subject"].(string)
			body, _ := args["body"].(string)

			to := splitAddresses(toRaw)
			if len(to) == 0 {
				return nil, tool.NewToolError("email_send", "no recipients given", "VALIDATION_ERROR")
			}

			msg, err := ComposeMessage(ComposeOptions{
				From:    cfg.From,
				To:      to,
				Subject: subject,
				Body:    body,
			})
			if err != nil {
				return nil, err
			}
			if err := SendMail(ctx, cfg, to, msg); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Email sent to %s.", strings.Join(to, ", ")), nil
		},
	)
}

// ListUnreadTool exposes inbox listing as the email_list_unread capability.
func ListUnreadTool(client *Client) tool.Tool {
	return tool.NewFunctionTool(
		"email_list_unread",
		"Lists the user's unread emails with UID, sender, date and subject.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of messages to return. Defaults to 10.",
				},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			limit := 10
			if l, ok := args["limit"].(float64); ok && l > 0 {
				limit = int(l)
			}

			envelopes, err := client.ListUnseen(ctx, limit)
			if err != nil {
				return nil, err
			}
			if len(envelopes) == 0 {
				return "No unread emails.", nil
			}

			var b strings.Builder
			for i, env := range envelopes {
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "[%d] %s | %s | %s",
					env.UID, env.From, env.Date.Format("2006-01-02 15:04"), env.Subject)
			}
			return b.String(), nil
		},
	)
}

// MarkReadTool exposes flagging as the email_mark_read capability.
func MarkReadTool(client *Client) tool.Tool {
	return tool.NewFunctionTool(
		"email_mark_read",
		"Marks emails as read by their UIDs (as returned by email_list_unread).",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"uids": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "integer"},
					"description": "Message UIDs to mark as read.",
				},
			},
			"required": []string{"uids"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			raw, _ := args["uids"].([]any)
			uids := make([]uint32, 0, len(raw))
			for _, v := range raw {
				if n, ok := v.(float64); ok && n > 0 {
					uids = append(uids, uint32(n))
				}
			}
			if len(uids) == 0 {
				return nil, tool.NewToolError("email_mark_read", "no valid UIDs given", "VALIDATION_ERROR")
			}

			if err := client.MarkSeen(ctx, uids); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Marked %d email(s) as read.", len(uids)), nil
		},
	)
}

func splitAddresses(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

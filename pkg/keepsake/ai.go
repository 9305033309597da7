package keepsake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
	"k8s.io/klog/v2"
)

// DraftModel is the default model used to draft letters.
var DraftModel = "gemini-2.5-flash"

// draftPrompt builds the request for a short letter body.
func draftPrompt(l Letter, now time.Time, hint string) string {
	var sb strings.Builder
	sb.WriteString("Write the body of a short, warm love letter, 2-4 sentences, plain text, ")
	sb.WriteString("no greeting and no signature, no emoji. Separate paragraphs with a single newline. ")
	if l.Partner != "" {
		fmt.Fprintf(&sb, "It is addressed to %s. ", l.Partner)
	}
	if l.Sender != "" {
		fmt.Fprintf(&sb, "It is written by %s. ", l.Sender)
	}
	if days := DaysTogether(l.Since, now); days > 0 {
		fmt.Fprintf(&sb, "They have been together for %d days. ", days)
	}
	if hint = strings.TrimSpace(hint); hint != "" {
		fmt.Fprintf(&sb, "Work in this detail: %s. ", hint)
	}
	return strings.TrimSpace(sb.String())
}

// Draft asks model for a letter body. The reply is trimmed; an empty reply is an error.
func Draft(ctx context.Context, client *genai.Client, model string, l Letter, now time.Time, hint string) (string, error) {
	prompt := draftPrompt(l, now, hint)
	klog.V(1).Infof("draft prompt: %s", prompt)

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.9),
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	body := strings.TrimSpace(resp.Text())
	if body == "" {
		return "", fmt.Errorf("empty draft from %s", model)
	}
	return body, nil
}

package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/llm"
)

const insightSystemPrompt = `You are a concise music listening analyst. Output ONLY the exact format shown - no markdown, no extra text.`

const insightPromptTemplate = `Analyze this week of listening and output EXACTLY this format:

THEME: [ 2-4 word theme ]
➜  One sentence about when the listener listened most.
➜  One suggestion for next week.

Weekly Data (minutes per day, Monday first, "-" = no data yet):
%s

Rules:
- Keep each line under 70 characters
- Be specific with days and durations from the data
- Output plain text only`

// Insight asks the model for a short commentary on the week. An empty
// week gets no insight and no model call.
func Insight(ctx context.Context, client llm.Client, s *WeekSummary, p *chart.Payload) (string, error) {
	if s.Unavailable || s.TotalMinutes() == 0 {
		return "", nil
	}

	prompt := fmt.Sprintf(insightPromptTemplate, FormatWeekData(p))
	reply, err := client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: insightSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("requesting insight: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// FormatWeekData renders each series as one line of per-day minutes.
func FormatWeekData(p *chart.Payload) string {
	start, end := p.Range.Format()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Week %s to %s\n", start, end)
	for _, series := range p.Series {
		sb.WriteString(series.Label)
		sb.WriteString(":")
		for i, v := range series.Points {
			sb.WriteString(" ")
			sb.WriteString(dateutil.WeekdayShortName(i))
			sb.WriteString("=")
			if v == nil {
				sb.WriteString("-")
				continue
			}
			fmt.Fprintf(&sb, "%.0f", *v)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

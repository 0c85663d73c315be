package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/llm"
)

// RecentTracks is how many plays are put in front of the model.
const RecentTracks = 20

const systemPromptTemplate = `You are a personalized music insight assistant for user %s.
Here are their %d most recently played tracks:
%s
Your goal is to provide insightful, engaging, and actionable commentary about their listening habits. Analyze trends, patterns, and unique preferences, including genre shifts, favorite artists, moods, or repeated listening behaviors. Reference specific tracks naturally to illustrate insights, but do not just list them. Offer thoughtful recommendations: suggest tracks, artists, or playlists that align with their tastes or might pleasantly surprise them. Keep your responses conversational and concise, as if you are a knowledgeable friend who understands their music preferences.`

// SystemPrompt describes the user's recent plays to the model.
func SystemPrompt(userID string, plays []*listening.Play, userContext string) string {
	var sb strings.Builder
	for i, p := range plays {
		fmt.Fprintf(&sb, "%d. %q by %s (%s)\n", i+1, p.TrackName, p.ArtistName, p.PlayedAt.UTC().Format(time.RFC3339))
	}
	if len(plays) == 0 {
		sb.WriteString("(no plays recorded yet)\n")
	}

	prompt := fmt.Sprintf(systemPromptTemplate, userID, len(plays), sb.String())
	if ctx := strings.TrimSpace(userContext); ctx != "" {
		prompt += "\n\nAdditional context from the user:\n" + ctx
	}
	return prompt
}

// BuildMessages assembles the system prompt, the remembered conversation
// and the new question in the order the model expects.
func BuildMessages(req Request, plays []*listening.Play, history []Message) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: SystemPrompt(req.UserID, plays, req.UserContext),
	})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})
	return messages
}

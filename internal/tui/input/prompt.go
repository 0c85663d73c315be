// Package input interprets what the user types into the TUI prompts.
package input

import "strings"

// PromptCommand describes a slash command available in the chat prompt.
type PromptCommand struct {
	Name        string
	Description string
}

// ChatCommands are the slash commands the chat prompt understands.
var ChatCommands = []PromptCommand{
	{Name: "/clear", Description: "forget this conversation"},
	{Name: "/copy", Description: "copy the last answer"},
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") || strings.Contains(trimmed, " ") {
		return nil
	}

	prefix := strings.ToLower(trimmed)
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name, true
}

// ParseChat splits submitted chat input into a known command or a question.
// Unknown slash words are treated as part of the question.
func ParseChat(input string, commands []PromptCommand) (command, question string) {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)
	for _, cmd := range commands {
		if lower == cmd.Name {
			return cmd.Name, ""
		}
	}
	return "", trimmed
}

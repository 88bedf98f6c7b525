package tools

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt renders the assistant's system prompt, enumerating the
// tools available in the registry so the model knows what it can call.
func BuildSystemPrompt(reg *Registry) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant managing a people directory. ")
	b.WriteString("You can create, look up, list, update and delete people records using the tools below. ")
	b.WriteString("Always use a tool when the user asks about specific people or wants to change records. ")
	b.WriteString("Answer concisely and report the outcome of each action.\n\n")
	b.WriteString("Available tools:\n")
	for _, t := range reg.List() {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name(), t.Description())
		for _, p := range t.Params() {
			req := "optional"
			if p.Required {
				req = "required"
			}
			fmt.Fprintf(&b, "    %s (%s, %s): %s\n", p.Name, p.Type, req, p.Description)
		}
	}
	b.WriteString("\nWhen a tool reports an error, explain it to the user instead of retrying blindly.")
	return b.String()
}

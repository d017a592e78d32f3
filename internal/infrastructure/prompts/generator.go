package prompts

import (
	"bytes"
	"fmt"
	"text/template"
)

type CommandInfo struct {
	Name        string
	Argument    string
	Description string
}

type ExampleInfo struct {
	Request  string
	Response string
}

type PlannerPromptData struct {
	Commands []CommandInfo
	Examples []ExampleInfo
}

// DefaultCommands lists the browser commands the planner may emit, in the
// order they are presented to the model.
var DefaultCommands = []CommandInfo{
	{Name: "open", Argument: "url", Description: "open a web page."},
	{Name: "search", Argument: "query", Description: "perform a Google search."},
	{Name: "click", Argument: "partial link text", Description: "click a link containing the given text."},
}

var DefaultExamples = []ExampleInfo{
	{Request: "Open example.com", Response: `{"command": "open", "args": "example.com"}`},
	{Request: "search cats", Response: `{"command": "search", "args": "cats"}`},
}

func GeneratePlannerPrompt(baseTemplate string, data PlannerPromptData) (string, error) {
	tmpl, err := template.New("planner").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", fmt.Errorf("parse planner template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render planner template: %w", err)
	}

	return buf.String(), nil
}

// DefaultPlannerPrompt renders the embedded template with the default
// commands and examples.
func DefaultPlannerPrompt() (string, error) {
	return GeneratePlannerPrompt(PlannerPrompt, PlannerPromptData{
		Commands: DefaultCommands,
		Examples: DefaultExamples,
	})
}

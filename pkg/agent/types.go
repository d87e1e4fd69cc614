package agent

import (
	"context"
	"encoding/json"
)

// Command is a structured instruction ready for dispatch: a tool name plus
// named arguments. Argument values are whatever the parser or the model
// produced (strings, numbers, or a raw JSON string for batch payloads).
type Command struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// Message is the inbound unit handed to Resolve. Exactly one of the two
// cases is set: an already-structured command, or free text that still
// needs interpretation.
type Message struct {
	cmd  *Command
	text string
}

// NewCommandMessage wraps a structured command.
func NewCommandMessage(cmd Command) Message {
	return Message{cmd: &cmd}
}

// NewTextMessage wraps free text.
func NewTextMessage(text string) Message {
	return Message{text: text}
}

// Command returns the structured command case, if set.
func (m Message) Command() (Command, bool) {
	if m.cmd == nil {
		return Command{}, false
	}
	return *m.cmd, true
}

// Text returns the free-text case, if set.
func (m Message) Text() (string, bool) {
	if m.cmd != nil {
		return "", false
	}
	return m.text, true
}

// Param describes one declared parameter of a tool: its name, whether the
// caller must supply it, and the default used when it is absent. Params are
// ordered; the dispatcher walks them in declaration order.
type Param struct {
	Name     string
	Required bool
	Default  any
}

// ToolSpec describes a registered tool.
type ToolSpec struct {
	Name        string
	Description string
	Params      []Param
}

// Tool is one named operation. Invoke receives an argument map already
// completed by the dispatcher: every declared parameter is present, holding
// the supplied value, the declared default, or nil.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Parser converts free text into a structured command. The boolean is false
// when the text could not be parsed; that is not an error, it only routes
// resolution to the model (or the fallback message).
type Parser interface {
	Parse(text string) (Command, bool)
}

// Result is what Resolve hands back to the chat layer. Exactly one of Data
// and Text is set: Data for structured tool output (including error
// values), Text for model prose that was not a tool call.
type Result struct {
	Data map[string]any
	Text string
}

// Render produces the transcript line for this result: prose as-is,
// structured data as indented JSON.
func (r Result) Render() string {
	if r.Data == nil {
		return r.Text
	}
	out, err := json.MarshalIndent(r.Data, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/conversa-labs/user-agent/pkg/models"
)

// maxReinterpretations bounds the text -> command -> dispatch loop. One pass
// covers the normal flow; the second tolerates a model that answers a
// reinterpreted message with another tool call. Beyond that we give up
// rather than loop.
const maxReinterpretations = 2

// Agent resolves inbound messages against a tool catalog, using the local
// grammar first and the language model as a fallback interpreter.
type Agent struct {
	catalog *Catalog
	parser  Parser
	model   models.Agent
	prompt  string
	log     *zap.Logger
}

// Options configure a new Agent. Parser and Model are each optional; with
// neither set the agent only accepts structured commands.
type Options struct {
	Catalog *Catalog
	Tools   []Tool
	Parser  Parser
	Model   models.Agent
	Prompt  string
	Logger  *zap.Logger
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = NewCatalog()
	}
	for _, tool := range opts.Tools {
		if tool == nil {
			continue
		}
		if err := catalog.Register(tool); err != nil {
			return nil, err
		}
	}
	if len(catalog.Specs()) == 0 {
		return nil, errors.New("agent requires at least one tool")
	}

	prompt := opts.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = InstructionPrompt
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Agent{
		catalog: catalog,
		parser:  opts.Parser,
		model:   opts.Model,
		prompt:  prompt,
		log:     log,
	}, nil
}

// Dispatch executes a structured command. It never fails across the
// boundary: unknown tools and tool errors come back as error values inside
// the result.
func (a *Agent) Dispatch(ctx context.Context, cmd Command) Result {
	tool, spec, ok := a.catalog.Lookup(cmd.Tool)
	if !ok {
		a.log.Warn("unknown tool", zap.String("tool", cmd.Tool))
		return Result{Data: map[string]any{"error": fmt.Sprintf("Unknown tool: %s", cmd.Tool)}}
	}

	// Project the named args onto the declared parameter table: supplied
	// value, else declared default, else nil.
	args := make(map[string]any, len(spec.Params))
	for _, p := range spec.Params {
		if v, present := cmd.Args[p.Name]; present {
			args[p.Name] = v
			continue
		}
		args[p.Name] = p.Default
	}

	out, err := tool.Invoke(ctx, args)
	if err != nil {
		a.log.Warn("tool failed", zap.String("tool", spec.Name), zap.Error(err))
		return Result{Data: map[string]any{"error": err.Error()}}
	}
	a.log.Debug("tool dispatched", zap.String("tool", spec.Name))
	return Result{Data: out}
}

// Resolve is the top-level entry point. Structured commands go straight to
// Dispatch; free text is fed through the grammar, then the model, and a
// structured reply re-enters the loop. Every branch terminates in a value.
func (a *Agent) Resolve(ctx context.Context, msg Message) Result {
	for depth := 0; depth <= maxReinterpretations; depth++ {
		if cmd, ok := msg.Command(); ok {
			return a.Dispatch(ctx, cmd)
		}

		text, ok := msg.Text()
		if !ok || strings.TrimSpace(text) == "" {
			break
		}

		if a.parser != nil {
			if cmd, parsed := a.parser.Parse(text); parsed {
				a.log.Debug("grammar matched", zap.String("tool", cmd.Tool))
				msg = NewCommandMessage(cmd)
				continue
			}
		}

		if a.model == nil {
			break
		}

		reply, err := a.model.Generate(ctx, a.prompt+"\n\n"+text)
		if err != nil {
			a.log.Error("model call failed", zap.Error(err))
			return Result{Data: map[string]any{"error": err.Error()}}
		}

		if cmd, decoded := decodeCommand(reply); decoded {
			a.log.Debug("model returned tool call", zap.String("tool", cmd.Tool))
			msg = NewCommandMessage(cmd)
			continue
		}

		// Model prose is shown to the user rather than discarded.
		return Result{Text: reply}
	}

	return Result{Data: map[string]any{"message": FallbackMessage}}
}

// decodeCommand attempts to read a model reply as a {"tool": ..., "args":
// {...}} payload, tolerating surrounding code fences.
func decodeCommand(reply string) (Command, bool) {
	trimmed := strings.TrimSpace(reply)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var cmd Command
	if err := json.Unmarshal([]byte(trimmed), &cmd); err != nil {
		return Command{}, false
	}
	if strings.TrimSpace(cmd.Tool) == "" {
		return Command{}, false
	}
	return cmd, true
}

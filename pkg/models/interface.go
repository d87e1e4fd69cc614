package models

import "context"

// Agent is a language model that turns a prompt into a completion. The
// caller supplies the full prompt (instruction prefix included); the reply
// is returned verbatim, prose or JSON alike.
type Agent interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

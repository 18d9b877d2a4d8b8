package cmd

import (
	"context"

	"github.com/ardnew/tinyscript/cli/cmd/repl"
	"github.com/ardnew/tinyscript/log"
	"github.com/ardnew/tinyscript/module"
)

// Repl starts an interactive session.
type Repl struct {
	NoHistory bool `help:"Do not read or write the history file." name:"no-history"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, includesFrom(ctx), cacheDir, module.Default(), log.Default())
}

package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/feedback/internal/app"
)

// completionLimit caps how many submissions are offered for completion.
const completionLimit = 50

// SubmissionIDCompleter returns a ShellCompleteFunc that suggests the IDs of
// recent submissions as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func SubmissionIDCompleter(a *app.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if a.Store == nil {
			return
		}
		subs, err := a.Store.List(ctx, completionLimit)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, s := range subs {
			_, _ = fmt.Fprintf(w, "%d:%s\n", s.ID, s.Title)
		}
	}
}

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/eventstore"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of builds to show" default:"20"`
	JSON  bool `name:"json" help:"Print JSON"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Database == "" {
		return errors.ConfigError("history.database is not set").Build()
	}
	store, err := eventstore.NewSQLiteStore(cfg.History.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds, err := eventstore.Recent(context.Background(), store, h.Limit)
	if err != nil {
		return err
	}
	if h.JSON {
		return writeJSON(root.out(), builds)
	}

	tw := tabwriter.NewWriter(root.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tBUILD\tTRIGGER\tOUTCOME\tPOSTS\tFAILED\tISSUES\tDURATION")
	for _, b := range builds {
		outcome := b.Outcome
		if outcome == "" {
			outcome = b.Status
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			b.StartedAt.Local().Format(time.DateTime),
			b.BuildID,
			b.Trigger,
			outcome,
			b.Posts,
			len(b.FailedFiles),
			b.Issues,
			b.Duration.Round(time.Millisecond))
	}
	return tw.Flush()
}

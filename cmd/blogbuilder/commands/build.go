package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override output.directory"`
	Strict bool   `help:"Fail when a post cannot be loaded or a link is broken"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	a, err := newApp(cfg, nil, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := a.service().Run(ctx, build.Request{Trigger: build.TriggerManual})
	printResult(root.out(), res)
	if err != nil {
		return err
	}
	return strictCheck(b.Strict, res)
}

// strictCheck turns a warning outcome into an error when strict is set.
func strictCheck(strict bool, res *build.Result) error {
	if !strict || res.Outcome != build.OutcomeWarning {
		return nil
	}
	return errors.ContentError("build finished with warnings").
		WithContext("failures", len(res.Failures)).
		WithContext("issues", len(res.Issues)).
		Build()
}

func printResult(w io.Writer, res *build.Result) {
	if res == nil {
		return
	}
	for _, f := range res.Failures {
		_, _ = fmt.Fprintf(w, "FAILED  %s: %v\n", f.File, f.Err)
	}
	for _, issue := range res.Issues {
		_, _ = fmt.Fprintf(w, "ISSUE   %s\n", issue)
	}
	_, _ = fmt.Fprintf(w, "Build %s: %s, %d posts, %d failures, %d issues in %s\n",
		res.BuildID, res.Outcome, res.Posts, len(res.Failures), len(res.Issues), res.Duration.Round(time.Millisecond))
	if res.Site != nil {
		_, _ = fmt.Fprintf(w, "Wrote %d files (%d categories, %d tags, %d redirects)\n",
			res.Site.Files, res.Site.Categories, res.Site.Tags, res.Site.Redirects)
	}
}

package commands

import (
	"context"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
)

// CheckCmd implements the 'check' command: a dry-run build.
type CheckCmd struct {
	Strict bool `help:"Fail when a post cannot be loaded or a link is broken" default:"true" negatable:""`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, nil, false)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.service().Run(context.Background(), build.Request{Trigger: build.TriggerManual, DryRun: true})
	printResult(root.out(), res)
	if err != nil {
		return err
	}
	return strictCheck(c.Strict, res)
}

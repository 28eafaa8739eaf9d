package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite an existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write blogbuilder.yaml into"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Config
	if i.Output != "" {
		path = filepath.Join(i.Output, config.DefaultPath)
	}
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(root.out(), "Wrote %s\n", path)
	return nil
}

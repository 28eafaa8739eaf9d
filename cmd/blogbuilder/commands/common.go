// Package commands implements the blogbuilder command line.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command with global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"blogbuilder.yaml" env:"BLOGBUILDER_CONFIG"`
	Verbose   bool             `short:"v" help:"Enable debug logging"`
	LogFormat string           `name:"log-format" help:"Override logging.format (text|json)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the static site"`
	Serve   ServeCmd   `cmd:"" help:"Build, serve and rebuild the site on changes"`
	List    ListCmd    `cmd:"" help:"List posts, categories or tags"`
	Show    ShowCmd    `cmd:"" help:"Show one post"`
	Related RelatedCmd `cmd:"" help:"List posts related to a post"`
	Check   CheckCmd   `cmd:"" help:"Load and verify every post without writing the site"`
	History HistoryCmd `cmd:"" help:"Show recent builds from the history database"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`

	// Out receives command output; nil means stdout.
	Out io.Writer `kong:"-"`

	cfg    *config.Config
	cfgErr error
	loaded bool
}

// AfterApply runs after flag parsing and sets up logging once. The config file
// supplies level and format unless flags override them; a config that fails to
// load is reported by the command that needs it.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	format := config.LogFormatText
	if cfg, err := c.LoadConfig(); err == nil {
		level = cfg.Logging.Level.SlogLevel()
		format = cfg.Logging.Format
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}

	g.Logger = newLogger(os.Stderr, format, level)
	slog.SetDefault(g.Logger)
	return nil
}

// LoadConfig loads the configuration file once.
func (c *CLI) LoadConfig() (*config.Config, error) {
	if !c.loaded {
		c.cfg, c.cfgErr = config.Load(c.Config)
		c.loaded = true
	}
	return c.cfg, c.cfgErr
}

func (c *CLI) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func newLogger(w io.Writer, format config.LogFormat, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

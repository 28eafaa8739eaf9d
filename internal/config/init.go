package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

const exampleHeader = `# blogbuilder configuration.
# ${VAR} references are expanded from the environment (.env and .env.local are read too).

`

// Example returns the configuration written by Init.
func Example() *Config {
	cfg := Default()
	cfg.Site = SiteConfig{
		Title:       "Tech Blog",
		Description: "Notes on building software",
		BaseURL:     "https://blog.example.com",
		Language:    "en",
	}
	cfg.Render.LanguageAliases = map[string]string{"gdscript": "python", "gd": "python"}
	cfg.Server.RebuildInterval = time.Hour
	cfg.History.Database = "./blogbuilder-history.db"
	cfg.Notify.NATSURL = "${BLOGBUILDER_NATS_URL}"
	cfg.Redirects = []Redirect{{Slug: "hello-world", ID: "a1b2c3"}}
	return cfg
}

// Init writes an example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode example configuration").Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create configuration directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, append([]byte(exampleHeader), data...), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}

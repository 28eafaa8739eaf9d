package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

var redirectIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks cfg for values no component can work with.
func (c *Config) Validate() error {
	if c.Content.Workers < 0 {
		return invalid("content.workers", "must not be negative", c.Content.Workers)
	}
	if c.Render.TabWidth < 1 || c.Render.TabWidth > 16 {
		return invalid("render.tab_width", "must be between 1 and 16", c.Render.TabWidth)
	}
	if c.Server.RebuildInterval < 0 {
		return invalid("server.rebuild_interval", "must not be negative", c.Server.RebuildInterval)
	}
	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return invalid("site.base_url", "must be an absolute URL", c.Site.BaseURL)
		}
	}
	if sameDir(c.Content.Directory, c.Output.Directory) {
		return errors.ConfigError("output.directory must differ from content.directory").
			WithContext("directory", c.Output.Directory).
			Build()
	}
	if u := c.Notify.NATSURL; u != "" {
		if _, err := url.Parse(u); err != nil {
			return invalid("notify.nats_url", "must be a URL", u)
		}
	}

	if r := c.Notify.Retry; r.Initial < 0 || r.Max < 0 || r.MaxRetries < 0 {
		return invalid("notify.retry", "must not contain negative values", fmt.Sprintf("%+v", r))
	}

	seen := make(map[string]bool, len(c.Redirects))
	for i, r := range c.Redirects {
		field := fmt.Sprintf("redirects[%d]", i)
		if r.Slug == "" || r.ID == "" {
			return invalid(field, "needs both slug and id", r)
		}
		if !redirectIDPattern.MatchString(r.ID) {
			return invalid(field+".id", "may only contain letters, digits, '-' and '_'", r.ID)
		}
		if seen[r.Slug] {
			return invalid(field+".slug", "is listed twice", r.Slug)
		}
		seen[r.Slug] = true
	}
	return nil
}

func invalid(field, problem string, value any) error {
	return errors.ConfigError(field+" "+problem).
		WithContext("field", field).
		WithContext("value", fmt.Sprint(value)).
		Build()
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

package config

import (
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/normalization"
	"git.home.luguber.info/inful/blogbuilder/internal/i18n"
	"git.home.luguber.info/inful/blogbuilder/internal/retry"
)

var datePolicyNormalizer = normalization.NewNormalizer("date policy", map[string]content.DatePolicy{
	"warn":   content.DatePolicyWarn,
	"reject": content.DatePolicyReject,
	"strict": content.DatePolicyReject,
}, content.DatePolicyWarn)

// normalize case-folds enumerations. Unknown enumeration values are errors.
func normalize(cfg *Config) error {
	level, err := logLevelNormalizer.Parse(string(cfg.Logging.Level))
	if err != nil {
		return err
	}
	cfg.Logging.Level = level

	format, err := logFormatNormalizer.Parse(string(cfg.Logging.Format))
	if err != nil {
		return err
	}
	cfg.Logging.Format = format

	policy, err := datePolicyNormalizer.Parse(string(cfg.Content.DatePolicy))
	if err != nil {
		return err
	}
	cfg.Content.DatePolicy = policy

	backoff, err := retry.ParseMode(string(cfg.Notify.Retry.Backoff))
	if err != nil {
		return err
	}
	cfg.Notify.Retry.Backoff = backoff

	cfg.Site.Language = i18n.Normalize(cfg.Site.Language)
	cfg.Site.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Site.BaseURL), "/")

	ext := strings.TrimSpace(cfg.Content.Extension)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	cfg.Content.Extension = ext

	if len(cfg.Render.LanguageAliases) > 0 {
		aliases := make(map[string]string, len(cfg.Render.LanguageAliases))
		for k, v := range cfg.Render.LanguageAliases {
			aliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
		}
		cfg.Render.LanguageAliases = aliases
	}
	return nil
}

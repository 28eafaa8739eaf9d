package config

// applyDefaults fills fields the file set explicitly to an empty value.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Site.Title == "" {
		cfg.Site.Title = def.Site.Title
	}
	if cfg.Content.Directory == "" {
		cfg.Content.Directory = def.Content.Directory
	}
	if cfg.Content.Extension == "" {
		cfg.Content.Extension = def.Content.Extension
	}
	if cfg.Render.HighlightStyle == "" {
		cfg.Render.HighlightStyle = def.Render.HighlightStyle
	}
	if cfg.Render.TabWidth == 0 {
		cfg.Render.TabWidth = def.Render.TabWidth
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = def.Output.Directory
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = def.Notify.Subject
	}
}

package ui

// Config contains TUI-specific configuration.
type Config struct {
	EnableMouse bool

	// For debugging the UI
	InlineMode bool `env:"MINIK_INLINE_UI"`
	ShowDebug  bool `env:"MINIK_UI_DEBUG"`
}

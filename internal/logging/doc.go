// Package logging provides opt-in file-based logging with rotation for
// hmr-core. When debug mode is enabled, structured JSON logs are written to
// ~/.hmr-core/logs/ alongside stderr; otherwise logging stays on stderr only.
package logging

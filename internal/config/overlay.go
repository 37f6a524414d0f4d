package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/insightdelivered/statement-parser/internal/logger"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. STATEMENT_OUTPUT or STATEMENT_LOG_LEVEL.
const EnvPrefix = "STATEMENT"

// Keys understood by Overlay.
const (
	KeyStatements = "statements"
	KeyOutput     = "output"
	KeyColumns    = "columns"
	KeyPdftotext  = "extraction.pdftotext"
	KeyFirstPage  = "extraction.first_page"
	KeyLastPage   = "extraction.last_page"
	KeyKeepText   = "extraction.keep_text"
	KeyLogLevel   = "log.level"
	KeyLogFormat  = "log.format"
	KeyLogFile    = "log.file"
)

// NewViper returns a viper instance reading STATEMENT_* environment
// variables, with dots and dashes in keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Overlay copies every key explicitly set in v (bound flags or environment)
// over c, then validates the result.
func (c *Config) Overlay(v *viper.Viper) error {
	if v.IsSet(KeyStatements) {
		c.Statements = Path(v.GetString(KeyStatements))
	}
	if v.IsSet(KeyOutput) {
		c.Output = Path(v.GetString(KeyOutput))
	}
	if v.IsSet(KeyColumns) {
		if cols := splitList(v.GetStringSlice(KeyColumns)); len(cols) > 0 {
			c.Columns = cols
		}
	}
	if v.IsSet(KeyPdftotext) {
		c.Extraction.Pdftotext = v.GetString(KeyPdftotext)
	}
	if v.IsSet(KeyFirstPage) {
		c.Extraction.FirstPage = v.GetInt(KeyFirstPage)
	}
	if v.IsSet(KeyLastPage) {
		c.Extraction.LastPage = v.GetInt(KeyLastPage)
	}
	if v.IsSet(KeyKeepText) {
		c.Extraction.KeepText = v.GetBool(KeyKeepText)
	}
	if v.IsSet(KeyLogLevel) {
		c.Log.Level = logger.Level(v.GetString(KeyLogLevel))
	}
	if v.IsSet(KeyLogFormat) {
		c.Log.Format = logger.Format(v.GetString(KeyLogFormat))
	}
	if v.IsSet(KeyLogFile) {
		c.Log.File = v.GetString(KeyLogFile)
	}
	return c.Validate()
}

// splitList flattens comma separated entries. Environment values reach viper
// as one string that it splits on whitespace only.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

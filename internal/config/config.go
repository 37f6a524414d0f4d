// Package config loads the settings file that drives batch itemization.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
	"github.com/insightdelivered/statement-parser/internal/logger"
	"github.com/insightdelivered/statement-parser/internal/models"
)

// DefaultFile is the settings file looked for when none is named.
const DefaultFile = "settings.yaml"

// Config is the top-level settings.yaml configuration.
type Config struct {
	Statements Path           `yaml:"statements"`
	Output     Path           `yaml:"output"`
	Sources    []SourceConfig `yaml:"sources"`
	Searches   []SearchConfig `yaml:"searches"`
	Columns    []string       `yaml:"columns"`
	Extraction Extraction     `yaml:"extraction"`
	Log        logger.Config  `yaml:"log"`
}

// SourceConfig names a folder of statements and the layout they use. Folder
// is relative to Statements unless absolute.
type SourceConfig struct {
	Bank   models.BankType `yaml:"bank"`
	Folder string          `yaml:"folder"`
}

// SearchConfig is a named description search exported to <name>.csv.
type SearchConfig struct {
	Name      string    `yaml:"name"`
	Wildcards Wildcards `yaml:"wildcards"`
}

// Wildcards accepts either a single pattern or a list of patterns.
type Wildcards []string

func (w *Wildcards) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*w = Wildcards{s}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*w = list
	return nil
}

// Extraction controls how text is pulled out of PDFs.
type Extraction struct {
	// Pdftotext is the path of the poppler-utils binary.
	Pdftotext string `yaml:"pdftotext"`
	FirstPage int    `yaml:"first_page"`
	LastPage  int    `yaml:"last_page"`
	// KeepText saves extracted text next to each PDF.
	KeepText bool `yaml:"keep_text"`
}

// DefaultColumns is the export column order.
var DefaultColumns = []string{
	models.ColBank, models.ColDate, models.ColDescription, models.ColAmount, models.ColMiles,
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Statements: "statements",
		Output:     "output",
		Sources: []SourceConfig{
			{Bank: models.BankChecking, Folder: "chase"},
			{Bank: models.BankRevolving, Folder: "amazon"},
			{Bank: models.BankTravelReward, Folder: "barclays"},
		},
		Searches: []SearchConfig{
			{Name: "vehicle_registration", Wildcards: Wildcards{"dmv"}},
			{Name: "amazon", Wildcards: Wildcards{"amazon", "amzn"}},
			{Name: "apple", Wildcards: Wildcards{"apple.com"}},
			{Name: "google", Wildcards: Wildcards{"google"}},
			{Name: "subscriptions", Wildcards: Wildcards{"netflix", "openai", "hulu", "spotify"}},
		},
		Columns: append([]string(nil), DefaultColumns...),
		Extraction: Extraction{
			Pdftotext: "pdftotext",
			FirstPage: 1,
		},
		Log: logger.DefaultConfig(),
	}
}

// LoadEnv loads KEY=VALUE pairs from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return apperrors.InvalidConfig(f, err)
		}
	}
	return nil
}

// Load reads settings from path on top of Default. A missing path is an
// error; use Default directly when no file is wanted.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.InvalidConfig(path, fmt.Errorf("reading config: %w", err))
	}
	return Parse(data)
}

// Parse decodes settings YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.InvalidConfig("settings", fmt.Errorf("parsing config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Output == "" {
		return apperrors.InvalidConfig("output", fmt.Errorf("must not be empty"))
	}
	for i, s := range c.Sources {
		switch s.Bank {
		case models.BankChecking, models.BankRevolving, models.BankTravelReward:
		default:
			return apperrors.InvalidConfig(fmt.Sprintf("sources[%d].bank", i), fmt.Errorf("unknown bank %q", s.Bank))
		}
		if s.Folder == "" {
			return apperrors.InvalidConfig(fmt.Sprintf("sources[%d].folder", i), fmt.Errorf("must not be empty"))
		}
	}
	seen := make(map[string]bool)
	for i, s := range c.Searches {
		name := strings.TrimSpace(s.Name)
		if name == "" || strings.ContainsAny(name, `/\`) {
			return apperrors.InvalidConfig(fmt.Sprintf("searches[%d].name", i), fmt.Errorf("invalid name %q", s.Name))
		}
		if seen[name] {
			return apperrors.InvalidConfig(fmt.Sprintf("searches[%d].name", i), fmt.Errorf("duplicate name %q", s.Name))
		}
		seen[name] = true
		if len(s.Wildcards) == 0 {
			return apperrors.InvalidConfig(fmt.Sprintf("searches[%d].wildcards", i), fmt.Errorf("must not be empty"))
		}
	}
	if c.Extraction.FirstPage < 0 || c.Extraction.LastPage < 0 {
		return apperrors.InvalidConfig("extraction", fmt.Errorf("page numbers must not be negative"))
	}
	if c.Extraction.LastPage > 0 && c.Extraction.FirstPage > c.Extraction.LastPage {
		return apperrors.InvalidConfig("extraction", fmt.Errorf("first_page %d is after last_page %d",
			c.Extraction.FirstPage, c.Extraction.LastPage))
	}
	if err := c.Log.Validate(); err != nil {
		return apperrors.InvalidConfig("log", err)
	}
	return nil
}

// SourceFolder resolves a source's folder against Statements.
func (c *Config) SourceFolder(s SourceConfig) string {
	if filepath.IsAbs(s.Folder) || c.Statements == "" {
		return s.Folder
	}
	return c.Statements.Join(s.Folder)
}

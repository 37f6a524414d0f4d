// Package cli wires the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/logger"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b BuildInfo) String() string {
	if b.Version == "" || b.Version == "dev" {
		return fmt.Sprintf("dev (commit %s, built %s)", b.Commit, b.Date)
	}
	return b.Version
}

// app is the state shared by every subcommand once the root has loaded
// configuration.
type app struct {
	build      BuildInfo
	v          *viper.Viper
	configFile string
	envFile    string
	verbose    bool

	cfg *config.Config
	log logger.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(build BuildInfo) *cobra.Command {
	a := &app{build: build, v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "statement-parser",
		Short: "Extract transactions from bank and card statements",
		Long: `statement-parser reads checking, revolving-credit and travel-rewards card
statements (PDF or extracted text), pulls out every transaction line and
writes them as CSV, optionally filtered by description searches.

Examples:
  statement-parser parse --bank checking march.pdf
  statement-parser parse --search amazon,amzn --output amazon.csv *.pdf
  statement-parser itemize --config settings.yaml
  statement-parser serve --addr :8080`,
		Version: build.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "settings file (default ./"+config.DefaultFile+" when present)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the settings file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.String("log-format", "", "log format: text or json")
	flags.String("log-file", "", "also write logs to this file")
	a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	a.v.BindPFlag(config.KeyLogFile, flags.Lookup("log-file"))

	rootCmd.AddCommand(newParseCommand(a))
	rootCmd.AddCommand(newItemizeCommand(a))
	rootCmd.AddCommand(newServeCommand(a))

	return rootCmd
}

// setup loads .env, the settings file and flag/env overrides, then builds
// the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(a.envFile); err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if a.verbose {
		a.v.Set(config.KeyLogLevel, string(logger.DebugLevel))
	}
	if err := cfg.Overlay(a.v); err != nil {
		return err
	}

	log, err := logger.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.WithField("command", cmd.Name())
	if a.configFile != "" {
		a.log.Debugf("using config file %s", a.configFile)
	}
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configFile != "" {
		return config.Load(a.configFile)
	}
	if _, err := os.Stat(config.DefaultFile); err == nil {
		a.configFile = config.DefaultFile
		return config.Load(a.configFile)
	}
	return config.Default(), nil
}

// source builds the text source described by the extraction settings:
// pdftotext first when installed, the in-process reader as fallback, text
// dumps read as is.
func (a *app) source() extractor.Source {
	var chain extractor.Fallback
	tool := &extractor.Pdftotext{Binary: a.cfg.Extraction.Pdftotext}
	if tool.Available() {
		chain = append(chain, tool)
	} else {
		a.log.Debugf("pdftotext not found at %q; reading PDFs in-process", a.cfg.Extraction.Pdftotext)
	}
	chain = append(chain, &extractor.Library{})

	var src extractor.Source = extractor.ByExtension{PDF: chain}
	if a.cfg.Extraction.KeepText {
		src = extractor.KeepText{Source: src}
	}
	return src
}

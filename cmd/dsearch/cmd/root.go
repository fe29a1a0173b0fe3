// Package cmd contains all CLI commands for dsearch.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/dsearch/internal/clipboard"
	"github.com/f3rmion/dsearch/internal/config"
	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/f3rmion/dsearch/internal/logging"
	"github.com/f3rmion/dsearch/internal/pinyin"
	"github.com/f3rmion/dsearch/internal/tui"
	"github.com/f3rmion/dsearch/internal/tui/bigchar"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dsearch",
	Short: "Search local dictionaries from the terminal",
	Long: `dsearch searches dictionaries imported into a local SQLite database.

Pick a dictionary (or all of them), type a query and press enter.
Headwords, readings and definitions are matched; Chinese readings can be
typed without tone marks.

Running 'dsearch' without arguments launches the interactive TUI.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/dsearch)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose logging")
	rootCmd.PersistentFlags().String("db", "", "database path (default is <config>/entries.db)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("db"))
}

// initConfig reads in the settings file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding config directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	defaults := config.DefaultSettings()
	viper.SetDefault("default_target", defaults.DefaultTarget)
	viper.SetDefault("result_limit", defaults.ResultLimit)
	viper.SetDefault("database", defaults.Database)
	viper.SetDefault("font_path", defaults.FontPath)

	viper.SetEnvPrefix("DSEARCH")
	viper.AutomaticEnv()

	viper.SetConfigFile(filepath.Join(getConfigDir(), config.SettingsFile))
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: could not read settings:", err)
	}
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadSettings returns the merged settings from file, env and flags.
func loadSettings() (config.Settings, error) {
	var s config.Settings
	if err := viper.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decoding settings: %w", err)
	}
	return s, nil
}

func setupLogging(cmd *cobra.Command, args []string) error {
	closer, err := logging.Setup(filepath.Join(getConfigDir(), config.LogFile), viper.GetBool("verbose"))
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

// backend bundles everything a command needs to search or import.
type backend struct {
	settings config.Settings
	registry *dict.Registry
	store    *dict.Store
	service  *dict.Service
}

// openBackend loads the registry and opens the entry store.
func openBackend(ctx context.Context) (*backend, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	dicts, err := loadRegistry(getConfigDir())
	if err != nil {
		return nil, err
	}
	registry := dict.NewRegistry(dicts)

	store, err := dict.Open(ctx, settings.DatabasePath(getConfigDir()))
	if err != nil {
		return nil, err
	}

	romanizer := pinyin.NewRomanizer()
	store.SetNormalizer(romanizer)

	service := dict.NewService(registry, store, settings.ResultLimit)
	service.SetImporter(dict.NewImporter(store, romanizer))

	return &backend{
		settings: settings,
		registry: registry,
		store:    store,
		service:  service,
	}, nil
}

func (b *backend) Close() error {
	return b.store.Close()
}

// defaultTarget returns the configured target, or "All" when it is not registered.
func (b *backend) defaultTarget() dict.Target {
	t := dict.Target(b.settings.DefaultTarget)
	if t == "" || (t != dict.AllTarget && !b.registry.Contains(t)) {
		if t != "" {
			slog.Default().Warn("default target not registered", "target", string(t))
		}
		return dict.AllTarget
	}
	return t
}

// loadRegistry reads dictionaries.yaml, falling back to the built-in defaults.
func loadRegistry(configDir string) ([]dict.Dictionary, error) {
	dicts, err := config.LoadDictionaries(filepath.Join(configDir, config.DictionariesFile))
	if errors.Is(err, fs.ErrNotExist) {
		slog.Default().Info("no dictionaries file, using defaults", "dir", configDir)
		return config.DefaultDictionaries(), nil
	}
	return dicts, err
}

// runTUI launches the TUI application.
func runTUI(cmd *cobra.Command, args []string) error {
	b, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	var clip clipboard.Writer
	if clipboard.Available() {
		clip = clipboard.System{}
	}

	app := tui.NewApp(b.service, tui.Options{
		Dictionaries: b.registry.Dictionaries(),
		Target:       b.defaultTarget(),
		ConfigDir:    getConfigDir(),
		Glyphs:       bigchar.Load(append([]string{b.settings.FontPath}, bigchar.SystemFontPaths...)...),
		Clipboard:    clip,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

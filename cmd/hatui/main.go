// Hatui is a terminal dashboard for Home Assistant.
//
// It shows a grid of entity tiles that can be toggled, dimmed and
// rearranged from the keyboard. The server is configured with HA_URL and
// HA_TOKEN, read from the environment or a .env file; dashboards are kept
// in a YAML file under the user's config directory.
//
// Usage:
//
//	hatui [command] [flags]
//
// Running without arguments opens the dashboard.
// See 'hatui --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/homeassistant"
	"github.com/muurk/hatui/internal/logging"
	"github.com/muurk/hatui/internal/tui"
	"github.com/muurk/hatui/internal/urls"
	"github.com/muurk/hatui/internal/version"
)

// shutdownTimeout bounds the wait for in-flight REST calls on exit
const shutdownTimeout = 3 * time.Second

// Global flags
var (
	configPath string
	envFile    string
	logLevel   string
	logFile    string
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hatui",
	Short: "Terminal dashboard for Home Assistant",
	Long: `A keyboard-driven terminal dashboard for Home Assistant.

Tiles show entity state and can be toggled, dimmed and rearranged.
Dashboards are stored in a YAML file; the server address and token come
from HA_URL and HA_TOKEN (or a .env file in the working directory).

If no command is specified, the dashboard opens.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runDashboard,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Dashboard file (default: <config dir>/hatui/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "File to load HA_URL and HA_TOKEN from, if present")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off when unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (default: <config dir>/hatui/hatui.log)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hatui %s\n", version.Full())
	},
}

// setupLogging sends logs to a file; the dashboard owns the terminal.
func setupLogging(cmd *cobra.Command, args []string) error {
	path := logFile
	if path == "" {
		path = os.Getenv(logging.LogFileEnvVar)
	}
	if path == "" {
		var err error
		if path, err = config.GetLogPath(); err != nil {
			return err
		}
	}
	if err := logging.Initialize(logLevel, path); err != nil {
		return err
	}
	logging.Debug("Starting", zap.String("version", version.Version), zap.String("command", cmd.Name()))
	return nil
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func loadServer() (config.ServerConfig, error) {
	server, err := config.LoadServerConfig(envFile)
	if errors.Is(err, config.ErrMissingToken) {
		return server, fmt.Errorf("%w\n\nCreate a long-lived access token on your Home Assistant profile page\n"+
			"and export it as %s, or add it to %s.\nSee %s", err, config.TokenEnvVar, envFile, urls.LongLivedTokens)
	}
	return server, err
}

func runDashboard(cmd *cobra.Command, args []string) error {
	server, err := loadServer()
	if err != nil {
		return err
	}

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	store, err := config.Open(path)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; the dashboard needs an interactive terminal")
	}

	logging.Info("Opening dashboard",
		zap.String("server", server.URL),
		zap.String("config", store.Path()),
		zap.Int("dashboards", store.Len()))

	client := homeassistant.NewClient(server.URL, server.Token)
	defer client.Close()

	p := tea.NewProgram(tui.New(tui.Options{Store: store, Backend: client}), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		if !m.Shutdown(shutdownTimeout) {
			logging.Warn("Requests still in flight at exit", zap.Duration("waited", shutdownTimeout))
		}
	}
	if err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}

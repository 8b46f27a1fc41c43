package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/discovery"
	"github.com/muurk/hatui/internal/entity"
	"github.com/muurk/hatui/internal/homeassistant"
	"github.com/muurk/hatui/internal/ui"
	"github.com/muurk/hatui/internal/urls"
)

// Command flags
var (
	scanTimeout int
	forceInit   bool
)

func init() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statesCmd)
	rootCmd.AddCommand(initCmd)
}

// discoverCmd finds servers on the network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Home Assistant servers on the network",
	Long: `Find Home Assistant servers using mDNS/DNS-SD discovery.

Home Assistant announces itself as "_home-assistant._tcp" through its
zeroconf integration. Each server found is listed with its version and the
URL to use as HA_URL.`,
	Example: `  # Listen for 5 seconds (default)
  hatui discover

  # Longer scan for slow networks
  hatui discover --timeout 15`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	timeout := time.Duration(scanTimeout) * time.Second
	fmt.Println(ui.NewHeader("Discover", "hatui discover",
		ui.Field{Key: "Service", Value: discovery.ServiceType},
		ui.Field{Key: "Timeout", Value: timeout.String()},
	).Render())
	fmt.Println()

	instances, err := discovery.Discover(cmd.Context(), timeout)
	if err != nil {
		fmt.Println(ui.RenderFailure("Discovery failed", err, []string{
			"mDNS needs multicast on the active network interface",
			"Allow UDP port 5353 through the firewall",
		}))
		return err
	}

	if len(instances) == 0 {
		fmt.Println(ui.NewWarningResult("No Home Assistant servers found").
			AddDetail("Timeout", timeout.String()).
			AddDetail("Zeroconf", urls.Zeroconf).
			Render())
		return nil
	}

	table := &ui.Table{Headers: []string{"NAME", "VERSION", "URL"}}
	for _, inst := range instances {
		version := inst.Version
		if version == "" {
			version = "-"
		}
		table.Rows = append(table.Rows, []string{inst.DisplayName(), version, inst.URL()})
	}
	fmt.Println(table.Render())
	fmt.Printf("\nFound %d server(s). Set HA_URL to one of the URLs above.\n", len(instances))
	return nil
}

// checkCmd verifies HA_URL and HA_TOKEN
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the connection to Home Assistant",
	Long: `Load HA_URL and HA_TOKEN and call the API root to verify that the
server is reachable and the token is accepted.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	server, err := loadServer()
	if err != nil {
		return err
	}

	fmt.Println(ui.NewHeader("Connection Check", "hatui check",
		ui.Field{Key: "Server", Value: server.URL},
	).Render())
	fmt.Println()

	client := homeassistant.NewClient(server.URL, server.Token)
	defer client.Close()

	start := time.Now()
	if err := client.TestConnection(cmd.Context()); err != nil {
		fmt.Println(ui.RenderFailure(homeassistant.ShortMessage(err), err, hintTips(err)))
		return errors.New("connection check failed")
	}

	fmt.Println(ui.RenderSuccess("Connected to Home Assistant",
		ui.Field{Key: "Server", Value: server.URL},
		ui.Field{Key: "Round trip", Value: time.Since(start).Round(time.Millisecond).String()},
	))
	return nil
}

// hintTips turns the troubleshooting text for err into bullet items.
func hintTips(err error) []string {
	var tips []string
	for _, line := range strings.Split(homeassistant.TroubleshootingHint(err), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		tips = append(tips, strings.TrimPrefix(line, "• "))
	}
	return tips
}

// statesCmd lists entities the dashboard can show
var statesCmd = &cobra.Command{
	Use:   "states [domain...]",
	Short: "List entities that can be added to a dashboard",
	Long: `List entities from Home Assistant, filtered and sorted the same way as
the dashboard's entity browser. Without arguments the browser's domains are
used: light, switch, sensor, binary_sensor, climate, script, automation,
input_boolean, cover, fan and media_player.`,
	Example: `  # Everything the browser offers
  hatui states

  # Only lights and switches
  hatui states light switch`,
	RunE: runStates,
}

func runStates(cmd *cobra.Command, args []string) error {
	server, err := loadServer()
	if err != nil {
		return err
	}

	client := homeassistant.NewClient(server.URL, server.Token)
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	states, err := client.GetAllStates(ctx)
	if err != nil {
		fmt.Println(ui.RenderFailure("Could not list entities", err, hintTips(err)))
		return errors.New("listing entities failed")
	}

	table := &ui.Table{Headers: []string{"ENTITY", "NAME", "STATE"}}
	for _, s := range entity.Catalog(states, args...) {
		table.Rows = append(table.Rows, []string{s.EntityID, s.FriendlyName(), s.State})
	}
	if len(table.Rows) == 0 {
		fmt.Println("No matching entities.")
		return nil
	}
	fmt.Println(table.Render())
	return nil
}

// initCmd writes the seed dashboard file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a new dashboard file",
	Long: `Write the default dashboard file: one 3x3 dashboard holding sun.sun.
An existing file is left alone unless --force is given.`,
	Example: `  # Create the default file
  hatui init

  # Start over, replacing the current dashboards
  hatui init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing dashboard file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		fmt.Println(ui.NewWarningResult("Dashboard file already exists").
			AddDetail("Path", path).
			AddDetail("Overwrite", "hatui init --force").
			Render())
		return fmt.Errorf("%s exists; use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	store, err := config.Create(path)
	if err != nil {
		return err
	}

	dash := store.Current()
	fmt.Println(ui.RenderSuccess("Dashboard file written",
		ui.Field{Key: "Path", Value: store.Path()},
		ui.Field{Key: "Dashboard", Value: dash.Name},
		ui.Field{Key: "Grid", Value: fmt.Sprintf("%dx%d", dash.Rows, dash.Cols)},
	))
	return nil
}

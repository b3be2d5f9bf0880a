package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mayeul-docq/univia/internal/client"
	"github.com/mayeul-docq/univia/internal/tui"
)

var (
	apiBase    string
	configPath string
	saveConfig bool
)

var rootCmd = &cobra.Command{
	Use:   "univia",
	Short: "Interactive university survey client",
	Long: `univia runs an interactive survey session against a univia API server.
It shows the current university triplet, collects comments, answers and
pairwise preferences, and displays the live ranking.`,
	RunE: runSurvey,
}

func init() {
	rootCmd.Flags().StringVar(&apiBase, "api-base", "", "API base URL (overrides config and API_BASE)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.Flags().BoolVar(&saveConfig, "save", false, "persist the resolved API base to the config file")
}

func runSurvey(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = client.DefaultConfigPath()
	}
	cfg, err := client.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiBase != "" {
		cfg.APIBase = apiBase
	}
	if saveConfig {
		if err := client.SaveConfig(cfg, path); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}

	p := tea.NewProgram(tui.NewModel(client.New(cfg.APIBase)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

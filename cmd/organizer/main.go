package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/black-lotus-01/data-organizer/internal/app"
	"github.com/black-lotus-01/data-organizer/internal/config"
	"github.com/black-lotus-01/data-organizer/internal/model"
	"github.com/black-lotus-01/data-organizer/internal/organizer"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an OrganizerApp. The caller must
// defer a.Close().
func newApp() (*app.OrganizerApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewOrganizerApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readSecret prompts for a secret without echoing it.
func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

var rootCmd = &cobra.Command{
	Use:   "organizer",
	Short: "AI-assisted file organizer",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Store:      %s\n", cfg.Store.Type)
		fmt.Printf("Workspace:  %s\n", cfg.Workspace.Type)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		return nil
	},
}

// provider command
var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Manage AI providers",
}

var providerAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Register an AI provider and make it current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("base-url")
		modelName, _ := cmd.Flags().GetString("model")

		apiKey, err := readSecret("API key: ")
		if err != nil {
			return err
		}
		if apiKey == "" {
			return fmt.Errorf("API key must not be empty")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.AddProvider(args[0], apiKey, baseURL, modelName)
		fmt.Printf("Provider %q added (id %s)\n", p.Name, p.ID)
		return nil
	},
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		providers := a.Providers()
		if len(providers) == 0 {
			fmt.Println("No providers configured.")
			return nil
		}

		current, _ := a.CurrentProvider()
		for _, p := range providers {
			marker := " "
			if p.ID == current.ID {
				marker = "*"
			}
			connected := "unverified"
			if p.Connected {
				connected = "connected"
			}
			fmt.Printf("%s %s  %-20s  %-12s  %s\n", marker, p.ID, p.Name, connected, p.Model)
		}
		return nil
	},
}

var providerRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveProvider(args[0]); err != nil {
			return err
		}
		fmt.Println("Provider removed.")
		return nil
	},
}

var providerTestCmd = &cobra.Command{
	Use:   "test ID",
	Short: "Probe a provider's endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.TestProvider(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if ok {
			fmt.Println("Connection OK.")
		}
		return nil
	},
}

// analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze PATH...",
	Short: "Classify files and generate an organization plan",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label, _ := cmd.Flags().GetString("label")
		if label == "" {
			label = filepath.Base(args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		saved, err := a.Analyze(cmd.Context(), args, label)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		fmt.Printf("Plan %q generated (id %s)\n", saved.Name, saved.ID)
		fmt.Printf("  %d file(s), %d folder(s), %d sensitive\n",
			saved.Plan.Summary.TotalFiles, saved.Plan.Summary.FolderCount, saved.Plan.Summary.SensitiveCount)
		for _, f := range saved.Plan.Folders {
			fmt.Printf("  %-30s  %d file(s)  confidence %.2f\n", f.Name, len(f.Files), f.Confidence)
		}
		if len(saved.Plan.Errors) > 0 {
			fmt.Printf("  %d warning(s):\n", len(saved.Plan.Errors))
			for _, e := range saved.Plan.Errors {
				fmt.Printf("    %s\n", e)
			}
		}
		return nil
	},
}

// plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage saved plans",
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		plans := a.Plans()
		if len(plans) == 0 {
			fmt.Println("No saved plans.")
			return nil
		}

		for _, p := range plans {
			fmt.Printf("%s  %s  %-30s  %d file(s)\n",
				p.ID, p.CreatedAt.Format("2006-01-02 15:04:05"), p.Name, p.Plan.Summary.TotalFiles)
		}
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a saved plan's operations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		saved, err := a.Plan(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (created %s)\n", saved.Name, saved.CreatedAt.Format("2006-01-02 15:04:05"))
		for i, op := range saved.Plan.Operations {
			fmt.Printf("%3d  %-13s  %-30s  %d item(s)\n", i+1, op.Kind, op.Folder, len(op.Items))
		}
		if len(saved.Plan.Sensitive) > 0 {
			fmt.Printf("\n%d file(s) flagged sensitive and left untouched:\n", len(saved.Plan.Sensitive))
			for _, s := range saved.Plan.Sensitive {
				fmt.Printf("  %s  (%s)\n", s.Path, s.Type)
			}
		}
		return nil
	},
}

var planExportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Export a saved plan as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")
		outPath, _ := cmd.Flags().GetString("output")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := a.ExportPlan(args[0], out, encrypt); err != nil {
			return err
		}
		if outPath != "" {
			fmt.Printf("Plan exported to %s\n", outPath)
		}
		return nil
	},
}

// run command
var runCmd = &cobra.Command{
	Use:   "run PLAN_ID",
	Short: "Execute a saved plan against a target directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		exec, err := a.NewRun(cmd.Context(), args[0], target)
		if err != nil {
			return err
		}

		exec.OnUpdate = func(overall float64, steps []model.ExecutionStep) {
			fmt.Printf("\rProgress: %5.1f%%", overall)
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigs
			fmt.Println("\nStopping after the current operation...")
			exec.Stop()
		}()

		if err := exec.Start(); err != nil {
			return err
		}
		exec.Wait()
		signal.Stop(sigs)
		a.FinishRun()
		fmt.Println()

		for i, s := range exec.Steps() {
			line := fmt.Sprintf("%3d  %s", i+1, s.Status)
			if s.Error != "" {
				line += "  " + s.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

// activity command
var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "View the activity history",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")
		kind, _ := cmd.Flags().GetString("kind")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		groups := a.GroupedActivity(organizer.ActivityFilter{
			Query:  query,
			Status: model.OperationStatus(status),
			Kind:   model.ActivityKind(kind),
		})
		if len(groups) == 0 {
			fmt.Println("No activity recorded.")
			return nil
		}

		for _, g := range groups {
			fmt.Printf("%s\n", g.Label)
			for _, r := range g.Records {
				fmt.Printf("  %s  %-10s  %-15s  %s\n",
					r.Timestamp.Format("15:04:05"), r.Status, r.Kind, r.Title)
				if r.Description != "" {
					fmt.Printf("      %s\n", r.Description)
				}
			}
		}
		return nil
	},
}

var activityClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the activity history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.ClearActivity()
		fmt.Println("Activity history cleared.")
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage plan export encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readSecret("Passphrase for the private key: ")
		if err != nil {
			return err
		}
		confirm, err := readSecret("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetupKeys(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}
		fmt.Println("Encryption keys generated.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	providerCmd.AddCommand(providerAddCmd)
	providerAddCmd.Flags().String("base-url", "", "API base URL (for OpenAI-compatible endpoints)")
	providerAddCmd.Flags().String("model", "", "Model name to use for classification")
	providerCmd.AddCommand(providerListCmd)
	providerCmd.AddCommand(providerRemoveCmd)
	providerCmd.AddCommand(providerTestCmd)

	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planExportCmd)
	planExportCmd.Flags().Bool("encrypt", false, "Encrypt the exported plan")
	planExportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")

	activityCmd.AddCommand(activityClearCmd)
	activityCmd.Flags().String("search", "", "Filter by title or description substring")
	activityCmd.Flags().String("status", "", "Filter by status (pending, in_progress, completed, failed, cancelled)")
	activityCmd.Flags().String("kind", "", "Filter by activity kind")

	keysCmd.AddCommand(keysInitCmd)

	analyzeCmd.Flags().String("label", "", "Label for the generated plan (default: first path's base name)")
	runCmd.Flags().StringP("target", "t", "", "Target directory to organize into")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(providerCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(keysCmd)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
	"wizard-cli/internal/app"
	"wizard-cli/pkg/models"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = runtime.Version()
)

var rootCmd = &cobra.Command{
	Use:   "wizard [definition.hcl]",
	Short: "Run a question wizard and print the answers",
	Long: `Wizard asks a sequence of questions grouped into sections and prints the
collected answers. Questions may depend on earlier answers: their defaults
and whether they are asked at all are computed from those answers.

Without a definition the built-in kafka wizard runs. Definitions are HCL
files, see 'wizard check' to validate one.

Interactive mode can be controlled via config (interactive_default), overridden with
-i (force interactive) or -y (force non-interactive).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check if version flag is set
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			versionCmd.Run(cmd, args)
			return nil
		}

		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		return app.Run(cmd.Context(), request)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information including build version, commit, date, and platform details.",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "wizard version %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built: %s\n", date)
		fmt.Fprintf(out, "  go version: %s\n", goVersion)
		fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <definition.hcl>",
	Short: "Validate a wizard definition",
	Long:  "Compile a wizard definition without prompting. Reports syntax errors, unknown kinds, invalid defaults and dependencies declared after their dependents.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return app.Check(cmd.Context(), cmd.OutOrStdout(), request)
	},
}

var listCmd = &cobra.Command{
	Use:   "list [definition.hcl]",
	Short: "List the questions of a wizard",
	Long:  "List every section and question of a wizard with its kind and dependencies. Lists the built-in kafka wizard when no definition is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return app.List(cmd.Context(), cmd.OutOrStdout(), request)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default ~/.config/wizard/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "print version information")

	// Main command flags
	rootCmd.Flags().BoolP("yes", "y", false, "noninteractive mode - use defaults without prompts")
	rootCmd.Flags().BoolP("interactive", "i", false, "force interactive mode (overrides config default)")
	rootCmd.Flags().BoolP("defaults", "d", false, "skip questions that have a default")
	rootCmd.Flags().StringP("format", "f", "", "output format (yaml, json, toml, template)")
	rootCmd.Flags().StringP("target", "t", "", "output target (clipboard, stdout, file:/path)")
	rootCmd.Flags().String("template", "", "template file for the template format")
	rootCmd.Flags().StringArray("set", []string{}, "pre-answer a question as section.question=value (repeatable)")
}

// buildRequestFromFlags constructs a RunRequest from command flags and arguments.
// Flags a subcommand doesn't define are left at their zero values.
func buildRequestFromFlags(cmd *cobra.Command, args []string) (*models.RunRequest, error) {
	request := models.NewRunRequest()

	if len(args) > 0 {
		request.Definition = args[0]
	}

	flags := cmd.Flags()
	var err error

	if request.ConfigPath, err = flags.GetString("config"); err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}

	if request.LogLevel, err = flags.GetString("log-level"); err != nil {
		return nil, fmt.Errorf("invalid log-level flag: %w", err)
	}

	if request.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, fmt.Errorf("invalid log-json flag: %w", err)
	}
	request.LogJSONSet = flags.Changed("log-json")

	if flags.Lookup("yes") == nil {
		return request, nil
	}

	// Handle interactive mode flags
	if request.ForceNonInteractive, err = flags.GetBool("yes"); err != nil {
		return nil, fmt.Errorf("invalid yes flag: %w", err)
	}

	if request.ForceInteractive, err = flags.GetBool("interactive"); err != nil {
		return nil, fmt.Errorf("invalid interactive flag: %w", err)
	}

	if request.ForceInteractive && request.ForceNonInteractive {
		return nil, fmt.Errorf("cannot use both --interactive and --yes flags")
	}

	if request.UseDefaults, err = flags.GetBool("defaults"); err != nil {
		return nil, fmt.Errorf("invalid defaults flag: %w", err)
	}
	request.UseDefaultsSet = flags.Changed("defaults")

	if request.Format, err = flags.GetString("format"); err != nil {
		return nil, fmt.Errorf("invalid format flag: %w", err)
	}

	if request.Target, err = flags.GetString("target"); err != nil {
		return nil, fmt.Errorf("invalid target flag: %w", err)
	}

	if request.TemplatePath, err = flags.GetString("template"); err != nil {
		return nil, fmt.Errorf("invalid template flag: %w", err)
	}

	if request.Set, err = flags.GetStringArray("set"); err != nil {
		return nil, fmt.Errorf("invalid set flag: %w", err)
	}

	return request, nil
}

func main() {
	// Disable usage on error to show only our custom error messages
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

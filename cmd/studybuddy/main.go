package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"studybuddy/internal/app"
	"studybuddy/internal/study"
	"studybuddy/internal/tui"
)

const (
	version = "1.0.0"
)

// buildApp loads config, applies flags and wires the Application. Console
// logging stays off for the TUI so zap never draws over the screen.
func buildApp(console bool) (*app.Application, error) {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, err
	}
	if flagAPI != "" {
		cfg.BaseURL = flagAPI
	}
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	return app.New(cfg, flagMock, console), nil
}

// signalContext is cancelled on SIGINT/SIGTERM, used by the plain CLI
// subcommands. The TUI handles ctrl+c itself.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

// loadSessions runs one registry load to completion on the current
// goroutine, the CLI equivalent of the TUI's load round-trip.
func loadSessions(ctx context.Context, a *app.Application) error {
	cmd := a.Registry.LoadCommand(ctx)
	if cmd == nil {
		return nil
	}
	return a.Registry.ResolveLoad(cmd().(study.SessionsLoaded))
}

func main() {
	root := &cobra.Command{
		Use:     "studybuddy",
		Short:   "Study sessions with your own documents",
		Long:    "studybuddy is a terminal client for document-grounded studying: upload PDFs into sessions, chat about them, and generate flashcards and summaries.\n\nRun without arguments for the interactive TUI.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp(false)
			if err != nil {
				return err
			}
			defer application.Close()
			return tui.Run(application)
		},
	}

	root.PersistentFlags().BoolVar(&flagMock, "mock", false, "Use the in-memory backend instead of HTTP")
	root.PersistentFlags().StringVar(&flagAPI, "api", "", "Backend base URL (overrides config)")
	root.Flags().StringVar(&flagTheme, "theme", "", "Color theme: paper|inkwell")

	sessionsCmd := &cobra.Command{
		Use:   "sessions [query]",
		Short: "List study sessions",
		Long:  "List study sessions, newest first. An optional query filters by name, case-insensitive, the same matching the TUI search uses.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			application, err := buildApp(true)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := loadSessions(ctx, application); err != nil {
				return fmt.Errorf("loading sessions: %w", err)
			}

			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			sessions := application.Registry.Filter(query)
			sort.Slice(sessions, func(i, j int) bool {
				return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
			})

			if flagJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(sessions)
			}

			if len(sessions) == 0 {
				if query != "" {
					fmt.Printf("No sessions match %q.\n", query)
				} else {
					fmt.Println("No study sessions yet.")
				}
				return nil
			}

			bold := color.New(color.Bold)
			dim := color.New(color.Faint)
			for _, s := range sessions {
				bold.Printf("%4d  %s\n", s.ID, s.Name)
				detail := fmt.Sprintf("      %d document(s)", s.DocumentCount)
				if !s.UpdatedAt.IsZero() {
					detail += " · updated " + s.UpdatedAt.Format("2006-01-02")
				}
				dim.Println(detail)
			}
			return nil
		},
	}
	sessionsCmd.Flags().BoolVar(&flagJSON, "json", false, "Print sessions as JSON")
	root.AddCommand(sessionsCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a study session",
		Long:  "Delete a study session and all of its uploaded documents. Asks for confirmation unless --yes is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}

			ctx, cancel := signalContext()
			defer cancel()

			application, err := buildApp(true)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := loadSessions(ctx, application); err != nil {
				return fmt.Errorf("loading sessions: %w", err)
			}
			s, ok := application.Registry.Get(id)
			if !ok {
				return fmt.Errorf("no session with id %d", id)
			}

			if !flagYes {
				fmt.Printf("Delete %q and all its documents? [y/N] ", s.Name)
				var answer string
				fmt.Scanln(&answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Println("Kept.")
					return nil
				}
			}

			del := application.Registry.DeleteCommand(ctx, id)
			if del == nil {
				return fmt.Errorf("delete already in flight for session %d", id)
			}
			if err := application.Registry.ResolveDelete(del().(study.SessionDeleted)); err != nil {
				return fmt.Errorf("deleting session %d: %w", id, err)
			}
			color.New(color.FgGreen).Printf("Deleted %q.\n", s.Name)
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	root.AddCommand(deleteCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("studybuddy v%s\n", version)
		},
	}
	root.AddCommand(versionCmd)

	completionCmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion",
		Long:  "Generate a shell completion script.\n\nExamples:\n  - studybuddy completion bash >> ~/.bashrc\n  - studybuddy completion zsh > ~/.zsh/completion/_studybuddy\n  - studybuddy completion fish > ~/.config/fish/completions/studybuddy.fish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	root.AddCommand(completionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	flagMock  bool
	flagAPI   string
	flagTheme string
	flagJSON  bool
	flagYes   bool
)

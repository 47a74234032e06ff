package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Akashdeep-Patra/zippy-table/internal/app"
	"github.com/Akashdeep-Patra/zippy-table/internal/common"
	"github.com/Akashdeep-Patra/zippy-table/internal/config"
	"github.com/Akashdeep-Patra/zippy-table/internal/logging"
	"github.com/Akashdeep-Patra/zippy-table/internal/source"
	"github.com/Akashdeep-Patra/zippy-table/internal/table"
	"github.com/Akashdeep-Patra/zippy-table/internal/watcher"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	// A TUI spends most of its time waiting on the terminal. Two OS threads
	// cover rendering and source loading unless the user says otherwise.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(min(2, runtime.NumCPU()))
	}
	// Soft limit; large tables may exceed it at the cost of more GC.
	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(256 << 20)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := buildRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "zt:", err)
		os.Exit(1)
	}
}

// tableFlags are shared by every command that opens a table.
type tableFlags struct {
	columns   []string
	props     []string
	renderers []string
	selection string
	watch     bool
	logFile   string
	logLevel  string
}

func (f *tableFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.props, "props", nil, "Record fields to show, in order (default: all)")
	fs.StringSliceVar(&f.columns, "columns", nil, "Column headers, one per --props entry")
	fs.StringSliceVar(&f.renderers, "renderers", nil, "Renderer kinds, one per --props entry (text, number, bytes, time, bool, progress)")
	fs.StringVar(&f.selection, "selection", "", `Selection mode: "row" or "multi-row"`)
	fs.BoolVarP(&f.watch, "watch", "w", false, "Reload when the source changes")
	fs.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// apply overrides configuration with the flags that were given.
func (f *tableFlags) apply(cfg *config.Config) error {
	if f.selection != "" {
		cfg.SelectionMode = f.selection
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	if len(f.props) > 0 {
		if len(f.columns) > 0 && len(f.columns) != len(f.props) {
			return fmt.Errorf("%w: %d --columns for %d --props", table.ErrColumnMismatch, len(f.columns), len(f.props))
		}
		if len(f.renderers) > 0 && len(f.renderers) != len(f.props) {
			return fmt.Errorf("%w: %d --renderers for %d --props", table.ErrColumnMismatch, len(f.renderers), len(f.props))
		}
		cols := make([]config.Column, len(f.props))
		for i, p := range f.props {
			cols[i].Prop = p
			if len(f.columns) > 0 {
				cols[i].Header = f.columns[i]
			}
			if len(f.renderers) > 0 {
				cols[i].Renderer = f.renderers[i]
			}
		}
		cfg.Columns = cols
	} else if len(f.columns) > 0 || len(f.renderers) > 0 {
		return errors.New("--columns and --renderers need --props")
	}

	return cfg.Validate()
}

func buildRootCmd() *cobra.Command {
	flags := &tableFlags{}

	rootCmd := &cobra.Command{
		Use:   "zt [files...]",
		Short: "A virtualized table for large record sets",
		Long: `zt shows records from CSV, TSV, JSON and JSON Lines files in a fast,
scrollable, sortable and filterable terminal table.

Only the rows on screen are rendered; scrolling recycles a small pool of
rows, so tables of millions of records stay responsive.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			load := func(ctx context.Context) (*source.Set, error) {
				return source.LoadAll(ctx, args)
			}
			return runTable(cmd.Context(), flags, load, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(versionLine())

	flags.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(buildDemoCmd(flags))
	rootCmd.AddCommand(buildGitLogCmd(flags))
	rootCmd.AddCommand(buildVersionCmd())
	rootCmd.AddCommand(buildCompletionCmd())

	return rootCmd
}

func buildDemoCmd(flags *tableFlags) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Show generated records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rows < 0 {
				return fmt.Errorf("--rows must not be negative, got %d", rows)
			}
			now := time.Now()
			load := func(context.Context) (*source.Set, error) {
				return source.Demo(rows, now), nil
			}
			return runTable(cmd.Context(), flags, load, nil)
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 100_000, "Number of records to generate")

	return cmd
}

func buildGitLogCmd(flags *tableFlags) *cobra.Command {
	var (
		path  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "gitlog",
		Short: "Show the commit history of a git repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			load := func(ctx context.Context) (*source.Set, error) {
				return source.GitLog(ctx, path, limit)
			}
			// HEAD's reflog changes on every commit, checkout and reset.
			watch := []string{filepath.Join(path, ".git", "logs", "HEAD")}
			return runTable(cmd.Context(), flags, load, watch)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", ".", "Path to the git repository")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10_000, "Maximum number of commits (0 for all)")

	return cmd
}

func runTable(ctx context.Context, flags *tableFlags, load app.Loader, watchPaths []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := flags.apply(cfg); err != nil {
		return err
	}

	log, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer func() { _ = closeLog() }()

	// Load before taking over the terminal so bad input fails with a plain
	// error. The app's first load then reuses this set.
	set, err := load(ctx)
	if err != nil {
		return err
	}
	var first atomic.Pointer[source.Set]
	first.Store(set)
	model := app.New(ctx, cfg, log, func(ctx context.Context) (*source.Set, error) {
		if s := first.Swap(nil); s != nil {
			return s, nil
		}
		return load(ctx)
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if flags.watch && len(watchPaths) > 0 {
		watchCh, stop, err := watcher.Watch(watchPaths, cfg.WatchDebounce)
		if err != nil {
			log.Warn("watching disabled", "err", err)
		} else {
			defer stop()
			go forwardChanges(watchCh, p, log)
		}
	}

	// A cancelled context is a normal way to quit.
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func forwardChanges(ch <-chan watcher.Event, p *tea.Program, log *slog.Logger) {
	for ev := range ch {
		log.Debug("source changed", "path", ev.Path)
		p.Send(common.RefreshMsg{})
	}
}

func versionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
		"date":    date,
		"go":      runtime.Version(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
}

func versionLine() string {
	return fmt.Sprintf("zt %s (%s, built %s) %s %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func buildVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(versionInfo())
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), versionLine())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func buildCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate a shell completion script",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return root.GenBashCompletionV2(out, true)
		},
	}
}

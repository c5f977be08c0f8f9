package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tgienger/taskflow/internal/config"
	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/errs"
	"github.com/tgienger/taskflow/internal/logging"
	"github.com/tgienger/taskflow/internal/ui"
	"github.com/tgienger/taskflow/internal/ui/views"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	e := &env{v: viper.New(), log: zerolog.Nop(), out: stdout, errOut: stderr}
	defer e.close()

	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", errs.UserMessage(err))
		e.log.Debug().Err(err).Msg("command failed")
		return 1
	}
	return 0
}

// env is what every command needs once flags are parsed
type env struct {
	v       *viper.Viper
	cfg     *config.Config
	db      *db.DB
	log     zerolog.Logger
	logFile *os.File
	out     io.Writer
	errOut  io.Writer
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Kanban board for small personal projects",
		Long: `taskflow keeps tasks for several projects in a local SQLite database and
shows them as a BACKLOG / DOING / DONE board with a WIP limit on DOING.

Run without a subcommand to open the interactive board.`,
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.setup,
		RunE:              e.runTUI,
	}

	flags := root.PersistentFlags()
	flags.String("config", config.DefaultConfigPath(), "config file")
	flags.String("db", "", "database file (default "+config.DefaultDBPath()+")")
	flags.Int("wip-limit", db.DefaultWIPLimit, "maximum tasks in DOING per project")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	_ = e.v.BindPFlag("db_path", flags.Lookup("db"))
	_ = e.v.BindPFlag("wip_limit", flags.Lookup("wip-limit"))
	_ = e.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(projectsCmd(e))
	root.AddCommand(projectCmd(e))
	root.AddCommand(tasksCmd(e))
	root.AddCommand(taskCmd(e))
	root.AddCommand(exportCmd(e))

	return root
}

func (e *env) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
		return nil
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(e.v, configFile)
	if err != nil {
		return err
	}
	e.cfg = cfg

	// the TUI owns the terminal, so it logs to a file
	interactive := !cmd.HasParent()
	var w io.Writer = e.errOut
	if interactive {
		f, err := logging.OpenFile(filepath.Join(config.DataDir(), "taskflow.log"))
		if err != nil {
			return err
		}
		e.logFile = f
		w = f
	}
	logger, err := logging.New(w, cfg.LogLevel, !interactive)
	if err != nil {
		return errs.Validation("LoadConfig", "log_level", err.Error())
	}
	e.log = logger

	database, err := db.Open(db.Options{
		Path:     cfg.DBPath,
		WIPLimit: cfg.WIPLimit,
		Logger:   &e.log,
	})
	if err != nil {
		return err
	}
	e.db = database

	e.log.Debug().Str("db", cfg.DBPath).Int("wip_limit", cfg.WIPLimit).Msg("opened database")
	return nil
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

func (e *env) runTUI(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	app := ui.NewApp(e.db, e.log, views.BoardOptions{
		Today:     time.Now,
		ExportDir: wd,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}

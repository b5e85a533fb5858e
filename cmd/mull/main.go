// mull — a live transcript viewer for agent sessions.
//
// Usage:
//
//	mull [-socket path] [-replay file] [-history] [-verbose] [-quiet]
package main

import (
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mull-sh/mull/internal/app"
	"github.com/mull-sh/mull/internal/config"
	"github.com/mull-sh/mull/internal/db"
	"github.com/mull-sh/mull/internal/logger"
	"github.com/mull-sh/mull/internal/stream"
	"github.com/mull-sh/mull/internal/theme"
	"github.com/mull-sh/mull/internal/thinktrack"
	"github.com/mull-sh/mull/internal/timefmt"
)

func defaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mull", "config.yaml")
}

func main() {
	_ = godotenv.Load()

	socketFlag := flag.String("socket", "", "daemon socket path (overrides config and MULL_SOCKET)")
	replayFile := flag.String("replay", "", "replay a recorded event log instead of connecting")
	speed := flag.Float64("speed", 1, "replay speed multiplier")
	dbFlag := flag.String("db", "", "archive database path (overrides config)")
	configPath := flag.String("config", defaultConfigPath(), "config file path")
	history := flag.Bool("history", false, "print archived sessions and exit")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (default: no logging)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Precedence: flag, then environment, then config file, then default.
	socketPath := cfg.Socket
	if socketPath == "" {
		socketPath = stream.SocketPath()
	}
	if *socketFlag != "" {
		socketPath = *socketFlag
	}

	dbPath := cfg.DB
	if dbPath == "" {
		dbPath = db.DefaultPath()
	}
	if *dbFlag != "" {
		dbPath = *dbFlag
	}

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Logs go to a file so nothing interleaves with the TUI. With no
	// -log-file, logging is off entirely.
	var logOut io.Writer
	if *logFile != "" {
		if dir := filepath.Dir(*logFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package to the same output so library
	// chatter never hits the terminal.
	if logOut != nil {
		stdlog.SetOutput(logOut)
		stdlog.SetFlags(stdlog.Ltime)
	} else {
		stdlog.SetOutput(io.Discard)
	}

	log := logger.New(logLevel, logOut)

	store, err := db.Open(dbPath)
	if err != nil {
		log.Warn("archive disabled: %v", err)
		if *history {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if *history {
		printHistory(store)
		return
	}

	var replay *stream.Replayer
	if *replayFile != "" {
		replay, err = stream.OpenReplay(*replayFile, *speed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer replay.Close()
	}

	m := app.New(app.Options{
		SocketPath: socketPath,
		Replay:     replay,
		Tracker:    thinktrack.New(),
		Theme:      theme.FromColors(cfg.Theme.Accent, cfg.Theme.Dim, cfg.Theme.Timer),
		Store:      store,
		Log:        log,
		TickPeriod: cfg.TickPeriod(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("tui: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printHistory(store *db.Store) {
	sessions, err := store.RecentSessions(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(sessions) == 0 {
		fmt.Println("No archived sessions.")
		return
	}

	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %-30s  %3d msgs  thinking %s\n",
			s.StartedAt.Format("2006-01-02 15:04"),
			title, s.Messages, timefmt.Millis(s.ThinkingMS))
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abrezinsky/lottoledger/internal/app"
	"github.com/abrezinsky/lottoledger/internal/config"
	"github.com/abrezinsky/lottoledger/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

func showBanner() {
	logo := []string{
		" _       _   _        _          _                 ",
		"| | ___ | |_| |_ ___ | | ___  __| | __ _  ___ _ __ ",
		"| |/ _ \\| __| __/ _ \\| |/ _ \\/ _` |/ _` |/ _ \\ '__|",
		"| | (_) | |_| || (_) | |  __/ (_| | (_| |  __/ |   ",
		"|_|\\___/ \\__|\\__\\___/|_|\\___|\\__,_|\\__, |\\___|_|   ",
		"                                    |___/          ",
	}
	width := 56
	border := strings.Repeat("═", width)

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s  %-*s%s║%s\n", cyan, yellow, width-2, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	default:
		next = "debug"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sb%s      - Show pot balances\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	envFile := flag.String("env", ".env", "Environment file loaded before the config")
	port := flag.Int("port", config.DefaultPort, "HTTP server port")
	dbPath := flag.String("db", config.DefaultDatabasePath, "SQLite database path")
	logLevel := flag.String("loglevel", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `lottoledger - numbers lottery back office

Usage:
  lottoledger [options]

Options:
  -config str    YAML config file; ${VAR} references are expanded
  -env str       Environment file loaded first (default ".env")
  -port int      HTTP server port (default 8080)
  -db string     SQLite database path (default "lottoledger.db")
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -nokeyboard    Disable keyboard shortcuts
  -version       Show version and exit
  -help          Show this help message

Flags given on the command line override the config file.

Keyboard Shortcuts (when enabled):
  b              Show pot balances
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  lottoledger                              # Run on port 8080 with lottoledger.db
  lottoledger -config /etc/lottoledger.yaml
  lottoledger -port 9000 -db /data/ledger.db
  lottoledger -nokeyboard                  # Run under a process supervisor
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("lottoledger %s\n", version)
		os.Exit(0)
	}

	if err := config.LoadEnvFiles(*envFile); err != nil {
		log.Fatal("Failed to load environment file: ", err)
	}
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	// explicit flags win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "db":
			cfg.Database.Path = *dbPath
		case "loglevel":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	showBanner()

	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})

	a, err := app.New(appLog, cfg)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(ctx, stop, a, appLog)
	} else {
		fmt.Printf("%sKeyboard shortcuts disabled (use -nokeyboard=false to enable)%s\n\n", yellow, reset)
	}

	if err := a.Run(ctx, cfg.Addr()); err != nil {
		appLog.Error("Server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
}

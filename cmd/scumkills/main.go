// scumkills - SCUM killfeed statistics server and import tools
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/nereuvjr-br/kills-scum/internal/api"
	"github.com/nereuvjr-br/kills-scum/internal/config"
	"github.com/nereuvjr-br/kills-scum/internal/importer"
	"github.com/nereuvjr-br/kills-scum/internal/metrics"
	"github.com/nereuvjr-br/kills-scum/internal/stats"
	"github.com/nereuvjr-br/kills-scum/internal/storage"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "sync-players":
		cmdSyncPlayers(os.Args[2:])
	case "version":
		fmt.Printf("scumkills %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: scumkills <command> [options] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                    Start the killfeed dashboard server")
	fmt.Println("  import <file>...         Import killfeed CSV export files (gzip supported)")
	fmt.Println("  sync-players             Create player records for killfeed names without one")
	fmt.Println("  version                  Show version")
	fmt.Println("  help                     Show this help")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>    Path to configuration file (defaults apply without one)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  scumkills serve --config config.yml")
	fmt.Println("  scumkills import killfeed-export.csv")
	fmt.Println("  scumkills sync-players")
}

// loadConfig loads the config file when given, defaults otherwise.
func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// cmdServe starts the dashboard server
func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)

	log.Printf("scumkills %s starting...", version)

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()
	log.Printf("Database initialized at %s", cfg.Database.Path)

	npc := stats.NewMatcher(cfg.NPC.Prefixes, cfg.NPC.Substrings)
	router := api.NewRouter(store, npc, metrics.New(), cfg.Server.StaticDir)
	router.StartWebSocketHub()
	if cfg.Server.StaticDir != "" {
		log.Printf("Serving static files from %s", cfg.Server.StaticDir)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.ListenAddr, cfg.Server.HTTPPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-serverErr:
		log.Fatalf("HTTP server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("Shutdown complete")
}

// cmdImport loads killfeed CSV export files into the database
func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	verbose := fs.Bool("verbose", false, "print every row outcome, not just failures")
	fs.Parse(args)

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: scumkills import [--config path] [--verbose] <file>...")
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)
	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	pipeline := importer.New(store, nil)
	ctx := context.Background()

	for _, path := range files {
		f, err := importer.Open(path)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", path, err)
		}
		records, err := importer.ParseCSV(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", path, err)
		}

		result, err := pipeline.Run(ctx, records)
		if err != nil {
			log.Fatalf("Import of %s failed: %v", path, err)
		}

		for _, outcome := range result.Outcomes {
			switch {
			case outcome.Status == importer.StatusError:
				fmt.Printf("  row %d: error: %s\n", outcome.RowNumber, outcome.Message)
			case *verbose:
				fmt.Printf("  row %d: %s %s -> %s\n", outcome.RowNumber, outcome.Status, outcome.Killer, outcome.Victim)
			}
		}
		fmt.Printf("%s: batch %s: %d rows, %d imported, %d duplicates, %d errors\n",
			path, result.BatchID, result.Total, result.Imported, result.Duplicates, result.Errors)
	}
}

// cmdSyncPlayers creates player records for killfeed actor names
func cmdSyncPlayers(args []string) {
	fs := flag.NewFlagSet("sync-players", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	npc := stats.NewMatcher(cfg.NPC.Prefixes, cfg.NPC.Substrings)
	result, err := store.SyncPlayers(context.Background(), npc.IsNPC)
	if err != nil {
		log.Fatalf("Sync failed: %v", err)
	}
	fmt.Printf("%d killfeed names: %d players created, %d already existed\n",
		result.Total, result.Created, result.Existing)
}

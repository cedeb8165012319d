package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/coffee-image/internal/artifact"
	"github.com/ironsheep/coffee-image/internal/config"
	"github.com/ironsheep/coffee-image/internal/converter"
	"github.com/ironsheep/coffee-image/internal/imaging"
	"github.com/ironsheep/coffee-image/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("coffee-image %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug {
		log.Printf("coffee-image v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Result directory: %s, format: %s", cfg.ResultDir, cfg.Format)
	}

	store := artifact.NewStore(cfg.ResultDir)
	if err := store.Ensure(); err != nil {
		log.Fatalf("Failed to prepare result directory: %v", err)
	}

	conv := converter.New(store, imaging.NewImageCache(), cfg.Options())
	srv := server.New(converter.NewSession(conv), Version, cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		log.Printf("Interrupted, shutting down")
	}

	if !cfg.KeepArtifacts {
		cleanup(store, cfg.Debug)
	}
	if runErr != nil {
		log.Fatalf("Server error: %v", runErr)
	}
}

// cleanup removes every artifact, logging each one that could not be removed.
func cleanup(store *artifact.Store, debug bool) {
	errs := store.Cleanup()
	for _, err := range errs {
		log.Printf("Cleanup: %v", err)
	}
	if debug && len(errs) == 0 {
		log.Printf("Cleaned up %s", store.Dir())
	}
}

func printHelp() {
	fmt.Println("coffee-image - MCP server for image transforms and compositing")
	fmt.Println()
	fmt.Println("Usage: coffee-image [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=<dir>        Artifact directory (default ./%s)\n", config.EnvResultDir, config.DefaultResultDirName)
	fmt.Printf("  %s=png|jpeg        Artifact format (default png)\n", config.EnvFormat)
	fmt.Printf("  %s=0-255      Threshold cutoff (default 127)\n", config.EnvMaskCutoff)
	fmt.Printf("  %s=<n>      Text art sampling stride (default 4)\n", config.EnvTextArtScale)
	fmt.Printf("  %s=debug        Enable debug logging\n", config.EnvLogLevel)
	fmt.Printf("  %s=true    Keep artifacts on exit\n", config.EnvKeepArtifacts)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Artifacts are deleted when the server exits.")
}

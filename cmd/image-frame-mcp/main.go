package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/image-frame-mcp/internal/config"
	"github.com/ironsheep/image-frame-mcp/internal/server"
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
			fmt.Printf("image-frame-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-frame-mcp - MCP server returning images as raw bitmap frames")
			fmt.Println()
			fmt.Println("Usage: image-frame-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Tools: echo_image, rotate_image, crop_and_zoom")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug    Enable debug logging\n", config.EnvLogLevel)
			fmt.Printf("  %s=DIR           Base directory for relative image paths\n", config.EnvRoot)
			fmt.Printf("  %s=N       Tool calls per second (0 = unlimited)\n", config.EnvRateLimit)
			fmt.Printf("  %s=N       Burst size for the rate limit (default 1)\n", config.EnvRateBurst)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	cfg.Version = Version

	if cfg.Debug {
		log.Printf("Image Frame MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		if cfg.Root != "" {
			log.Printf("Resolving relative image paths against %s", cfg.Root)
		}
		if cfg.RateLimit > 0 {
			log.Printf("Rate limit: %g calls/s, burst %d", cfg.RateLimit, cfg.RateBurst)
		}
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

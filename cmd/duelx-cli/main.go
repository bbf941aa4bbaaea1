package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	duelxnet "github.com/peterkuimelis/duelx/internal/net"
)

func main() {
	// Optional .env for local defaults; a missing file is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "host":
		runHost(os.Args[2:])
	case "join":
		runJoin(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  duelx host [--name NAME] [--port P] [--settings FILE] [--best-of N]")
	fmt.Println("  duelx join [--name NAME] [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Challenge the next joiner and play from this terminal")
	fmt.Println("  join    Connect to a host and play as the challenged side")
}

func runHost(args []string) {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	name := fs.String("name", envOr("DUELX_NAME", "host"), "participant name to play as")
	port := fs.String("port", envOr("DUELX_PORT", "9000"), "TCP port to listen on")
	settings := fs.String("settings", envOr("DUELX_SETTINGS", "duelx.yaml"), "path to house-rules file")
	bestOf := fs.Int("best-of", 0, "rounds format: 3, 5, or 7 (0 uses the settings default)")
	fs.Parse(args)

	srv := &duelxnet.Server{
		Port:         *port,
		HostName:     *name,
		SettingsFile: *settings,
		BestOf:       *bestOf,
	}

	if err := srv.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runJoin(args []string) {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	name := fs.String("name", envOr("DUELX_NAME", "challenger"), "participant name to play as")
	addr := fs.String("addr", envOr("DUELX_ADDR", "localhost:9000"), "server address to connect to")
	fs.Parse(args)

	if err := duelxnet.Connect(context.Background(), *addr, *name); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

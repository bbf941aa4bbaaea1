package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	duelxmcp "github.com/peterkuimelis/duelx/internal/mcp"
)

func main() {
	_ = godotenv.Load()

	settings := flag.String("settings", envOr("DUELX_SETTINGS", "duelx.yaml"), "path to house-rules YAML file")
	port := flag.String("port", envOr("DUELX_PORT", "9999"), "TCP port for the human opponent connection")
	flag.Parse()

	duelxmcp.SetSettingsFile(*settings)
	duelxmcp.SetPort(*port)

	s := server.NewMCPServer("duelx", "1.0.0")
	duelxmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
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

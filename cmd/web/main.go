package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/peterkuimelis/duelx/internal/web"
)

func main() {
	_ = godotenv.Load()

	port := flag.Int("port", 8080, "HTTP port to listen on")
	settings := flag.String("settings", envOr("DUELX_SETTINGS", "duelx.yaml"), "path to house-rules YAML file")
	flag.Parse()

	srv := web.NewServer(*settings)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("duelx web bridge listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
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

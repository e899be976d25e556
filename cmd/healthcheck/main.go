package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Minimal probe binary for container orchestration. Exits 0 when the API
// answers its liveness endpoint, 1 otherwise.
func main() {
	url := flag.String("url", "http://localhost:8080/health/live", "liveness endpoint to probe")
	timeout := flag.Duration("timeout", 3*time.Second, "request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Get(*url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "probe returned status %d\n", resp.StatusCode)
		os.Exit(1)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Probe posts a sample scenario to a running API instance and prints the
// reply. Useful for smoke-testing a deployment end to end, relay included.
func main() {
	apiURL := flag.String("url", "http://localhost:8080", "API base URL")
	seriesID := flag.String("series", "", "optional series ID for match context")
	scenario := flag.String("scenario", "What if the team force buys after losing the pistol round?", "scenario question")
	flag.Parse()

	payload := map[string]interface{}{
		"scenario": *scenario,
	}
	if *seriesID != "" {
		payload["series_id"] = *seriesID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("encode payload: %v", err)
	}

	client := &http.Client{Timeout: 90 * time.Second}

	start := time.Now()
	resp, err := client.Post(*apiURL+"/api/v1/simulate", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("simulate request failed: %v", err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read reply: %v", err)
	}

	fmt.Printf("status: %d (%.1fs)\n", resp.StatusCode, time.Since(start).Seconds())

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, reply, "", "  "); err != nil {
		fmt.Println(string(reply))
		return
	}
	fmt.Println(pretty.String())
}

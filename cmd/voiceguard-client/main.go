// voiceguard-client exercises the detection endpoint from the command line:
//
//	voiceguard-client <path-to-audio-file> [language]
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultURL = "http://127.0.0.1:8000/api/voice-detection"
const defaultAPIKey = "voiceguard-secret-key"
const defaultLanguage = "English"

type detectionRequest struct {
	Language    string `json:"language"`
	AudioFormat string `json:"audioFormat"`
	AudioBase64 string `json:"audioBase64"`
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(path, language string) error {
	audio, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	body, err := json.Marshal(detectionRequest{
		Language:    language,
		AudioFormat: "mp3",
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
	})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	url := getenv("VOICEGUARD_API_URL", defaultURL)
	fmt.Fprintf(os.Stderr, "sending %s (%d bytes) to %s\n", path, len(audio), url)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", getenv("VOICEGUARD_API_KEY", defaultAPIKey))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err == nil {
		fmt.Printf("[%d] %s\n", resp.StatusCode, pretty.String())
	} else {
		fmt.Printf("[%d] %s\n", resp.StatusCode, respBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-ok http response: %s", resp.Status)
	}
	return nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: voiceguard-client <path-to-audio-file> [language]")
		os.Exit(2)
	}

	language := defaultLanguage
	if len(os.Args) > 2 {
		language = os.Args[2]
	}

	if err := run(os.Args[1], language); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

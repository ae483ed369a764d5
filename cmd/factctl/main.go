// Package main implements the factctl CLI for working with a factd server and
// its templates.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	httpserver "github.com/fyrsmithlabs/factd/internal/http"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds the persistent flags.
type cli struct {
	serverURL string
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "factctl",
		Short: "CLI for factd",
		Long: `factctl is a command-line interface for the factd extraction server.
It sends statements to a running server and checks templates files offline.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&c.serverURL, "server", "http://localhost:5000", "factd server URL")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(c.analyzeCmd(), c.healthCmd(), templatesCmd(), matchCmd())
	return root
}

func (c *cli) analyzeCmd() *cobra.Command {
	var whole bool

	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Extract facts from statements in a file or stdin",
		Long: `Send statements to the factd server and print one record per statement.

Every non-empty line is analyzed as its own statement unless --whole is set.

Examples:
  # Analyze each line of a file
  factctl analyze statements.txt

  # Analyze stdin as one statement
  cat statement.txt | factctl analyze --whole -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			req := httpserver.AnalyzeRequest{}
			if whole {
				text := strings.TrimSpace(string(content))
				req.Text = &text
			} else {
				req.Texts = splitLines(content)
			}
			if req.Text == nil && len(req.Texts) == 0 {
				return fmt.Errorf("no content to analyze")
			}

			var resp httpserver.AnalyzeResponse
			if err := c.do(http.MethodPost, "/api/v1/analyze", req, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, rec := range resp.Results {
				line, err := json.Marshal(rec)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(line))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&whole, "whole", false, "analyze the whole input as one statement")
	return cmd
}

func (c *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check factd server health",
		Long: `Check the health status of the factd server and list its fact groups.

Examples:
  factctl health --server http://localhost:5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp httpserver.HealthResponse
			if err := c.do(http.MethodGet, "/health", nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Server Status: %s\n", resp.Status)
			fmt.Fprintf(out, "Server URL: %s\n", c.serverURL)
			fmt.Fprintf(out, "Groups: %s\n", strings.Join(resp.Groups, ", "))
			fmt.Fprintf(out, "Templates: %d\n", resp.Templates)
			return nil
		},
	}
}

// do sends body as JSON and decodes a 200 response into out.
func (c *cli) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := strings.TrimRight(c.serverURL, "/") + path
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readInput reads the named file, or stdin for no argument or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return content, nil
}

func splitLines(content []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/davetashner/promptproxy/internal/handler"
)

// Complete command flags.
var (
	completeMaxTokens int
	completeJSON      bool
)

// completeCmd sends one prompt through the handler and prints the result.
var completeCmd = &cobra.Command{
	Use:   "complete <prompt>",
	Short: "Send a single prompt through the proxy",
	Long: `Send a single prompt through the same validation, caching and key
resolution the deployed function uses, and print the completion.

Examples:
  promptproxy complete "Say hello"
  promptproxy complete --max-tokens 50 "Summarize the plot of Hamlet"
  promptproxy complete --json "Say hello"`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().IntVarP(&completeMaxTokens, "max-tokens", "m", 0, "maximum completion tokens (default from config)")
	completeCmd.Flags().BoolVar(&completeJSON, "json", false, "print the raw JSON response body")
}

func runComplete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := map[string]any{"prompt": args[0]}
	if cmd.Flags().Changed("max-tokens") {
		req["max_tokens"] = completeMaxTokens
	}
	body, err := json.Marshal(req)
	if err != nil {
		return exitError(ExitError, "promptproxy: encoding request: %v", err)
	}

	ev := handler.Event{
		HTTPMethod: http.MethodPost,
		Body:       handler.StringBody(string(body)),
	}
	resp, _ := newHandler(cfg).Handle(cmd.Context(), ev) //nolint:errcheck // Handle reports failures in resp

	w := cmd.OutOrStdout()
	if completeJSON {
		_, _ = fmt.Fprintln(w, resp.Body)
	}

	var out struct {
		Result string `json:"result"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		return exitError(ExitError, "promptproxy: decoding response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return exitError(ExitError, "promptproxy: %d: %s", resp.StatusCode, out.Error)
	}
	if !completeJSON {
		_, _ = fmt.Fprintln(w, out.Result)
	}
	return nil
}

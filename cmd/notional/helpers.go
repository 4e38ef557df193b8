// Shared helpers for notional CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mesh-intelligence/notional/pkg/notional"
)

// parseFilters converts repeated --filter name=value flags into a filter
// set. Values are matched as strings.
func parseFilters(pairs []string) (notional.Filters, error) {
	filters := make(notional.Filters, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid filter %q (want name=value)", pair)
		}
		filters[name] = value
	}
	return filters, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printResult prints a submission result, or a placeholder when the match
// set was empty and nothing was submitted.
func printResult(result json.RawMessage) error {
	if len(result) == 0 {
		fmt.Println("no rows matched; nothing submitted")
		return nil
	}
	_, err := os.Stdout.Write(append(result, '\n'))
	return err
}

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseLogitBias parses repeated token=bias pairs.
func parseLogitBias(pairs []string) (map[string]float64, error) {
	bias := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		token, value, ok := strings.Cut(pair, "=")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			return nil, fmt.Errorf("invalid --logit-bias %q: want token=bias", pair)
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --logit-bias %q: %w", pair, err)
		}
		bias[token] = b
	}
	return bias, nil
}

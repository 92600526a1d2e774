package config

import (
	"fmt"
	"strconv"
	"strings"
)

// rule normalizes the raw value of one key. A rejected value falls back to
// the key's default. Unless keepEmpty is set, an empty value does too.
type rule struct {
	normalize func(value string) (string, error)
	keepEmpty bool
}

var rules = map[string]rule{
	"history_limit":     {normalize: positiveInt},
	"suggest_limit":     {normalize: positiveInt},
	"logging_max_files": {normalize: positiveInt},
	"tokenizer":         {normalize: oneOf("space", "quoted")},
	"logging_level":     {normalize: oneOf("debug", "info", "warn", "error")},
	"history_enabled":   {normalize: boolean},
	"did_you_mean":      {normalize: boolean},
	"logging_enabled":   {normalize: boolean},
	"debug":             {normalize: boolean},
	"quiet":             {normalize: boolean},
	// An empty permission list grants nothing.
	"permissions": {normalize: permissionList, keepEmpty: true},
}

func positiveInt(value string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return "", fmt.Errorf("must be a positive integer")
	}
	return strconv.Itoa(n), nil
}

func oneOf(allowed ...string) func(string) (string, error) {
	return func(value string) (string, error) {
		lower := strings.ToLower(strings.TrimSpace(value))
		for _, a := range allowed {
			if lower == a {
				return a, nil
			}
		}
		return "", fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

func boolean(value string) (string, error) {
	b, ok := parseBool(value)
	if !ok {
		return "", fmt.Errorf("must be one of 1, true, yes, on, 0, false, no, off")
	}
	return strconv.FormatBool(b), nil
}

func parseBool(value string) (b, ok bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

// permissionList trims, lower-cases and deduplicates a comma-separated list
// of permission grants.
func permissionList(value string) (string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" || seen[item] {
			continue
		}
		if strings.ContainsAny(item, " \t") {
			return "", fmt.Errorf("permission %q contains whitespace", item)
		}
		seen[item] = true
		out = append(out, item)
	}
	return strings.Join(out, ","), nil
}

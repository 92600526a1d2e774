// Package config loads commandflow settings. Every key resolves in order:
// built-in default, COMMANDFLOW_* environment variable, TOML file, and the
// environment again so it always wins. Values are then normalized per key.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/commandflow/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

const (
	envPrefix  = "COMMANDFLOW_"
	configFile = "config.toml"
)

var (
	mu       sync.RWMutex
	values   map[string]string
	defaults map[string]string
)

// Load resolves every key and writes a sample config file on first use.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	defaults = defaultValues()
	values = maps.Clone(defaults)
	env := fromEnv()
	// config_dir from the environment moves the file lookup.
	maps.Copy(values, env)
	maps.Copy(values, fromFile(values["config_dir"]))
	maps.Copy(values, env)

	normalize()
	derivePaths()
	writeSample(values["config_dir"])
}

// reset forgets loaded values.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	values = nil
	defaults = nil
}

func defaultValues() map[string]string {
	home, _ := os.UserHomeDir()
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	return map[string]string{
		"config_dir":        filepath.Join(configHome, "commandflow"),
		"state_dir":         filepath.Join(stateHome, "commandflow"),
		"catalog_path":      "",
		"tokenizer":         "quoted",
		"history_enabled":   "true",
		"history_path":      "",
		"history_limit":     "20",
		"suggest_limit":     "50",
		"permissions":       "*",
		"prompt":            "> ",
		"did_you_mean":      "true",
		"logging_enabled":   "false",
		"logging_level":     "info",
		"logging_max_files": "10",
		"debug":             "false",
		"quiet":             "false",
	}
}

// fromEnv collects COMMANDFLOW_* variables keyed by their lower-cased
// suffix. COMMANDFLOW_CONFIG_PATH only locates the file.
func fromEnv() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key != "config_path" {
			out[key] = value
		}
	}
	return out
}

// fromFile reads COMMANDFLOW_CONFIG_PATH, or config.toml under configDir
// when it exists. Unreadable files are skipped with a warning.
func fromFile(configDir string) map[string]string {
	path := os.Getenv(envPrefix + "CONFIG_PATH")
	if path == "" {
		if configDir == "" {
			return nil
		}
		path = filepath.Join(configDir, configFile)
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		colors.Debug(fmt.Sprintf("config: unable to read %s: %v", path, err))
		return nil
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("config: unable to parse %s: %v", path, err))
		return nil
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		key := strings.ToLower(k)
		s, ok := flatten(v)
		if !ok {
			colors.Warning(fmt.Sprintf("config: %s has unsupported type %T", key, v))
			continue
		}
		out[key] = s
	}
	return out
}

// flatten renders a TOML scalar as a string. Arrays become comma-separated
// lists, which is how permissions are stored.
func flatten(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case []any:
		items := make([]string, len(t))
		for i, item := range t {
			s, ok := flatten(item)
			if !ok {
				return "", false
			}
			items[i] = s
		}
		return strings.Join(items, ","), true
	}
	return "", false
}

func normalize() {
	for key, value := range values {
		r, ok := rules[key]
		if !ok {
			continue
		}
		if value == "" && !r.keepEmpty {
			values[key] = defaults[key]
			continue
		}
		normalized, err := r.normalize(value)
		if err != nil {
			colors.Warning(fmt.Sprintf("config: invalid %s %q: %v; using %q", key, value, err, defaults[key]))
			normalized = defaults[key]
		}
		values[key] = normalized
	}
}

// derivePaths places history and the catalog under the state and config
// dirs unless set explicitly.
func derivePaths() {
	if values["history_path"] == "" && values["state_dir"] != "" {
		values["history_path"] = filepath.Join(values["state_dir"], "history.db")
	}
	if values["catalog_path"] == "" && values["config_dir"] != "" {
		values["catalog_path"] = filepath.Join(values["config_dir"], "commands.toml")
	}
}

const sampleHeader = `# commandflow configuration (TOML).
# Every key may also be set as COMMANDFLOW_<KEY>, which wins over this file.

`

// writeSample writes the defaults to configDir/config.toml if missing.
func writeSample(configDir string) {
	if configDir == "" {
		return
	}
	path := filepath.Join(configDir, configFile)
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		colors.Debug(fmt.Sprintf("config: unable to create %s: %v", configDir, err))
		return
	}

	sample := make(map[string]any, len(defaults))
	for k, v := range defaults {
		switch {
		case v == "":
		case isInt(v):
			sample[k], _ = strconv.Atoi(v)
		case v == "true" || v == "false":
			sample[k] = v == "true"
		default:
			sample[k] = v
		}
	}
	data, err := toml.Marshal(sample)
	if err != nil {
		colors.Warning(fmt.Sprintf("config: unable to render sample: %v", err))
		return
	}
	if err := os.WriteFile(path, append([]byte(sampleHeader), data...), 0o644); err != nil {
		colors.Warning(fmt.Sprintf("config: unable to write sample %s: %v", path, err))
	}
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// Get returns the value of key, or defaultValue before Load or for an
// unknown key.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := values[key]; ok {
		return v
	}
	return defaultValue
}

// GetInt returns key as an integer.
func GetInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns key as a boolean.
func GetBool(key string, defaultValue bool) bool {
	if b, ok := parseBool(Get(key, "")); ok {
		return b
	}
	return defaultValue
}

// GetList splits key on commas into trimmed, non-empty items.
func GetList(key string) []string {
	var out []string
	for _, item := range strings.Split(Get(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

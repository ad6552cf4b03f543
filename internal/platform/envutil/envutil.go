package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

func String(key, def string, log *logger.Logger) string {
	val, ok := lookup(key)
	if !ok {
		debug(log, key, "Environment variable not found, using default", "default", def)
		return def
	}
	debug(log, key, "Environment variable found, using environment", "value", val)
	return val
}

func Int(key string, def int, log *logger.Logger) int {
	raw, ok := lookup(key)
	if !ok {
		debug(log, key, "Environment variable not found, using default", "default", def)
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		debug(log, key, "Environment variable could not be parsed as int, using default", "provided", raw, "default", def, "error", err)
		return def
	}
	return i
}

func Bool(key string, def bool, log *logger.Logger) bool {
	raw, ok := lookup(key)
	if !ok {
		debug(log, key, "Environment variable not found, using default", "default", def)
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	debug(log, key, "Environment variable could not be parsed as bool, using default", "provided", raw, "default", def)
	return def
}

// Duration accepts Go duration strings ("90s") or a bare integer in unit.
func Duration(key string, def time.Duration, unit time.Duration, log *logger.Logger) time.Duration {
	raw, ok := lookup(key)
	if !ok {
		debug(log, key, "Environment variable not found, using default", "default", def.String())
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * unit
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		debug(log, key, "Environment variable could not be parsed as duration, using default", "provided", raw, "default", def.String())
		return def
	}
	return d
}

// List splits a comma separated variable, dropping empty entries.
func List(key string, def []string, log *logger.Logger) []string {
	raw, ok := lookup(key)
	if !ok {
		debug(log, key, "Environment variable not found, using default", "default", def)
		return def
	}
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func lookup(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false
	}
	return val, true
}

func debug(log *logger.Logger, key, msg string, kv ...interface{}) {
	if log == nil {
		return
	}
	log.With("env_var", key).Debug(msg, kv...)
}

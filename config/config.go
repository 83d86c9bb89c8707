package config

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load reads .env (when present) into the process environment, snapshots the
// environment and, when SSM_PARAMETER_PATH is set, overlays the parameters
// stored under that path.
func Load(ctx context.Context) (map[string]string, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using existing environment variables")
	}

	c := New()
	path := GetString(c, "SSM_PARAMETER_PATH", "")
	if path == "" {
		return c, nil
	}

	client, err := newSSMClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := OverlaySSM(ctx, c, client, path); err != nil {
		return nil, err
	}
	return c, nil
}

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return asBool
}

// GetList splits a comma-separated value, dropping blank entries
func GetList(config map[string]string, key string) []string {
	var out []string
	for _, part := range strings.Split(GetString(config, key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

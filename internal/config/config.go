package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "pegacl"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
)

// Config is the runtime configuration. The JSON5 config file fills the gaps
// in the defaults; environment variables win over both. Credentials are
// expected from the environment (a .env file is honored by main).
type Config struct {
	MongoURI string         `json:"mongo_uri"`
	LinkedIn LinkedInConfig `json:"linkedin"`
}

type LinkedInConfig struct {
	User     string `json:"user"`
	Password string `json:"password"`
	// Keywords overrides the per-category search keyword when set.
	Keywords string `json:"keywords"`
	// Location is a place name or a numeric geoId.
	Location string `json:"location"`
	// RecencySeconds asks for postings within the last N seconds.
	RecencySeconds int    `json:"recency_seconds"`
	MaxPages       int    `json:"max_pages"`
	Headless       bool   `json:"headless"`
	StatePath      string `json:"state_path"`
}

func DefaultConfig() Config {
	return Config{
		LinkedIn: LinkedInConfig{
			Location:       "Chile",
			RecencySeconds: 86400,
			MaxPages:       6,
			StatePath:      "state.json",
		},
	}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json5.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.MongoURI = envString("MONGO_URI", cfg.MongoURI)
	cfg.LinkedIn.User = envString("LINKEDIN_USER", cfg.LinkedIn.User)
	cfg.LinkedIn.Password = envString("LINKEDIN_PASSWORD", cfg.LinkedIn.Password)
	cfg.LinkedIn.Keywords = envString("LINKEDIN_KEYWORDS", cfg.LinkedIn.Keywords)
	cfg.LinkedIn.Location = envString("LINKEDIN_LOCATION", cfg.LinkedIn.Location)
	cfg.LinkedIn.RecencySeconds = envInt("LINKEDIN_F_TPR_SECONDS", cfg.LinkedIn.RecencySeconds)
	cfg.LinkedIn.MaxPages = envInt("LINKEDIN_MAX_PAGES", cfg.LinkedIn.MaxPages)
	cfg.LinkedIn.Headless = envBool("LINKEDIN_HEADLESS", cfg.LinkedIn.Headless)
	cfg.LinkedIn.StatePath = envString("LINKEDIN_STATE_PATH", cfg.LinkedIn.StatePath)
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
		if err != nil {
			return created, err
		}
		if err := os.WriteFile(configPath, append(data, '\n'), 0o644); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

// LoadProxies resolves proxies from the flag value, then the environment,
// then the proxies file. An empty result means direct connections.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}
	if env := strings.TrimSpace(os.Getenv("PEGACL_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if val == "" {
		return fallback
	}
	switch val {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

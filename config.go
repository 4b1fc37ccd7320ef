package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GitHubOwner string `yaml:"github_owner"`
	GitHubRepo  string `yaml:"github_repo"`
	FolderPath  string `yaml:"folder_path"`

	AccessToken     string `yaml:"access_token"`
	AccessTokenFile string `yaml:"access_token_file"`

	ListenAddr      string  `yaml:"listen_addr"`
	DBPath          string  `yaml:"db_path"`
	CacheTTLMinutes int     `yaml:"cache_ttl_minutes"`
	RefreshSchedule string  `yaml:"refresh_schedule"`
	WeightFactor    float64 `yaml:"weight_factor"`
	Timezone        string  `yaml:"timezone"`

	// APIBaseURL exists so tests can point the client at a local server.
	APIBaseURL string `yaml:"api_base_url"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.GitHubOwner, "GITHUB_OWNER")
	envOverride(&cfg.GitHubRepo, "GITHUB_REPO")
	envOverride(&cfg.FolderPath, "FOLDER_PATH")
	envOverride(&cfg.AccessTokenFile, "ACCESS_TOKEN_FILE")
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverrideInt(&cfg.CacheTTLMinutes, "CACHE_TTL_MINUTES")
	envOverride(&cfg.RefreshSchedule, "REFRESH_SCHEDULE")
	envOverrideFloat(&cfg.WeightFactor, "WEIGHT_FACTOR")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.APIBaseURL, "API_BASE_URL")

	// Defaults
	if cfg.GitHubOwner == "" {
		cfg.GitHubOwner = "KevinTheRainmaker"
	}
	if cfg.GitHubRepo == "" {
		cfg.GitHubRepo = "B-Peach-Evaluation"
	}
	if cfg.FolderPath == "" {
		cfg.FolderPath = "results"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./emdash.db"
	}
	if cfg.WeightFactor == 0 && os.Getenv("WEIGHT_FACTOR") == "" {
		cfg.WeightFactor = defaultWeightFactor
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.github.com/repos"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	cfg.AccessToken = ResolveAccessToken(cfg)
	if cfg.AccessToken == "" {
		// Soft condition: unauthenticated requests still work against public
		// repositories, and failures surface per-request on the dashboard.
		log.Println("No access token configured (token file, ACCESS_TOKEN, or config.yaml); GitHub requests will be unauthenticated")
	}

	// Validate required fields
	if cfg.CacheTTLMinutes < 0 {
		log.Fatalf("invalid cache_ttl_minutes '%d': must be >= 0", cfg.CacheTTLMinutes)
	}
	if cfg.WeightFactor < 0 {
		log.Fatalf("invalid weight_factor '%f': must be >= 0", cfg.WeightFactor)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

// ResolveAccessToken resolves the GitHub token through the prioritized chain:
// token file (secrets store), then ACCESS_TOKEN env var, then the value carried
// in config.yaml. An unreadable token file logs a warning and falls through.
func ResolveAccessToken(cfg Config) string {
	if cfg.AccessTokenFile != "" {
		data, err := os.ReadFile(cfg.AccessTokenFile)
		if err != nil {
			log.Printf("token file %s unreadable: %v", cfg.AccessTokenFile, err)
		} else if token := strings.TrimSpace(string(data)); token != "" {
			return token
		}
	}
	if token := os.Getenv("ACCESS_TOKEN"); token != "" {
		return token
	}
	return cfg.AccessToken
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

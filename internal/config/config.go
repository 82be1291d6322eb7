package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DBPath        string
	ServerPort    string
	SessionSecret string

	UploadDir   string
	MaxUploadMB int64

	// diretório das planilhas de referência (CODOM.xlsx e Dados.xlsx)
	DataDir string

	Debug          bool
	CookieSecure   bool
	TrustedProxies []string

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:          os.Getenv("DB_PATH"),
		ServerPort:      os.Getenv("SERVER_PORT"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		UploadDir:       os.Getenv("UPLOAD_DIR"),
		DataDir:         os.Getenv("DATA_DIR"),
		MaxUploadMB:     envInt64("MAX_UPLOAD_MB", 16),
		Debug:           envBool("DEBUG", false),
		LoginRateLimit:  int(envInt64("LOGIN_RATE_LIMIT", 5)),
		LoginRateWindow: envDuration("LOGIN_RATE_WINDOW", time.Minute),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "data/op_registro.db"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal().Msg("SESSION_SECRET is not set")
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	// fora de debug o cookie de sessão é Secure por padrão
	if v := os.Getenv("SESSION_COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = strings.EqualFold(v, "true")
	} else {
		cfg.CookieSecure = !cfg.Debug
	}

	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	return cfg
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Warn().Str("var", key).Str("value", v).Msg("valor inválido no ambiente, usando default")
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("var", key).Str("value", v).Msg("duração inválida no ambiente, usando default")
		return def
	}
	return d
}

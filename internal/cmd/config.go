package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/bjarke-xyz/mortgage-intake/internal/export"
)

type config struct {
	Env              string
	Port             int
	MetricsPort      int
	DatabaseURL      string
	DatabaseMaxConns int
	LenderName       string
	ChromePath       string
	Archive          export.ArchiveConfig
}

func loadConfig() config {
	return config{
		Env:              os.Getenv("ENV"),
		Port:             getenvInt("PORT", 9090),
		MetricsPort:      getenvInt("METRICS_PORT", 9091),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DatabaseMaxConns: getenvInt("DATABASE_MAX_CONNS", 16),
		LenderName:       os.Getenv("LENDER_NAME"),
		ChromePath:       os.Getenv("CHROME_PATH"),
		Archive: export.ArchiveConfig{
			Endpoint:  os.Getenv("ARCHIVE_ENDPOINT"),
			AccessKey: os.Getenv("ARCHIVE_ACCESS_KEY"),
			SecretKey: os.Getenv("ARCHIVE_SECRET_KEY"),
			Bucket:    getenv("ARCHIVE_BUCKET", "mortgage-applications"),
			UseSSL:    getenvBool("ARCHIVE_USE_SSL", true),
		},
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

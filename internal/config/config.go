package config

import (
	"log"
	"os"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string
	SeedDemo bool
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "bazaar.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./bazaar.log" // default log sink in project root
	}
	seed := os.Getenv("SEED_DEMO") == "1"

	cfg := Config{Port: port, DBDSN: dsn, MediaDir: media, LogFile: logFile, SeedDemo: seed}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s SEED_DEMO=%v",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.SeedDemo)
	return cfg
}

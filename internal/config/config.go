package config

import (
	"bufio"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// NATS Configuration
	NatsURL       string
	IngestSubject string
	ExportSubject string

	// Backend Credentials
	APIKey   string
	SpaceKey string
	// URI points the export sink at a dedicated backend cluster;
	// empty means the ingest NATS server doubles as the backend.
	URI string

	// Sink Client Tuning
	SendTimeout   time.Duration
	MaxQueueBound int

	// Model Configuration
	MonitorName  string
	ModelID      string
	ModelVersion string
	ModelType    string
	Environment  string
	Tags         map[string]string

	// HTTP Configuration
	HTTPAddr string

	// Spool Configuration
	DBPath       string
	SpoolEnabled bool
}

func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := loadDotEnv(envFile); err != nil {
			slog.Warn("Could not load env file", "file", envFile, "error", err)
		} else {
			slog.Info("Environment loaded", "file", envFile)
		}
	}

	return &Config{
		NatsURL:       getEnv("NATS_URL", "nats://127.0.0.1:4222"),
		IngestSubject: getEnv("INGEST_SUBJECT", "monitoring.observations.*"),
		ExportSubject: getEnv("EXPORT_SUBJECT", "monitoring.export"),
		APIKey:        getEnv("MONITOR_API_KEY", ""),
		SpaceKey:      getEnv("MONITOR_SPACE_KEY", ""),
		URI:           getEnv("MONITOR_URI", ""),
		SendTimeout:   getEnvDuration("SEND_TIMEOUT", "200s"),
		MaxQueueBound: getEnvInt("MAX_QUEUE_BOUND", 5000),
		MonitorName:   getEnv("MONITOR_NAME", "default"),
		ModelID:       getEnv("MODEL_NAME", ""),
		ModelVersion:  getEnv("MODEL_VERSION", ""),
		ModelType:     getEnv("MODEL_TYPE", ""),
		Environment:   getEnv("MODEL_ENVIRONMENT", ""),
		Tags:          getEnvTags("MODEL_TAGS"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8082"),
		DBPath:        getEnv("DB_PATH", "data/monitor.sqlite"),
		SpoolEnabled:  getEnvBool("SPOOL_ENABLED", true),
	}, nil
}

func loadDotEnv(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key, defaultVal string) time.Duration {
	val := getEnv(key, defaultVal)
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	d, _ := time.ParseDuration(defaultVal)
	return d
}

// getEnvTags parses a comma-separated key=value list, e.g.
// MODEL_TAGS=team=search,tier=gold.
func getEnvTags(key string) map[string]string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	tags := make(map[string]string)
	for _, pair := range strings.Split(val, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 {
			k := strings.TrimSpace(parts[0])
			v := strings.TrimSpace(parts[1])
			if k != "" {
				tags[k] = v
			}
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

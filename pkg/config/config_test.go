package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Query.MaxNgram != 3 {
		t.Errorf("Query.MaxNgram = %d, want 3", cfg.Query.MaxNgram)
	}
	if cfg.Kafka.Topics.QueryEvents != "query-events" {
		t.Errorf("Kafka.Topics.QueryEvents = %q", cfg.Kafka.Topics.QueryEvents)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 9999
query:
  maxNgram: 2
  minWordLenOneTypo: 4
  minWordLenTwoTypos: 8
logging:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Query.MaxNgram != 2 {
		t.Errorf("Query.MaxNgram = %d, want 2", cfg.Query.MaxNgram)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QE_SERVER_PORT", "7070")
	t.Setenv("QE_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("QE_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("QE_QUERY_MAX_NGRAM", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Query.MaxNgram != 5 {
		t.Errorf("Query.MaxNgram = %d, want 5", cfg.Query.MaxNgram)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.Query.MaxNgram = 0
	if err := cfg.Validate(); err == nil {
		t.Error("MaxNgram 0 accepted")
	}

	cfg = defaultConfig()
	cfg.Query.MinWordLenOneTypo = 10
	cfg.Query.MinWordLenTwoTypos = 5
	if err := cfg.Validate(); err == nil {
		t.Error("inverted typo thresholds accepted")
	}
}

func TestTypoAllowance(t *testing.T) {
	q := QueryConfig{MinWordLenOneTypo: 5, MinWordLenTwoTypos: 9}
	tests := []struct {
		length int
		want   int
	}{
		{0, 0},
		{4, 0},
		{5, 1},
		{8, 1},
		{9, 2},
		{20, 2},
	}
	for _, tt := range tests {
		if got := q.TypoAllowance(tt.length); got != tt.want {
			t.Errorf("TypoAllowance(%d) = %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5433, Database: "qe", User: "u", Password: "p", SSLMode: "disable",
	}
	dsn := p.DSN()
	want := "host=db port=5433 user=u password=p dbname=qe sslmode=disable"
	if dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}

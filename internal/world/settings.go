package world

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings are process-level knobs read from the environment.
type Settings struct {
	BalancePath    string
	Seed           uint64 // zero means seed from the clock
	Addr           string
	TPS            int
	SnapshotHz     float64
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
}

// LoadSettings reads an optional .env file and then the environment.
func LoadSettings(envFiles ...string) (Settings, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load(envFiles...)

	s := Settings{
		BalancePath:    getEnv("ORBITMINER_BALANCE", ""),
		Addr:           getEnv("ORBITMINER_ADDR", ":8081"),
		AllowedOrigins: splitList(getEnv("ORBITMINER_ALLOWED_ORIGINS", "*")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if s.Seed, err = strconv.ParseUint(getEnv("ORBITMINER_SEED", "0"), 10, 64); err != nil {
		return Settings{}, fmt.Errorf("ORBITMINER_SEED: %w", err)
	}
	if s.TPS, err = strconv.Atoi(getEnv("ORBITMINER_TPS", "60")); err != nil {
		return Settings{}, fmt.Errorf("ORBITMINER_TPS: %w", err)
	}
	if s.SnapshotHz, err = strconv.ParseFloat(getEnv("ORBITMINER_SNAPSHOT_HZ", "10"), 64); err != nil {
		return Settings{}, fmt.Errorf("ORBITMINER_SNAPSHOT_HZ: %w", err)
	}
	if s.TPS <= 0 {
		return Settings{}, fmt.Errorf("ORBITMINER_TPS must be positive, got %d", s.TPS)
	}
	if s.SnapshotHz <= 0 {
		return Settings{}, fmt.Errorf("ORBITMINER_SNAPSHOT_HZ must be positive, got %v", s.SnapshotHz)
	}
	return s, nil
}

// TickInterval is the wall-clock duration of one simulation tick.
func (s Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TPS)
}

// SeedOrNow returns the configured seed, or one derived from the clock.
func (s Settings) SeedOrNow() uint64 {
	if s.Seed != 0 {
		return s.Seed
	}
	return uint64(time.Now().UnixNano())
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package world

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBalanceIsValid(t *testing.T) {
	b := DefaultBalance()
	require.NoError(t, b.Validate())

	assert.Equal(t, 1500*time.Millisecond, b.Ships.TravelDuration)
	assert.Equal(t, 3000*time.Millisecond, b.Ships.MiningDuration)
	assert.Equal(t, 100*time.Millisecond, b.Ships.OrbitPoll)
	assert.Equal(t, 50, b.Placement.MaxAttempts)
	assert.Equal(t, 0.1, b.Placement.GasChance)

	weights := make([]int, 0, len(b.Rarities))
	for _, r := range b.Rarities {
		weights = append(weights, r.Weight)
	}
	assert.Equal(t, []int{50, 30, 12, 5, 2, 1}, weights)
	assert.Equal(t, "MYTHIC", b.Rarities[5].Name)
}

func TestLoadBalanceOverlaysDefaults(t *testing.T) {
	b, err := LoadBalance([]byte(`
ships:
  max_ships: 3
  mining_duration: 1s
`))
	require.NoError(t, err)

	assert.Equal(t, 3, b.Ships.MaxShips)
	assert.Equal(t, time.Second, b.Ships.MiningDuration)
	assert.Equal(t, 1500*time.Millisecond, b.Ships.TravelDuration, "untouched fields keep defaults")
	assert.Len(t, b.Rarities, 6)
}

func TestLoadBalanceReportsEveryProblem(t *testing.T) {
	_, err := LoadBalance([]byte(`
ships:
  max_ships: 0
wave:
  decay_max: 1.5
rarities:
  - { name: DUP, weight: 1 }
  - { name: DUP, weight: 0 }
`))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "max_ships")
	assert.Contains(t, msg, "decay")
	assert.Contains(t, msg, `"DUP" is defined twice`)
	assert.Contains(t, msg, `"DUP" weight must be positive`)
}

func TestLoadBalanceRejectsBadYAML(t *testing.T) {
	_, err := LoadBalance([]byte("ships: [oops"))
	assert.ErrorContains(t, err, "parse balance")
}

func TestLoadBalanceFile(t *testing.T) {
	b, err := LoadBalanceFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBalance(), b)

	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planets:\n  max_planets: 4\n"), 0o644))
	b, err = LoadBalanceFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Planets.MaxPlanets)

	_, err = LoadBalanceFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("ORBITMINER_SEED", "42")
	t.Setenv("ORBITMINER_TPS", "30")
	t.Setenv("ORBITMINER_ALLOWED_ORIGINS", "http://a.example, http://b.example")

	s, err := LoadSettings(filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), s.Seed)
	assert.Equal(t, uint64(42), s.SeedOrNow())
	assert.Equal(t, time.Second/30, s.TickInterval())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, s.AllowedOrigins)
	assert.Equal(t, ":8081", s.Addr)
}

func TestLoadSettingsRejectsBadNumbers(t *testing.T) {
	t.Setenv("ORBITMINER_TPS", "fast")
	_, err := LoadSettings(filepath.Join(t.TempDir(), "none.env"))
	assert.ErrorContains(t, err, "ORBITMINER_TPS")
}

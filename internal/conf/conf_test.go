package conf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  http:
    addr: 0.0.0.0:8200
    timeout: 2s
data:
  database:
    driver: sqlite
    source: "${DB_SOURCE:file::memory:}"
    auto_migrate: true
  rocketmq:
    enabled: false
    name_servers: ["127.0.0.1:9876"]
    topic: household_footprint
simulation:
  seed: 42
  tariff:
    tiers:
      - {capacity: 100, multiplier: 1}
      - {capacity: 0, multiplier: 2}
    vat_rate: 0.1
  water:
    has_garden: false
sweep:
  cron: "0 30 0 * * *"
  timeout: 30m
  lock_ttl: 45m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvPrefix+"DB_SOURCE", "file:ledger.db")

	bc, closeFn, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	defer closeFn()

	require.NotNil(t, bc.Server)
	assert.Equal(t, "0.0.0.0:8200", bc.Server.Http.Addr)
	assert.Equal(t, 2*time.Second, bc.Server.Http.Timeout.AsDuration())

	assert.Equal(t, "sqlite", bc.Data.Database.Driver)
	assert.Equal(t, "file:ledger.db", bc.Data.Database.Source)
	assert.True(t, bc.Data.Database.AutoMigrate)
	assert.Nil(t, bc.Data.Redis)
	assert.False(t, bc.Data.Rocketmq.Enabled)
	assert.Equal(t, []string{"127.0.0.1:9876"}, bc.Data.Rocketmq.NameServers)

	assert.Equal(t, uint64(42), bc.Simulation.Seed)
	require.Len(t, bc.Simulation.Tariff.Tiers, 2)
	assert.Equal(t, 2.0, bc.Simulation.Tariff.Tiers[1].Multiplier)
	assert.Equal(t, 0.1, bc.Simulation.Tariff.VatRate)
	require.NotNil(t, bc.Simulation.Water.HasGarden)
	assert.False(t, *bc.Simulation.Water.HasGarden)
	assert.Nil(t, bc.Simulation.Water.NumCars)

	assert.Equal(t, "0 30 0 * * *", bc.Sweep.Cron)
	assert.Equal(t, 30*time.Minute, bc.Sweep.Timeout.AsDuration())
	assert.Equal(t, 45*time.Minute, bc.Sweep.LockTtl.AsDuration())
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Duration)

	require.NoError(t, json.Unmarshal([]byte(`1000000`), &d))
	assert.Equal(t, time.Millisecond, d.Duration)

	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))

	var nilDuration *Duration
	assert.Zero(t, nilDuration.AsDuration())
}

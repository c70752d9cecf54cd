package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tablebook/internal/domain/reservation"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 120, cfg.ConflictWindowMinutes)
	assert.Equal(t, string(reservation.PolicyBand), cfg.ConflictPolicy)
	assert.Equal(t, 20, cfg.LargePartyThreshold)
	assert.Equal(t, "Private", cfg.LargePartySection)
	assert.Equal(t, 8, cfg.MaxCombinedParty)
	assert.Equal(t, 5, cfg.AlternativesLimit)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TABLEBOOK_CONFLICT_WINDOW_MINUTES", "90")
	t.Setenv("TABLEBOOK_CONFLICT_POLICY", string(reservation.PolicyExactSlot))
	t.Setenv("TABLEBOOK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.ConflictWindowMinutes)
	assert.Equal(t, string(reservation.PolicyExactSlot), cfg.ConflictPolicy)
	assert.Equal(t, "debug", cfg.LogLevel)

	settings := cfg.Settings()
	assert.Equal(t, 90*time.Minute, settings.ConflictWindow)
	assert.Equal(t, reservation.PolicyExactSlot, settings.Policy)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"bad policy":   {"TABLEBOOK_CONFLICT_POLICY", "sometimes"},
		"zero window":  {"TABLEBOOK_CONFLICT_WINDOW_MINUTES", "0"},
		"tiny combo":   {"TABLEBOOK_MAX_COMBINED_PARTY", "1"},
		"no threshold": {"TABLEBOOK_LARGE_PARTY_THRESHOLD", "0"},
		"zero alts":    {"TABLEBOOK_ALTERNATIVES_LIMIT", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

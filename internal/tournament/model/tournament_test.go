package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/festy23/league_engine/internal/bracket"
	"github.com/festy23/league_engine/internal/domain"
)

func TestKnockoutConfig_ModeFor(t *testing.T) {
	var nilConfig *KnockoutConfig
	assert.Equal(t, domain.PairingCross, nilConfig.ModeFor(domain.QuarterFinal))
	assert.Nil(t, nilConfig.ManualPairs(domain.QuarterFinal))

	cfg := &KnockoutConfig{
		PairingMode: domain.PairingSeeded,
		PairingConfig: datatypes.NewJSONType(PairingConfig{
			domain.SemiFinal: domain.PairingManual,
		}),
	}
	assert.Equal(t, domain.PairingManual, cfg.ModeFor(domain.SemiFinal))
	assert.Equal(t, domain.PairingSeeded, cfg.ModeFor(domain.Final))

	cfg.PairingMode = ""
	assert.Equal(t, domain.PairingCross, cfg.ModeFor(domain.Final))
}

func TestKnockoutConfigRequest_AcceptsLegacyRounds(t *testing.T) {
	body := `{
		"qualifiersPerGroup": 2,
		"pairingMode": "seeded",
		"pairingConfig": {"Quarterfinal": "cross", "Semifinal": "MANUAL"},
		"manualPairsByPhase": {"SF": [[1, 4], ["2", 3]]}
	}`

	var req KnockoutConfigRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, domain.PairingSeeded, *req.PairingMode)
	assert.Equal(t, PairingConfig{
		domain.QuarterFinal: domain.PairingCross,
		domain.SemiFinal:    domain.PairingManual,
	}, req.PairingConfig)
	require.Len(t, req.ManualPairsByPhase[domain.SemiFinal], 2)
	assert.Equal(t, bracket.ManualSlot{Index: 2}, req.ManualPairsByPhase[domain.SemiFinal][1][0])

	assert.Error(t, json.Unmarshal([]byte(`{"pairingConfig":{"Round of 3":"CROSS"}}`), &req))
}

func TestNewKnockoutConfigResponse(t *testing.T) {
	seed := int64(7)
	cfg := &KnockoutConfig{TournamentID: 3, QualifiersPerGroup: 1, PairingMode: domain.PairingRandom, RandomSeed: &seed}

	resp := NewKnockoutConfigResponse(cfg)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"tournamentId": 3,
		"qualifiersPerGroup": 1,
		"pairingMode": "RANDOM",
		"pairingConfig": {},
		"manualPairsByPhase": {},
		"intervalMinutes": 0,
		"randomSeed": 7
	}`, string(data))
}

func TestNewTournamentResponse(t *testing.T) {
	resp := NewTournamentResponse(&Tournament{ID: 1, Name: "Cup", FormatType: domain.FormatGroups}, nil)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"groups":[]`)
	assert.Contains(t, string(data), `"formatType":"GROUPS"`)
}

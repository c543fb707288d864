package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMatchConfigStrictFields(t *testing.T) {
	yaml := `
apply_sibling_priority: true
apply_quota_order: false
`
	cfg, err := LoadMatchConfig(strings.NewReader(yaml))
	assert.NoError(t, err)
	assert.True(t, cfg.ApplySiblingPriority)
	assert.False(t, cfg.ApplyQuotaOrder)
}

func TestLoadMatchConfigRejectsUnknownField(t *testing.T) {
	yaml := `
apply_sibling_priority: true
not_a_real_field: 1
`
	_, err := LoadMatchConfig(strings.NewReader(yaml))
	assert.Error(t, err)
}

func TestLoadLotteryConfigValidatesMode(t *testing.T) {
	yaml := `
seed: 7
mode: banana
`
	_, err := LoadLotteryConfig(strings.NewReader(yaml))
	assert.Error(t, err)
}

func TestDefaultMatchConfigEnablesEveryStep(t *testing.T) {
	cfg := DefaultMatchConfig()
	assert.True(t, cfg.ApplySiblingPriority)
	assert.True(t, cfg.ApplyLinkedReorder)
	assert.True(t, cfg.ApplyQuotaOrder)
	assert.True(t, cfg.TruncateAtSE)
	assert.True(t, cfg.TransferCapacity)
	assert.True(t, cfg.ForceSEAdmission)
	assert.Equal(t, "ascending", cfg.GradeOrder)
}

func TestMatchConfigValidateAcceptsKnownOrders(t *testing.T) {
	for _, order := range []string{"", "ascending", "descending"} {
		cfg := MatchConfig{GradeOrder: order}
		assert.NoError(t, cfg.Validate())
	}
}

func TestMatchConfigValidateRejectsUnknownOrder(t *testing.T) {
	cfg := MatchConfig{GradeOrder: "sideways"}
	assert.Error(t, cfg.Validate())
}

func TestLoadMatchConfigHonorsOrderField(t *testing.T) {
	yaml := `
order: descending
`
	cfg, err := LoadMatchConfig(strings.NewReader(yaml))
	assert.NoError(t, err)
	assert.Equal(t, "descending", cfg.GradeOrder)
}

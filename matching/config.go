package matching

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var validLotteryModes = map[string]bool{
	"single": true,
	"quota":  true,
	"program": true,
}

var validGradeOrders = map[string]bool{
	"":            true, // defaults to ascending
	"ascending":   true,
	"descending":  true,
}

// MatchConfig configures one run of the Policy Maker over a scenario graph.
type MatchConfig struct {
	ApplySiblingPriority bool `yaml:"apply_sibling_priority"`
	ApplyLinkedReorder   bool `yaml:"apply_linked_reorder"`
	ApplyQuotaOrder      bool `yaml:"apply_quota_order"`
	TruncateAtSE         bool `yaml:"truncate_at_secured_enrollment"`
	TransferCapacity     bool `yaml:"transfer_capacity"`
	ForceSEAdmission     bool `yaml:"force_se_admission"`

	// GradeOrder controls the secondary cohort sort key: "ascending" or
	// "descending" by grade. Assignment type is always the primary key
	// (special types before the regular type), independent of this setting.
	GradeOrder string `yaml:"order"`
}

// Validate checks MatchConfig for internally-consistent values.
func (c *MatchConfig) Validate() error {
	if !validGradeOrders[c.GradeOrder] {
		return &ConfigError{Field: "order", Msg: fmt.Sprintf("unknown grade order %q", c.GradeOrder)}
	}
	return nil
}

// DefaultMatchConfig returns the conventional full-featured configuration:
// every optional round-orchestration step turned on, grades processed
// ascending.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		ApplySiblingPriority: true,
		ApplyLinkedReorder:   true,
		ApplyQuotaOrder:      true,
		TruncateAtSE:         true,
		TransferCapacity:     true,
		ForceSEAdmission:     true,
		GradeOrder:           "ascending",
	}
}

// LotteryConfig configures one run of the Lottery Maker.
type LotteryConfig struct {
	Seed int64  `yaml:"seed"`
	Mode string `yaml:"mode"` // "single", "quota", or "program"
}

// Validate checks that Mode is one of the recognized lottery modes.
func (c *LotteryConfig) Validate() error {
	if !validLotteryModes[c.Mode] {
		return &ConfigError{Field: "mode", Msg: fmt.Sprintf("unknown lottery mode %q", c.Mode)}
	}
	return nil
}

// LoadMatchConfig strict-decodes a MatchConfig from YAML, rejecting unknown
// fields the way the teacher's policy-bundle loader does.
func LoadMatchConfig(r io.Reader) (*MatchConfig, error) {
	var cfg MatchConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("matching: decoding match config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadMatchConfigFile reads and decodes a MatchConfig from a YAML file path.
func LoadMatchConfigFile(path string) (*MatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("matching: reading match config %s: %w", path, err)
	}
	return LoadMatchConfig(bytes.NewReader(data))
}

// LoadLotteryConfig strict-decodes a LotteryConfig from YAML.
func LoadLotteryConfig(r io.Reader) (*LotteryConfig, error) {
	var cfg LotteryConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("matching: decoding lottery config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLotteryConfigFile reads and decodes a LotteryConfig from a YAML file path.
func LoadLotteryConfigFile(path string) (*LotteryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("matching: reading lottery config %s: %w", path, err)
	}
	return LoadLotteryConfig(bytes.NewReader(data))
}

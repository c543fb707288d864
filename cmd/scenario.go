package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cb-da/schoolmatch/matching"
)

// Scenario is the JSON-serializable bundle of input tables the "run"
// subcommand reads from disk: applicants, applications, vacancies,
// priority profiles, quota order, siblings and links, the same record
// shapes matching.BuildGraph consumes directly.
type Scenario struct {
	Applicants       []matching.ApplicantRecord       `json:"applicants"`
	Applications     []matching.ApplicationRecord     `json:"applications"`
	Vacancies        []matching.VacancyRecord         `json:"vacancies"`
	PriorityProfiles []matching.PriorityProfileRecord `json:"priority_profiles"`
	QuotaOrder       []matching.QuotaOrderRow         `json:"quota_order"`
	Siblings         []matching.SiblingEdge           `json:"siblings"`
	Links            []matching.LinkEdge              `json:"links"`
}

// LoadScenarioFile reads and decodes a Scenario from a JSON file path.
func LoadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding scenario %s: %w", path, err)
	}
	return &s, nil
}

// BuildGraph constructs a matching.Graph from the scenario's input tables.
func (s *Scenario) BuildGraph() (*matching.Graph, error) {
	return matching.BuildGraph(
		s.Applicants,
		s.Applications,
		s.Vacancies,
		s.PriorityProfiles,
		s.QuotaOrder,
		s.Siblings,
		s.Links,
	)
}

package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the house rules for a channel: the default match format
// and the privilege lists the bindings consult when creating matches.
type Settings struct {
	DefaultBestOf int  `yaml:"default_best_of"`
	NoRepeat      bool `yaml:"no_repeat"`
	AdjacencyMod  bool `yaml:"adjacency_mod"`
	BaitSwitch    bool `yaml:"bait_switch"`

	// TalentBonus lists participant ids that start every match with a
	// standing +1 match modifier.
	TalentBonus []string `yaml:"talent_bonus"`

	// TripleStance lists participant ids allowed to declare three
	// stances instead of two.
	TripleStance []string `yaml:"triple_stance"`

	// Moderators lists ids allowed to set modifiers and force-end
	// matches. The bindings enforce this; the core does not.
	Moderators []string `yaml:"moderators"`
}

// DefaultSettings returns the standard ruleset: best of 3, no variants.
func DefaultSettings() *Settings {
	return &Settings{DefaultBestOf: 3}
}

// LoadSettings reads a YAML settings file. A missing file yields the
// defaults, not an error; a malformed file is an error.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings YAML: %w", err)
	}
	if s.DefaultBestOf != 3 && s.DefaultBestOf != 5 && s.DefaultBestOf != 7 {
		return nil, fmt.Errorf("settings: default_best_of must be 3, 5, or 7 (got %d)", s.DefaultBestOf)
	}
	return s, nil
}

// Save writes the settings back to a YAML file.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// HasTalent reports whether id gets the standing +1 match modifier.
func (s *Settings) HasTalent(id string) bool {
	return contains(s.TalentBonus, id)
}

// AllowsTriple reports whether id may declare three stances.
func (s *Settings) AllowsTriple(id string) bool {
	return contains(s.TripleStance, id)
}

// IsModerator reports whether id may set modifiers and force-end.
func (s *Settings) IsModerator(id string) bool {
	return contains(s.Moderators, id)
}

// MatchConfig builds a config from the defaults and the privileges of
// the two named participants, challenger first.
func (s *Settings) MatchConfig(challenger, opponent string) MatchConfig {
	return MatchConfig{
		BestOf:       s.DefaultBestOf,
		NoRepeat:     s.NoRepeat,
		AdjacencyMod: s.AdjacencyMod,
		BaitSwitch:   s.BaitSwitch,
		TripleStance: [2]bool{s.AllowsTriple(challenger), s.AllowsTriple(opponent)},
		TalentBonus:  [2]bool{s.HasTalent(challenger), s.HasTalent(opponent)},
	}
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

package triplet

import (
	"strings"

	"github.com/teranos/tripgen/errors"
)

// Validate checks one triplet: non-empty subject and relationship, and a
// well-formed, acyclic object tree. The Keyer is reused across calls so a
// synthesis run validates each shared node once.
func (k *Keyer) Validate(t Triplet) error {
	if strings.TrimSpace(t.Subject) == "" {
		return errors.Malformedf("triplet with empty subject")
	}
	if strings.TrimSpace(t.Relationship) == "" {
		return errors.WithDetailf(errors.Malformedf("triplet with empty relationship"), "subject %q", t.Subject)
	}
	if t.Object == nil {
		return errors.WithDetailf(errors.Malformedf("triplet without object"),
			"subject %q, relationship %q", t.Subject, t.Relationship)
	}
	if _, err := k.Key(t.Object); err != nil {
		return errors.WithDetailf(err, "subject %q, relationship %q", t.Subject, t.Relationship)
	}
	return nil
}

// ValidateScenario validates a scenario's name and every triplet in it.
func (k *Keyer) ValidateScenario(s Scenario) error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.NewInvalidRequestError("scenario has no name")
	}
	for i, t := range s.Triplets {
		if err := k.Validate(t); err != nil {
			return errors.Wrapf(err, "scenario %q triplet %d", s.Name, i)
		}
	}
	return nil
}

// ValidateScenarios validates every scenario with one shared Keyer.
func ValidateScenarios(scenarios []Scenario) error {
	k := NewKeyer()
	for i, s := range scenarios {
		if err := k.ValidateScenario(s); err != nil {
			return errors.WithDetailf(err, "scenario index %d", i)
		}
	}
	return nil
}

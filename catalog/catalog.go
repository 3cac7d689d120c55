// Package catalog holds the bosses and their skills. A Catalog is built once
// at startup and is read-only afterwards, so it is safe to share between
// goroutines.
package catalog

import (
	"errors"
	"fmt"
	"math"

	"BossTimers/trigger"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("catalog: invalid data")

// Skill is one timed event of a boss.
type Skill struct {
	Name              string            `json:"name" yaml:"name"`
	CountdownDuration float64           `json:"countdown_duration" yaml:"countdown_duration"`
	TriggerCondition  trigger.Condition `json:"trigger_condition" yaml:"trigger_condition"`
	Param             string            `json:"param,omitempty" yaml:"param,omitempty"`
	DisplayText       string            `json:"progress_bar_text,omitempty" yaml:"progress_bar_text,omitempty"`
	DisplayColor      string            `json:"progress_bar_color,omitempty" yaml:"progress_bar_color,omitempty"`
	Visible           *bool             `json:"visible,omitempty" yaml:"visible,omitempty"`
	TriggeredSkills   []string          `json:"triggered_skills,omitempty" yaml:"triggered_skills,omitempty"`
	AlertSound        string            `json:"alert_sound,omitempty" yaml:"alert_sound,omitempty"`
}

// IsVisible defaults to true when the field is absent.
func (s Skill) IsVisible() bool {
	return s.Visible == nil || *s.Visible
}

// Boss owns an ordered list of skills.
type Boss struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Skills      []Skill `json:"skills" yaml:"skills"`
}

// Catalog indexes bosses and skills by name.
type Catalog struct {
	bosses []Boss
	index  map[string]map[string]int
}

// New validates bosses and builds a catalog. All problems are reported at
// once, each wrapping ErrInvalid.
func New(bosses []Boss) (*Catalog, error) {
	c := &Catalog{index: make(map[string]map[string]int, len(bosses))}
	var errs []error
	for bi, b := range bosses {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("%w: boss #%d has no name", ErrInvalid, bi+1))
			continue
		}
		if _, dup := c.index[b.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate boss %q", ErrInvalid, b.Name))
			continue
		}
		b.Skills = append([]Skill(nil), b.Skills...)
		skills := make(map[string]int, len(b.Skills))
		for si := range b.Skills {
			if cond, err := trigger.ParseCondition(string(b.Skills[si].TriggerCondition)); err == nil {
				b.Skills[si].TriggerCondition = cond
			}
			s := b.Skills[si]
			if err := validateSkill(s); err != nil {
				errs = append(errs, fmt.Errorf("boss %q skill #%d: %w", b.Name, si+1, err))
				continue
			}
			if _, dup := skills[s.Name]; dup {
				errs = append(errs, fmt.Errorf("%w: boss %q has duplicate skill %q", ErrInvalid, b.Name, s.Name))
				continue
			}
			skills[s.Name] = si
		}
		c.index[b.Name] = skills
		c.bosses = append(c.bosses, b)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

func validateSkill(s Skill) error {
	if s.Name == "" {
		return fmt.Errorf("%w: skill has no name", ErrInvalid)
	}
	if math.IsNaN(s.CountdownDuration) || s.CountdownDuration < 0 {
		return fmt.Errorf("%w: skill %q has invalid duration %v", ErrInvalid, s.Name, s.CountdownDuration)
	}
	if s.TriggerCondition == trigger.ConditionImage && s.Param == "" {
		return fmt.Errorf("%w: skill %q needs an image param", ErrInvalid, s.Name)
	}
	return nil
}

// BossNames returns boss names in catalog order.
func (c *Catalog) BossNames() []string {
	names := make([]string, 0, len(c.bosses))
	for _, b := range c.bosses {
		names = append(names, b.Name)
	}
	return names
}

// Boss returns the named boss.
func (c *Catalog) Boss(name string) (Boss, bool) {
	for _, b := range c.bosses {
		if b.Name == name {
			return b, true
		}
	}
	return Boss{}, false
}

// ListSkills returns the boss's skills in catalog order. Unknown bosses
// yield nil.
func (c *Catalog) ListSkills(boss string) []Skill {
	b, ok := c.Boss(boss)
	if !ok {
		return nil
	}
	out := make([]Skill, len(b.Skills))
	copy(out, b.Skills)
	return out
}

// FindSkill looks up a skill by boss and skill name.
func (c *Catalog) FindSkill(boss, skill string) (Skill, bool) {
	skills, ok := c.index[boss]
	if !ok {
		return Skill{}, false
	}
	i, ok := skills[skill]
	if !ok {
		return Skill{}, false
	}
	b, _ := c.Boss(boss)
	return b.Skills[i], true
}

// DanglingTriggers lists "boss/skill -> target" entries whose target is not
// defined for the same boss. They are legal and skipped at runtime.
func (c *Catalog) DanglingTriggers() []string {
	var out []string
	for _, b := range c.bosses {
		for _, s := range b.Skills {
			for _, t := range s.TriggeredSkills {
				if _, ok := c.index[b.Name][t]; !ok {
					out = append(out, fmt.Sprintf("%s/%s -> %s", b.Name, s.Name, t))
				}
			}
		}
	}
	return out
}

// UnknownConditions lists "boss/skill" entries whose trigger condition is
// not recognized. Such skills never start.
func (c *Catalog) UnknownConditions() []string {
	var out []string
	for _, b := range c.bosses {
		for _, s := range b.Skills {
			if !s.TriggerCondition.Known() {
				out = append(out, fmt.Sprintf("%s/%s (%q)", b.Name, s.Name, string(s.TriggerCondition)))
			}
		}
	}
	return out
}

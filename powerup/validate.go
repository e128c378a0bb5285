package powerup

import (
	"fmt"
	"log/slog"
	"time"
)

// Severity classifies a rule outcome
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MaxEffectDuration bounds any admitted effect duration
const MaxEffectDuration = 5 * time.Minute

// MaxScoreMultiplier caps the score multiplier a drop may carry
const MaxScoreMultiplier = 10.0

// Candidate is a proposed effect before admission
type Candidate struct {
	Type            Type
	ID              string
	Duration        time.Duration
	Remaining       time.Duration // for restored effects; 0 = full duration
	X, Y            float64       // drop position
	ScoreMultiplier float64       // 0 = none
}

// ValidationContext is the read-only snapshot a validation call runs
// against. Constructed fresh per call, never persisted.
type ValidationContext struct {
	ActiveCount      int
	ActiveByType     map[Type]int
	MaxActiveEffects int
	StackingAllowed  bool
	Debug            bool

	// descriptor-derived knowledge filled in by the engine
	KnownTypes      map[Type]bool
	StackableTypes  map[Type]bool
	SelfConflicting map[Type]bool

	Lives, Score, Level int
}

// RuleResult is one rule's verdict. SuggestedAction "modify" plus
// Metadata lets AutoFix repair the candidate instead of rejecting it.
type RuleResult struct {
	IsValid         bool
	Message         string
	SuggestedAction string
	Metadata        map[string]any
}

func valid() RuleResult { return RuleResult{IsValid: true} }

// Rule is a single named validation check
type Rule struct {
	Name     string
	Severity Severity
	Validate func(c Candidate, vctx *ValidationContext) RuleResult
}

// Report aggregates all rule outcomes. IsValid means no error-severity
// failures; warnings do not block admission.
type Report struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// Validator runs rules independently: a panic in one rule is recorded
// as that rule failing and does not stop the others.
type Validator struct {
	log   *slog.Logger
	rules []Rule
}

// NewValidator creates a validator with the built-in rule set
func NewValidator(log *slog.Logger) *Validator {
	if log == nil {
		log = slog.Default()
	}
	v := &Validator{log: log}
	v.rules = append(v.rules, builtinRules()...)
	return v
}

// AddRule appends a domain-specific rule
func (v *Validator) AddRule(r Rule) {
	v.rules = append(v.rules, r)
}

// Validate runs every rule against the candidate and aggregates
func (v *Validator) Validate(c Candidate, vctx *ValidationContext) Report {
	report := Report{IsValid: true}
	for _, rule := range v.rules {
		res := v.runRule(rule, c, vctx)
		if res.IsValid {
			continue
		}
		msg := fmt.Sprintf("%s: %s", rule.Name, res.Message)
		switch rule.Severity {
		case SeverityError:
			report.IsValid = false
			report.Errors = append(report.Errors, msg)
		case SeverityWarning:
			report.Warnings = append(report.Warnings, msg)
		}
	}
	return report
}

// AutoFix applies the metadata of every failing rule that suggests
// "modify", returning a repaired candidate. Boundary-case drops get
// corrected rather than rejected outright.
func (v *Validator) AutoFix(c Candidate, vctx *ValidationContext) Candidate {
	for _, rule := range v.rules {
		res := v.runRule(rule, c, vctx)
		if res.IsValid || res.SuggestedAction != "modify" {
			continue
		}
		if d, ok := res.Metadata["duration"].(time.Duration); ok {
			c.Duration = d
		}
		if d, ok := res.Metadata["remaining"].(time.Duration); ok {
			c.Remaining = d
		}
		if x, ok := res.Metadata["x"].(float64); ok {
			c.X = x
		}
		if y, ok := res.Metadata["y"].(float64); ok {
			c.Y = y
		}
		if m, ok := res.Metadata["scoreMultiplier"].(float64); ok {
			c.ScoreMultiplier = m
		}
	}
	return c
}

func (v *Validator) runRule(rule Rule, c Candidate, vctx *ValidationContext) (res RuleResult) {
	defer func() {
		if r := recover(); r != nil {
			v.log.Error("validation rule panic", "rule", rule.Name, "panic", r)
			res = RuleResult{IsValid: false, Message: fmt.Sprintf("rule panicked: %v", r)}
		}
	}()
	return rule.Validate(c, vctx)
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

func builtinRules() []Rule {
	return []Rule{
		{
			Name:     "active-count-ceiling",
			Severity: SeverityError,
			Validate: func(c Candidate, vctx *ValidationContext) RuleResult {
				if vctx.ActiveCount >= vctx.MaxActiveEffects {
					return RuleResult{
						Message:         fmt.Sprintf("active effect limit %d reached", vctx.MaxActiveEffects),
						SuggestedAction: "reject",
					}
				}
				return valid()
			},
		},
		{
			Name:     "type-known",
			Severity: SeverityError,
			Validate: func(c Candidate, vctx *ValidationContext) RuleResult {
				if !vctx.KnownTypes[c.Type] {
					return RuleResult{Message: fmt.Sprintf("unknown type %q", c.Type), SuggestedAction: "reject"}
				}
				return valid()
			},
		},
		{
			Name:     "duration-bounds",
			Severity: SeverityError,
			Validate: func(c Candidate, vctx *ValidationContext) RuleResult {
				if c.Duration < 0 || c.Duration > MaxEffectDuration {
					return RuleResult{
						Message:         fmt.Sprintf("duration %v outside [0, %v]", c.Duration, MaxEffectDuration),
						SuggestedAction: "modify",
						Metadata:        map[string]any{"duration": clampDuration(c.Duration, 0, MaxEffectDuration)},
					}
				}
				return valid()
			},
		},
		{
			Name:     "position-non-negative",
			Severity: SeverityWarning,
			Validate: func(c Candidate, vctx *ValidationContext) RuleResult {
				if c.X < 0 || c.Y < 0 {
					return RuleResult{
						Message:         fmt.Sprintf("negative drop position (%.1f, %.1f)", c.X, c.Y),
						SuggestedAction: "modify",
						Metadata:        map[string]any{"x": max(c.X, 0), "y": max(c.Y, 0)},
					}
				}
				return valid()
			},
		},
		{
			Name:     "remaining-within-duration",
			Severity: SeverityError,
			Validate: func(c Candidate, vctx *ValidationContext) RuleResult {
				if c.Remaining > c.Duration {
					return RuleResult{
						Message:         fmt.Sprintf("remaining %v exceeds duration %v", c.Remaining, c.Duration),
						SuggestedAction: "modify",
						Metadata:        map[string]any{"remaining": c.Duration},
					}
				}
				return valid()
			},
		},
		{
			Name:     "stacking-policy",
			Severity: SeverityError,
			Validate: func(c Candidate, vctx *ValidationContext) RuleResult {
				if vctx.ActiveByType[c.Type] == 0 {
					return valid()
				}
				// self-conflicting types replace in place instead of
				// rejecting; the engine's conflict step handles them
				if vctx.SelfConflicting[c.Type] {
					return valid()
				}
				if !vctx.StackingAllowed || !vctx.StackableTypes[c.Type] {
					return RuleResult{
						Message:         fmt.Sprintf("type %q already active and not stackable", c.Type),
						SuggestedAction: "reject",
					}
				}
				return valid()
			},
		},
		{
			Name:     "score-multiplier-cap",
			Severity: SeverityWarning,
			Validate: func(c Candidate, vctx *ValidationContext) RuleResult {
				if c.ScoreMultiplier > MaxScoreMultiplier {
					return RuleResult{
						Message:         fmt.Sprintf("score multiplier %.1f above cap %.1f", c.ScoreMultiplier, MaxScoreMultiplier),
						SuggestedAction: "modify",
						Metadata:        map[string]any{"scoreMultiplier": MaxScoreMultiplier},
					}
				}
				return valid()
			},
		},
	}
}

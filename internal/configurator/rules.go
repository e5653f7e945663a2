package configurator

// Effect is what a rule does to the dependent option while the user is browsing.
type Effect int

const (
	// Exclude removes the dependent option from the available list.
	Exclude Effect = iota
	// Discourage keeps the option but marks it not recommended.
	Discourage
)

// Rule pairs a dependent option with a prerequisite selection. At browse time it
// applies Effect; on submission the pair always produces Message as a violation.
type Rule struct {
	Feature string // dependent feature
	Option  string // dependent option machine name
	When    string // prerequisite feature
	Is      string // prerequisite option machine name
	Effect  Effect
	Message string
}

// Rules is an ordered rule table. Validation reports violations in table order.
type Rules []Rule

var DefaultRules = Rules{
	{
		Feature: Interior,
		Option:  "white",
		When:    Exterior,
		Is:      "red",
		Effect:  Exclude,
		Message: "Red exterior with white interior is not recommended. Please choose a different combination.",
	},
	{
		Feature: Interior,
		Option:  "white",
		When:    Exterior,
		Is:      "black",
		Effect:  Exclude,
		Message: "Black exterior with white interior is not recommended. Please choose a different combination.",
	},
	{
		Feature: Wheels,
		Option:  "performance",
		When:    Engine,
		Is:      "standard",
		Effect:  Discourage,
		Message: "Standard engine with performance wheels is not optimal. Consider upgrading to a turbo or electric engine.",
	},
}

// Availability is an option as offered in a given selection context.
// It is built fresh on every call and never stored.
type Availability struct {
	Option
	Recommended bool
}

// Result is the outcome of validating a selection.
type Result struct {
	Valid      bool
	Violations []string
}

// Err returns a *ValidationError when the result is invalid, nil otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Violations: append([]string(nil), r.Violations...)}
}

// selected resolves the prerequisite side of a rule to a catalog option name.
func selected(c *Catalog, s Selection, feature string) (string, bool) {
	id, ok := s.Chosen(feature)
	if !ok {
		return "", false
	}
	o, ok := c.Option(feature, id)
	if !ok {
		return "", false
	}
	return o.Name, true
}

// Available lists the options of feature that can be offered given s.
// Unknown features yield an empty list.
func (rs Rules) Available(c *Catalog, feature string, s Selection) []Availability {
	f, ok := c.Feature(feature)
	if !ok {
		return []Availability{}
	}

	excluded := map[string]bool{}
	discouraged := map[string]bool{}
	for _, r := range rs {
		if r.Feature != feature {
			continue
		}
		name, ok := selected(c, s, r.When)
		if !ok || name != r.Is {
			continue
		}
		switch r.Effect {
		case Exclude:
			excluded[r.Option] = true
		case Discourage:
			discouraged[r.Option] = true
		}
	}

	out := make([]Availability, 0, len(f.Options))
	for _, o := range f.Options {
		if excluded[o.Name] {
			continue
		}
		out = append(out, Availability{Option: o, Recommended: !discouraged[o.Name]})
	}
	return out
}

// Validate checks completeness first, then every pairwise rule, and collects
// all violations.
func (rs Rules) Validate(c *Catalog, s Selection) Result {
	var violations []string
	for _, f := range RequiredFeatures {
		if _, ok := s.Chosen(f); !ok {
			violations = append(violations, MissingMessage(f))
		}
	}
	for _, r := range rs {
		dep, ok := selected(c, s, r.Feature)
		if !ok || dep != r.Option {
			continue
		}
		pre, ok := selected(c, s, r.When)
		if !ok || pre != r.Is {
			continue
		}
		violations = append(violations, r.Message)
	}
	return Result{Valid: len(violations) == 0, Violations: violations}
}

// Available applies DefaultRules.
func Available(c *Catalog, feature string, s Selection) []Availability {
	return DefaultRules.Available(c, feature, s)
}

// Validate applies DefaultRules.
func Validate(c *Catalog, s Selection) Result {
	return DefaultRules.Validate(c, s)
}

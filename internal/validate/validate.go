package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	v         = validator.New()
	reFeature = regexp.MustCompile(`^[a-z_]{1,50}$`)
)

// CarName trims s and checks the 2-50 character window. On failure it returns
// the messages to show the user.
func CarName(s string) (string, []string) {
	s = strings.TrimSpace(s)
	err := v.Var(s, "required,min=2,max=50")
	if err == nil {
		return s, nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required":
			return "", []string{"Car name is required"}
		case "min":
			return "", []string{"Car name must be at least 2 characters long"}
		case "max":
			return "", []string{"Car name must be 50 characters or fewer"}
		}
	}
	return "", []string{"Car name is invalid"}
}

// ID parses a positive integer identifier (car or option ids).
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// FeatureName validates a feature machine name from a path or query.
func FeatureName(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reFeature.MatchString(s)
}

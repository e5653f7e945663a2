package configurator

// Selection maps a feature name to the chosen option id. A nil value means the
// feature is present but nothing is chosen yet; a missing key means the same for
// validation but contributes nothing when pricing.
type Selection map[string]*int64

// Pick returns a pointer to id, for building selections inline.
func Pick(id int64) *int64 { return &id }

// Chosen reports the option id picked for feature, if any.
func (s Selection) Chosen(feature string) (int64, bool) {
	v, ok := s[feature]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Complete reports whether every required feature has a chosen option.
func (s Selection) Complete() bool {
	for _, f := range RequiredFeatures {
		if _, ok := s.Chosen(f); !ok {
			return false
		}
	}
	return true
}

// internal/compatibility/dealbreaker.go
// Hard eligibility gate applied before any scoring and re-applied when
// serving cached matches. A violation is a normal false, never an error.

package compatibility

import "time"

// isEligible checks both directions: A's attributes against B's
// dealbreakers and B's attributes against A's. Missing preferences impose
// no constraint; a missing member record makes the pair ineligible so
// upstream callers never score against absent data.
func isEligible(memberA *Member, prefsA *DealbreakerPreferences, memberB *Member, prefsB *DealbreakerPreferences, now time.Time) bool {
	if memberA == nil || memberB == nil {
		return false
	}

	return passesDealbreakers(memberB, prefsA, now) && passesDealbreakers(memberA, prefsB, now)
}

// passesDealbreakers checks one candidate against one preference set
func passesDealbreakers(candidate *Member, prefs *DealbreakerPreferences, now time.Time) bool {
	if prefs == nil {
		return true
	}

	if prefs.MinAge != nil || prefs.MaxAge != nil {
		age := candidate.Age(now)
		if age < 0 {
			return false
		}
		if prefs.MinAge != nil && age < *prefs.MinAge {
			return false
		}
		if prefs.MaxAge != nil && age > *prefs.MaxAge {
			return false
		}
	}

	if prefs.ReligionMustMatch {
		if candidate.Religion == nil {
			return false
		}
		if !containsString(prefs.AcceptableReligions, *candidate.Religion) {
			return false
		}
	}

	if prefs.MustWantChildren {
		// Only an explicit "no" fails; open, unsure and yes all pass
		if candidate.WantsChildren != nil && *candidate.WantsChildren == "no" {
			return false
		}
	}

	if prefs.MinEducationLevel != nil {
		if candidate.EducationLevel == nil || *candidate.EducationLevel < *prefs.MinEducationLevel {
			return false
		}
	}

	return true
}

func containsString(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

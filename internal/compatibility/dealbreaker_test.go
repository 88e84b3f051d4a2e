package compatibility

import (
	"testing"
	"time"
)

func someTime() time.Time {
	return time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func testNow() time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func memberWithDOB(id int64, dob time.Time) *Member {
	return &Member{ID: id, DateOfBirth: &dob, IsActive: true}
}

func TestPassesDealbreakersNilPrefs(t *testing.T) {
	if !passesDealbreakers(&Member{ID: 1}, nil, testNow()) {
		t.Error("missing preferences should impose no constraint")
	}
}

func TestPassesDealbreakersAgeRange(t *testing.T) {
	minAge, maxAge := 30, 40
	prefs := &DealbreakerPreferences{MinAge: &minAge, MaxAge: &maxAge}

	in := memberWithDOB(1, time.Date(1991, time.January, 1, 0, 0, 0, 0, time.UTC))  // 35
	young := memberWithDOB(2, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)) // 26
	old := memberWithDOB(3, time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC))   // 46

	if !passesDealbreakers(in, prefs, testNow()) {
		t.Error("35-year-old should pass a 30-40 range")
	}
	if passesDealbreakers(young, prefs, testNow()) {
		t.Error("26-year-old should fail a 30-40 range")
	}
	if passesDealbreakers(old, prefs, testNow()) {
		t.Error("46-year-old should fail a 30-40 range")
	}

	// An age constraint with an unknown birth date fails closed
	if passesDealbreakers(&Member{ID: 4}, prefs, testNow()) {
		t.Error("unknown age should fail an age constraint")
	}
}

func TestPassesDealbreakersReligion(t *testing.T) {
	prefs := &DealbreakerPreferences{
		ReligionMustMatch:   true,
		AcceptableReligions: []string{"christian", "catholic"},
	}

	christian := "christian"
	muslim := "muslim"

	if !passesDealbreakers(&Member{ID: 1, Religion: &christian}, prefs, testNow()) {
		t.Error("acceptable religion should pass")
	}
	if passesDealbreakers(&Member{ID: 2, Religion: &muslim}, prefs, testNow()) {
		t.Error("religion outside the set should fail")
	}
	if passesDealbreakers(&Member{ID: 3}, prefs, testNow()) {
		t.Error("unset religion should fail a must-match constraint")
	}
}

func TestPassesDealbreakersChildren(t *testing.T) {
	prefs := &DealbreakerPreferences{MustWantChildren: true}

	no := "no"
	open := "open"
	yes := "yes"

	if passesDealbreakers(&Member{ID: 1, WantsChildren: &no}, prefs, testNow()) {
		t.Error("explicit no should fail must-want-children")
	}
	if !passesDealbreakers(&Member{ID: 2, WantsChildren: &open}, prefs, testNow()) {
		t.Error("open should pass must-want-children")
	}
	if !passesDealbreakers(&Member{ID: 3, WantsChildren: &yes}, prefs, testNow()) {
		t.Error("yes should pass must-want-children")
	}
	if !passesDealbreakers(&Member{ID: 4}, prefs, testNow()) {
		t.Error("unset intent should pass must-want-children")
	}
}

func TestPassesDealbreakersEducation(t *testing.T) {
	minEd := 3
	prefs := &DealbreakerPreferences{MinEducationLevel: &minEd}

	low, high := 2, 4
	if passesDealbreakers(&Member{ID: 1, EducationLevel: &low}, prefs, testNow()) {
		t.Error("education below minimum should fail")
	}
	if !passesDealbreakers(&Member{ID: 2, EducationLevel: &high}, prefs, testNow()) {
		t.Error("education above minimum should pass")
	}
	if passesDealbreakers(&Member{ID: 3}, prefs, testNow()) {
		t.Error("unset education should fail an education constraint")
	}
}

func TestIsEligibleBidirectional(t *testing.T) {
	minAge := 30
	a := memberWithDOB(1, time.Date(1991, time.January, 1, 0, 0, 0, 0, time.UTC)) // 35
	b := memberWithDOB(2, time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)) // 25

	prefsA := &DealbreakerPreferences{UserID: 1, MinAge: &minAge}

	// B fails A's minimum age even though A passes B's empty prefs
	if isEligible(a, prefsA, b, nil, testNow()) {
		t.Error("pair should be ineligible when either direction fails")
	}
	if isEligible(b, nil, a, prefsA, testNow()) {
		t.Error("eligibility must be symmetric in argument order")
	}

	if !isEligible(a, nil, b, nil, testNow()) {
		t.Error("pair with no constraints should be eligible")
	}

	if isEligible(nil, nil, b, nil, testNow()) {
		t.Error("missing member record should make the pair ineligible")
	}
}

package query

import "testing"

func baseSpec() Spec {
	return Spec{
		Source:       SourcePersonal,
		Sort:         SortUpdated,
		Direction:    SortDesc,
		PageSize:     50,
		ForkTracking: false,
		Affiliations: []Affiliation{AffiliationOwner},
		Visibility:   VisibilityAll,
	}
}

func TestFreshnessKey_Deterministic(t *testing.T) {
	t.Parallel()

	a := baseSpec()
	b := baseSpec()
	if a.FreshnessKey() != b.FreshnessKey() {
		t.Errorf("equal specs produced different keys: %q vs %q", a.FreshnessKey(), b.FreshnessKey())
	}
}

func TestFreshnessKey_AffiliationOrderIndependent(t *testing.T) {
	t.Parallel()

	a := baseSpec()
	a.Affiliations = []Affiliation{AffiliationOwner, AffiliationCollaborator}
	b := baseSpec()
	b.Affiliations = []Affiliation{AffiliationCollaborator, AffiliationOwner}

	if a.FreshnessKey() != b.FreshnessKey() {
		t.Errorf("affiliation order changed the key: %q vs %q", a.FreshnessKey(), b.FreshnessKey())
	}
}

// Every result-affecting field must contribute to the key. Vary one field
// at a time and assert all keys are pairwise distinct.
func TestFreshnessKey_FieldSensitivity(t *testing.T) {
	t.Parallel()

	variants := map[string]Spec{
		"base": baseSpec(),
	}

	s := baseSpec()
	s.Source = SourceStarred
	variants["source"] = s

	s = baseSpec()
	s.Source = SourceOrganization
	s.OrgLogin = "acme"
	variants["org"] = s

	s = baseSpec()
	s.Source = SourceSearch
	s.SearchText = "tui"
	variants["search"] = s

	s = baseSpec()
	s.Sort = SortName
	variants["sort"] = s

	s = baseSpec()
	s.Direction = SortAsc
	variants["direction"] = s

	s = baseSpec()
	s.PageSize = 25
	variants["page-size"] = s

	s = baseSpec()
	s.ForkTracking = true
	variants["fork-tracking"] = s

	s = baseSpec()
	s.Affiliations = []Affiliation{AffiliationOwner, AffiliationOrgMember}
	variants["affiliations"] = s

	s = baseSpec()
	s.Visibility = VisibilityPublic
	variants["visibility"] = s

	seen := make(map[string]string) // key -> variant name
	for name, spec := range variants {
		key := spec.FreshnessKey()
		if prev, ok := seen[key]; ok {
			t.Errorf("variants %q and %q collided on key %q", prev, name, key)
		}
		seen[key] = name
	}
}

func TestVisibilityFilter_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter VisibilityFilter
		vis    string
		want   bool
	}{
		{"all matches public", VisibilityAll, "PUBLIC", true},
		{"all matches private", VisibilityAll, "PRIVATE", true},
		{"public matches public", VisibilityPublic, "PUBLIC", true},
		{"public rejects private", VisibilityPublic, "PRIVATE", false},
		{"private rejects internal", VisibilityPrivate, "INTERNAL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.filter.Matches(tt.vis); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.vis, got, tt.want)
			}
		})
	}
}

package core

import "testing"

func sortFixture() []Extension {
	return []Extension{
		{ID: "b.beta", Name: "beta", Publisher: "b", DisplayName: "Beta", Installs: 10},
		{ID: "a.alpha", Name: "alpha", Publisher: "a", DisplayName: "alpha", Installs: 300},
		{ID: "c.gamma", Name: "gamma", Publisher: "c", DisplayName: "Gamma", Installs: 20},
	}
}

func ids(exts []Extension) string {
	var s string
	for i, e := range exts {
		if i > 0 {
			s += ","
		}
		s += e.ID
	}
	return s
}

func TestSortExtensions(t *testing.T) {
	tests := []struct {
		field   SortField
		reverse bool
		want    string
	}{
		{SortByDownloads, false, "a.alpha,c.gamma,b.beta"},
		{SortByDownloads, true, "b.beta,c.gamma,a.alpha"},
		{SortByName, false, "a.alpha,b.beta,c.gamma"},
		{SortByName, true, "c.gamma,b.beta,a.alpha"},
		{SortByPublisher, false, "a.alpha,b.beta,c.gamma"},
	}
	for _, tt := range tests {
		exts := sortFixture()
		SortExtensions(exts, tt.field, tt.reverse)
		if got := ids(exts); got != tt.want {
			t.Errorf("SortExtensions(%s, reverse=%v) = %s, want %s", tt.field, tt.reverse, got, tt.want)
		}
	}
}

func TestParseSortField(t *testing.T) {
	if f, err := ParseSortField(""); err != nil || f != SortByDownloads {
		t.Errorf("ParseSortField(\"\") = %q, %v", f, err)
	}
	if f, err := ParseSortField("Name"); err != nil || f != SortByName {
		t.Errorf("ParseSortField(Name) = %q, %v", f, err)
	}
	if _, err := ParseSortField("rating"); err == nil {
		t.Error("expected error for unknown sort field")
	}
}

package layout

import "testing"

func TestLookupPage(t *testing.T) {
	tests := []struct {
		name string
		want Page
		ok   bool
	}{
		{"A4", A4, true},
		{"a3", A3, true},
		{"letter", Letter, true},
		{"LEGAL", Legal, true},
		{"A5", A5, true},
		{"B5", Page{}, false},
		{"", Page{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupPage(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("LookupPage(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPageUsable(t *testing.T) {
	got := A4.Usable(10)
	if want := box(10, 10, 200, 287); got != want {
		t.Errorf("A4.Usable(10) = %v, want %v", got, want)
	}
}

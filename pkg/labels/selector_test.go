package labels

import "testing"

func TestParseAndMatches(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		labels   map[string]string
		want     bool
	}{
		{
			name:     "empty selector matches anything",
			selector: "",
			labels:   nil,
			want:     true,
		},
		{
			name:     "empty selector matches labelled resource",
			selector: "",
			labels:   map[string]string{"app": "web"},
			want:     true,
		},
		{
			name:     "single clause match",
			selector: "app=web",
			labels:   map[string]string{"app": "web"},
			want:     true,
		},
		{
			name:     "single clause mismatch",
			selector: "app=web",
			labels:   map[string]string{"app": "db"},
			want:     false,
		},
		{
			name:     "missing key",
			selector: "app=web",
			labels:   map[string]string{"tier": "frontend"},
			want:     false,
		},
		{
			name:     "nil labels never match a non-empty selector",
			selector: "app=web",
			labels:   nil,
			want:     false,
		},
		{
			name:     "conjunction all match",
			selector: "app=web,tier=frontend",
			labels:   map[string]string{"app": "web", "tier": "frontend", "extra": "x"},
			want:     true,
		},
		{
			name:     "conjunction partial match fails",
			selector: "app=web,tier=frontend",
			labels:   map[string]string{"app": "web"},
			want:     false,
		},
		{
			name:     "whitespace around clauses",
			selector: " app = web , tier = frontend ",
			labels:   map[string]string{"app": "web", "tier": "frontend"},
			want:     true,
		},
		{
			name:     "malformed clause ignored",
			selector: "app=web,garbage",
			labels:   map[string]string{"app": "web"},
			want:     true,
		},
		{
			name:     "only malformed clauses still exclude unlabelled",
			selector: "garbage",
			labels:   nil,
			want:     false,
		},
		{
			name:     "only malformed clauses match labelled",
			selector: "garbage",
			labels:   map[string]string{"anything": "goes"},
			want:     true,
		},
		{
			name:     "empty value clause",
			selector: "app=",
			labels:   map[string]string{"app": ""},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := Parse(tt.selector)
			if got := sel.Matches(tt.labels); got != tt.want {
				t.Errorf("Parse(%q).Matches(%v) = %v, want %v",
					tt.selector, tt.labels, got, tt.want)
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	if !Parse("").Empty() {
		t.Error("expected empty selector to report Empty")
	}
	if Parse("app=web").Empty() {
		t.Error("expected non-empty selector to not report Empty")
	}
	if !Everything().Empty() {
		t.Error("expected Everything to report Empty")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		selector string
		want     string
	}{
		{"", ""},
		{"app=web", "app=web"},
		{"tier=frontend,app=web", "app=web,tier=frontend"},
		{" app = web ", "app=web"},
	}
	for _, tt := range tests {
		if got := Parse(tt.selector).String(); got != tt.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.selector, got, tt.want)
		}
	}
}

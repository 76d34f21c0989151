package stats

import (
	"strings"
	"testing"
)

func TestSummarizeHTML(t *testing.T) {
	s, err := SummarizeHTML(`<div id="main" class="a b"><p class="a">hi</p><span></span></div>`)
	if err != nil {
		t.Fatalf("SummarizeHTML: %v", err)
	}
	if s.Elements != 3 {
		t.Errorf("Elements = %d, want 3", s.Elements)
	}
	if s.Classes != 2 {
		t.Errorf("Classes = %d, want 2", s.Classes)
	}
	if s.IDs != 1 {
		t.Errorf("IDs = %d, want 1", s.IDs)
	}
}

func TestSummarizeCSS(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		rules     int
		selectors int
	}{
		{"empty", "", 0, 0},
		{"whitespace", "  \n", 0, 0},
		{"plain rules", ".a{color:red}.b,.c{color:blue}", 2, 3},
		{"media nested", "@media (min-width: 1px){.a{color:red}.b{color:blue}}.c{margin:0}", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SummarizeCSS(tt.src)
			if err != nil {
				t.Fatalf("SummarizeCSS: %v", err)
			}
			if s.Rules != tt.rules || s.Selectors != tt.selectors {
				t.Errorf("got rules=%d selectors=%d, want %d/%d", s.Rules, s.Selectors, tt.rules, tt.selectors)
			}
			if s.Bytes != len(tt.src) {
				t.Errorf("Bytes = %d", s.Bytes)
			}
		})
	}
}

func TestReport_String(t *testing.T) {
	r, err := Build(`<p class="a"></p>`, ".a{color:red}.b{color:red}", ".a{color:red}", true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := r.String()
	for _, want := range []string{"1 elements", "1 classes", "rules 2 → 1", "-50%"} {
		if !strings.Contains(got, want) {
			t.Errorf("%q missing %q", got, want)
		}
	}
}

func TestReport_NoOutput(t *testing.T) {
	r, err := Build(`<p></p>`, ".a{}", "", false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(r.String(), "→") {
		t.Errorf("unexpected arrow without output: %q", r.String())
	}
	if r.Savings() != 0 {
		t.Errorf("Savings = %v", r.Savings())
	}
}

package semver

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"1.2.3", false},
		{"v1.2.3", false},
		{"0.0.1", false},
		{"1.2.3-alpha", false},
		{"1.2.3-alpha.1", false},
		{"1.2.3+build.5", false},
		{"1.2.3-beta+exp.sha.5114f85", false},
		{"1.2", true},
		{"1.2.3.4", true},
		{"1.02.3", true},
		{"a.b.c", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := Parse(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestCompare_Precedence(t *testing.T) {
	// Ordered ascending per SemVer 2.0.0 §11's worked example.
	ordered := []string{
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-alpha.beta",
		"1.0.0-beta",
		"1.0.0-beta.2",
		"1.0.0-beta.11",
		"1.0.0-rc.1",
		"1.0.0",
	}

	versions := make([]Version, len(ordered))
	for i, s := range ordered {
		v, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", s, err)
		}
		versions[i] = v
	}

	for i := 0; i < len(versions)-1; i++ {
		if c := Compare(versions[i], versions[i+1]); c >= 0 {
			t.Errorf("Compare(%s, %s) = %d, want < 0", ordered[i], ordered[i+1], c)
		}
	}
}

func TestCompare_BuildMetadataIgnored(t *testing.T) {
	a, _ := Parse("1.2.3+build.1")
	b, _ := Parse("1.2.3+build.2")
	if c := Compare(a, b); c != 0 {
		t.Errorf("Compare() = %d, want 0 (build metadata must not affect precedence)", c)
	}
}

func TestCompare_NumericVsAlphaMajor(t *testing.T) {
	a, _ := Parse("2.0.0")
	b, _ := Parse("10.0.0")
	if c := Compare(a, b); c >= 0 {
		t.Errorf("Compare(2.0.0, 10.0.0) = %d, want < 0 (numeric comparison, not lexical)", c)
	}
}

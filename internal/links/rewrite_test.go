package links

import "testing"

func TestRewrite(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		old, new string
		want     string
		wantOK   bool
	}{
		{"single", "![[a.tif]]", "![[a.tif]]", "![[a.tif.png]]", "![[a.tif.png]]", true},
		{"first occurrence only", "![[a.tif]] ![[a.tif]]", "![[a.tif]]", "X", "X ![[a.tif]]", true},
		{"missing", "nothing here", "![[a.tif]]", "X", "nothing here", false},
		{"surrounding text kept", "see ![[a.tif]] above", "![[a.tif]]", "![[a.tif.png]]", "see ![[a.tif.png]] above", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Rewrite(tt.line, tt.old, tt.new)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Rewrite = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDerivativeAndOriginal(t *testing.T) {
	raws := []string{"![[a.tif]]", "![[dir/x.png.tiff]]", "![[Scan.TIF]]"}
	for _, raw := range raws {
		d, err := Derivative(raw)
		if err != nil {
			t.Fatalf("Derivative(%q): %v", raw, err)
		}
		back, err := Original(d)
		if err != nil {
			t.Fatalf("Original(%q): %v", d, err)
		}
		if back != raw {
			t.Errorf("Original(Derivative(%q)) = %q", raw, back)
		}
	}
}

func TestOriginal_OnlyStripsTrailingSuffix(t *testing.T) {
	got, err := Original("![[x.png/y.tif.png]]")
	if err != nil {
		t.Fatalf("Original: %v", err)
	}
	if got != "![[x.png/y.tif]]" {
		t.Errorf("Original = %q, want %q", got, "![[x.png/y.tif]]")
	}

	if _, err := Original("![[a.tif]]"); err == nil {
		t.Error("Original accepted an embed without the suffix")
	}
	if _, err := Derivative("![[a.tif"); err == nil {
		t.Error("Derivative accepted an unterminated embed")
	}
}

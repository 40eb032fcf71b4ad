package theme

import "testing"

func TestByName(t *testing.T) {
	if got := ByName("terminal").Name; got != "terminal" {
		t.Errorf("ByName(terminal) = %q", got)
	}
	if got := ByName("nope").Name; got != Ledger.Name {
		t.Errorf("ByName(nope) = %q, want default", got)
	}
}

func TestSetActive(t *testing.T) {
	t.Cleanup(func() { Active = Ledger })
	SetActive("flexoki")
	if Active.Name != "flexoki" {
		t.Errorf("Active = %q, want flexoki", Active.Name)
	}
	SetActive("")
	if Active.Name != Ledger.Name {
		t.Errorf("Active = %q, want default", Active.Name)
	}
}

func TestScoreColor(t *testing.T) {
	th := Ledger
	tests := []struct {
		r2   float64
		want string
	}{
		{0.9, string(th.Green)},
		{0.6, string(th.Yellow)},
		{0.1, string(th.Orange)},
		{-0.3, string(th.Red)},
	}
	for _, tt := range tests {
		if got := string(th.ScoreColor(tt.r2)); got != tt.want {
			t.Errorf("ScoreColor(%v) = %s, want %s", tt.r2, got, tt.want)
		}
	}
}

func TestShareColor(t *testing.T) {
	th := Terminal
	if got := th.ShareColor(0.4); got != th.Red {
		t.Errorf("ShareColor(0.4) = %s, want red", got)
	}
	if got := th.ShareColor(0.01); got != th.Cyan {
		t.Errorf("ShareColor(0.01) = %s, want cyan", got)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(All) || names[0] != "ledger" {
		t.Errorf("Names() = %v", names)
	}
}

func TestThemesSetEveryRole(t *testing.T) {
	for _, th := range All {
		roles := []string{
			string(th.Background), string(th.Surface), string(th.SurfaceHover), string(th.Border),
			string(th.BorderAccent), string(th.TextDim), string(th.TextMuted), string(th.TextPrimary),
			string(th.Accent), string(th.AccentBright), string(th.Green), string(th.Yellow),
			string(th.Orange), string(th.Red), string(th.Cyan),
		}
		for i, r := range roles {
			if r == "" {
				t.Errorf("theme %s: role %d is unset", th.Name, i)
			}
		}
	}
}

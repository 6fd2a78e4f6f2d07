package screenshot

import "testing"

func TestTruncateLen(t *testing.T) {
	cases := []struct {
		name     string
		tier     Tier
		division int
		points   string
		want     int
	}{
		{"duke keeps five", TierDuke, 1, "123456", 5},
		{"marquis leading one keeps five", TierMarquis, 2, "123456", 5},
		{"marquis other lead keeps four", TierMarquis, 2, "923456", 4},
		{"baron division four keeps three", TierBaron, 4, "123456", 3},
		{"baron division three non-one lead keeps three", TierBaron, 3, "923456", 3},
		{"baron division three leading one keeps four", TierBaron, 3, "123456", 4},
		{"earl default keeps four", TierEarl, 1, "123456", 4},
		{"unknown tier keeps four", Tier(""), 0, "123456", 4},
	}
	for _, c := range cases {
		if got := truncateLen(c.tier, c.division, c.points); got != c.want {
			t.Errorf("%s: truncateLen(%s, %d, %q) = %d, want %d", c.name, c.tier, c.division, c.points, got, c.want)
		}
	}
}

func TestTruncateTable(t *testing.T) {
	// The canonical truncation table for raw "123456".
	raw := "123456"
	checks := []struct {
		tier     Tier
		division int
		want     int
	}{
		{TierDuke, 1, 12345},
		{TierMarquis, 1, 12345},
		{TierBaron, 4, 123},
		{TierViscount, 2, 1234},
	}
	for _, c := range checks {
		f := parseTotal(c.tier, IntField{Value: c.division, Status: StatusOK}, raw)
		if f.Status != StatusOK || f.Value != c.want {
			t.Errorf("parseTotal(%s, %d, %q) = %+v, want %d", c.tier, c.division, raw, f, c.want)
		}
	}
}

func TestParseTotalSpacedRun(t *testing.T) {
	f := parseTotal(TierEarl, IntField{Value: 2, Status: StatusOK}, "12 345/99999")
	if f.Status != StatusOK || f.Value != 1234 {
		t.Fatalf("expected 1234 got %+v", f)
	}
}

func TestParseTotalShorterThanKeep(t *testing.T) {
	f := parseTotal(TierDuke, IntField{Value: 1, Status: StatusOK}, "123")
	if f.Status != StatusOK || f.Value != 123 {
		t.Fatalf("expected 123 got %+v", f)
	}
}

func TestParseTotalNoDigits(t *testing.T) {
	if f := parseTotal(TierEarl, IntField{}, "///"); f.Status != StatusUnparsed {
		t.Fatalf("expected unparsed got %+v", f)
	}
	if f := parseTotal(TierEarl, IntField{}, "  "); f.Status != StatusEmpty {
		t.Fatalf("expected empty got %+v", f)
	}
}

func TestMatchTierVariants(t *testing.T) {
	cases := map[string]Tier{
		"Viscount League 3": TierViscount,
		"Vicomte 2":         TierViscount,
		"Visconte 1":        TierViscount,
		"Comte 4":           TierEarl,
		"Earl League 2":     TierEarl,
		"Marchese 3":        TierMarquis,
		"Baron League 4":    TierBaron,
	}
	for text, want := range cases {
		tier, ok := matchTier(text)
		if !ok || tier != want {
			t.Errorf("matchTier(%q) = %s/%v, want %s", text, tier, ok, want)
		}
	}
	if _, ok := matchTier("Duke League 1"); ok {
		t.Error("Duke must not match the variant table; it is detected via rank2")
	}
}

func TestLastDigitRun(t *testing.T) {
	f := lastDigitRun("Baron League 3\nSeason 12")
	if f.Status != StatusOK || f.Value != 12 {
		t.Fatalf("expected last run 12 got %+v", f)
	}
	if f := lastDigitRun("Marquis"); f.Status != StatusUnparsed {
		t.Fatalf("expected unparsed got %+v", f)
	}
	if f := lastDigitRun("  "); f.Status != StatusEmpty {
		t.Fatalf("expected empty got %+v", f)
	}
}

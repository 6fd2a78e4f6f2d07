package screenshot

import (
	"testing"
	"time"
)

func TestParseIntFirstRun(t *testing.T) {
	f := parseInt("Score: 1234 pts 99")
	if f.Status != StatusOK || f.Value != 1234 {
		t.Fatalf("expected 1234 got %+v", f)
	}
}

func TestParseIntNoDigits(t *testing.T) {
	f := parseInt("---")
	if f.Status != StatusUnparsed || f.Raw != "---" {
		t.Fatalf("expected unparsed with raw kept, got %+v", f)
	}
	if f := parseInt(""); f.Status != StatusEmpty {
		t.Fatalf("expected empty got %+v", f)
	}
}

func TestParseDate(t *testing.T) {
	f := parseDate("25/12/2025 J")
	if f.Status != StatusOK {
		t.Fatalf("expected ok got %+v", f)
	}
	want := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)
	if !f.Value.Equal(want) {
		t.Fatalf("expected %v got %v", want, f.Value)
	}
}

func TestParseDateWithoutNoiseSuffix(t *testing.T) {
	f := parseDate("1/2/2026")
	if f.Status != StatusOK || f.Value.Day() != 1 || f.Value.Month() != time.February {
		t.Fatalf("expected 1 Feb 2026 got %+v", f)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, label := range []string{"25-12-2025", "aa/bb/cc", "32/13/2025", "12/2025"} {
		f := parseDate(label)
		if f.Status != StatusUnparsed {
			t.Errorf("parseDate(%q) = %+v, want unparsed", label, f)
		}
		if f.Raw != label {
			t.Errorf("parseDate(%q) lost raw text: %+v", label, f)
		}
	}
	if f := parseDate(""); f.Status != StatusEmpty {
		t.Fatalf("expected empty got %+v", f)
	}
}

func TestParseNameTrimsNoise(t *testing.T) {
	f := parseName("[ Dragon  Fang ]_")
	if f.Status != StatusOK || f.Value != "Dragon Fang" {
		t.Fatalf("expected cleaned name got %+v", f)
	}
}

func TestParseNameCorrections(t *testing.T) {
	f := parseName("VaIhalla")
	if f.Status != StatusOK || f.Value != "Valhalla" {
		t.Fatalf("expected canonical correction got %+v", f)
	}
	// The table is an allow-list: unknown strings pass through untouched.
	f = parseName("Mystery Guild")
	if f.Status != StatusOK || f.Value != "Mystery Guild" {
		t.Fatalf("expected passthrough got %+v", f)
	}
}

func TestParseNameAllNoise(t *testing.T) {
	f := parseName("---[]")
	if f.Status != StatusUnparsed || f.Raw != "---[]" {
		t.Fatalf("expected unparsed with raw kept got %+v", f)
	}
}

func TestFieldPtrNilUnlessOK(t *testing.T) {
	if (IntField{Value: 5, Status: StatusUnparsed}).Ptr() != nil {
		t.Error("unparsed int must map to null")
	}
	if p := (IntField{Value: 5, Status: StatusOK}).Ptr(); p == nil || *p != 5 {
		t.Error("ok int must map to its value")
	}
	if (TextField{Value: "x", Status: StatusEmpty}).Ptr() != nil {
		t.Error("empty text must map to null")
	}
	if (DateField{Status: StatusUnparsed}).Ptr() != nil {
		t.Error("unparsed date must map to null")
	}
}

package screenshot

import "testing"

func TestClassifyShapeThresholds(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{1.0, "zflip"},
		{1.29, "zflip"},
		{1.3, "skinny"},
		{1.49, "skinny"},
		{1.5, "slim"},
		{1.99, "slim"},
		{2.0, "medium"},
		{2.19, "medium"},
		{2.2, "large"},
		{3.5, "large"},
	}
	for _, c := range cases {
		if got := classifyShape(c.ratio).name; got != c.want {
			t.Errorf("classifyShape(%v) = %s, want %s", c.ratio, got, c.want)
		}
	}
}

func TestShapeTablesComplete(t *testing.T) {
	required := []string{"total", "total2", "rank", "rank2"}
	for _, s := range leagueShapes {
		for _, name := range required {
			r, ok := s.regions[name]
			if !ok {
				t.Errorf("shape %s missing region %s", s.name, name)
				continue
			}
			if r.X1 < 0 || r.Y1 < 0 || r.X2 > 1 || r.Y2 > 1 || r.X1 >= r.X2 || r.Y1 >= r.Y2 {
				t.Errorf("shape %s region %s out of bounds: %+v", s.name, name, r)
			}
		}
	}
}

func TestWarRegionsFractional(t *testing.T) {
	for name, r := range warRegions {
		if r.X1 < 0 || r.Y1 < 0 || r.X2 > 1 || r.Y2 > 1 || r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			t.Errorf("war region %s out of bounds: %+v", name, r)
		}
	}
}

func TestCropRectScaling(t *testing.T) {
	r := cropRect(Rect{0.25, 0.5, 0.75, 1}, 400, 200)
	if r.Min.X != 100 || r.Min.Y != 100 || r.Max.X != 300 || r.Max.Y != 200 {
		t.Fatalf("unexpected rect %v", r)
	}
}

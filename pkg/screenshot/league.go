package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Tier is a competitive league tier, weakest to strongest.
type Tier string

const (
	TierBaron    Tier = "Baron"
	TierViscount Tier = "Viscount"
	TierEarl     Tier = "Earl"
	TierMarquis  Tier = "Marquis"
	TierDuke     Tier = "Duke"
)

// tierVariants lists the rank-banner spellings seen for each tier across the
// client languages the community plays in. Duke is absent: its banner differs
// structurally and is detected through the rank2 region instead.
var tierVariants = []struct {
	tier  Tier
	names []string
}{
	{TierBaron, []string{"Baron"}},
	{TierViscount, []string{"Viscount", "Vicomte", "Visconte"}},
	{TierEarl, []string{"Earl", "Comte"}},
	{TierMarquis, []string{"Marquis", "Marchese"}},
}

// LeagueFields are the values read from a championship-league screenshot.
type LeagueFields struct {
	League      TextField
	Division    IntField
	TotalPoints IntField
}

var pointsRunRE = regexp.MustCompile(`\d+ ?\d*`)

// ExtractLeague reads tier, division and point total from a league
// screenshot. The league screen is not panel-normalized: its layout shifts
// with the device aspect ratio, so the raw frame is bucketed into a shape
// class and that class's rectangles are used directly.
func ExtractLeague(data []byte) (*LeagueFields, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	if h == 0 {
		return nil, ErrEmptyImage
	}
	shape := classifyShape(w / h)

	rank, err := regionText(img, shape, "rank", blockConfig)
	if err != nil {
		return nil, err
	}
	tier, found := matchTier(rank)

	var totalText string
	if !found {
		// Duke banners fail the variant table; a second region catches them,
		// and the top tier's layout also moves the point total.
		rank, err = regionText(img, shape, "rank2", blockConfig)
		if err != nil {
			return nil, err
		}
		if strings.Contains(rank, "Duke") || strings.Contains(rank, "Duc") {
			tier = TierDuke
			found = true
			totalText, err = regionText(img, shape, "total2", totalConfig)
			if err != nil {
				return nil, err
			}
		}
	}
	if totalText == "" {
		totalText, err = regionText(img, shape, "total", totalConfig)
		if err != nil {
			return nil, err
		}
	}
	log.Printf("league OCR shape=%s rank=%q total=%q", shape.name, snippet(normalizeText(rank), 80), snippet(normalizeText(totalText), 40))

	out := &LeagueFields{
		Division: lastDigitRun(rank),
	}
	switch {
	case found:
		out.League = TextField{Value: string(tier), Status: StatusOK, Raw: rank}
	case strings.TrimSpace(rank) == "":
		out.League = TextField{Status: StatusEmpty}
	default:
		out.League = TextField{Status: StatusUnparsed, Raw: rank}
	}
	out.TotalPoints = parseTotal(tier, out.Division, totalText)
	return out, nil
}

// regionText crops the named shape-class region and OCRs it.
func regionText(img image.Image, shape shapeClass, name string, cfg ocrConfig) (string, error) {
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	crop := imaging.Crop(img, cropRect(shape.regions[name], w, h))
	return recognize(crop, cfg)
}

// matchTier scans the rank text against the variant table. Later matches win
// so a banner mentioning two tiers resolves to the stronger one listed last.
func matchTier(rank string) (Tier, bool) {
	var tier Tier
	found := false
	for _, tv := range tierVariants {
		for _, name := range tv.names {
			if strings.Contains(rank, name) {
				tier = tv.tier
				found = true
			}
		}
	}
	return tier, found
}

// lastDigitRun extracts the division: the final digit run in the rank text.
func lastDigitRun(rank string) IntField {
	matches := digitRunRE.FindAllString(rank, -1)
	if len(matches) == 0 {
		if strings.TrimSpace(rank) == "" {
			return IntField{Status: StatusEmpty}
		}
		return IntField{Status: StatusUnparsed, Raw: rank}
	}
	n, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return IntField{Status: StatusUnparsed, Raw: rank}
	}
	return IntField{Value: n, Status: StatusOK, Raw: rank}
}

// parseTotal extracts the point total: the leading digit run of the totals
// OCR (a single internal space is tolerated and removed), truncated to the
// calibrated digit count for the tier and division.
func parseTotal(tier Tier, division IntField, text string) IntField {
	m := pointsRunRE.FindString(text)
	if m == "" {
		if strings.TrimSpace(text) == "" {
			return IntField{Status: StatusEmpty}
		}
		return IntField{Status: StatusUnparsed, Raw: text}
	}
	points := strings.ReplaceAll(m, " ", "")
	keep := truncateLen(tier, division.Value, points)
	if keep > len(points) {
		keep = len(points)
	}
	n, err := strconv.Atoi(points[:keep])
	if err != nil {
		return IntField{Status: StatusUnparsed, Raw: text}
	}
	return IntField{Value: n, Status: StatusOK, Raw: text}
}

// truncateLen is the trusted prefix length of the raw point total. The screen
// overlays decoration that OCR reads as trailing digits, so only a calibrated
// count per tier/division is kept. The branches encode observed value-range
// boundaries, not a digit-count law.
func truncateLen(tier Tier, division int, points string) int {
	if tier == TierDuke || (tier == TierMarquis && strings.HasPrefix(points, "1")) {
		return 5
	}
	if tier == TierBaron && ((division == 3 && !strings.HasPrefix(points, "1")) || division == 4) {
		return 3
	}
	return 4
}

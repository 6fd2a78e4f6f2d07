package screenshot

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// WarFields are the values read from a guild-war log screenshot.
type WarFields struct {
	PointsScored   IntField
	OpponentServer IntField
	OpponentGuild  TextField
	OpponentScored IntField
	Date           DateField
}

var digitRunRE = regexp.MustCompile(`\d+`)

// ExtractWar normalizes the screenshot, crops each calibrated war-log region
// and parses the OCR output into typed fields. A field that fails to parse is
// reported as Empty or Unparsed, never as an error; an error here means the
// whole image was unusable (decode or OCR engine failure).
func ExtractWar(data []byte) (*WarFields, error) {
	panel, err := Normalize(data)
	if err != nil {
		return nil, err
	}

	out := &WarFields{}
	for name, r := range warRegions {
		crop := imaging.Crop(panel.Image, cropRect(r, panel.Width, panel.Height))
		label, err := recognize(crop, lineConfig)
		if err != nil {
			return nil, err
		}
		label = strings.TrimSpace(label)
		switch name {
		case "points_scored":
			out.PointsScored = parseInt(label)
		case "opponent_server":
			out.OpponentServer = parseInt(label)
		case "opponent_scored":
			out.OpponentScored = parseInt(label)
		case "opponent_guild":
			out.OpponentGuild = parseName(label)
		case "date":
			out.Date = parseDate(label)
		}
	}
	return out, nil
}

// parseInt keeps the first contiguous digit run of the label.
func parseInt(label string) IntField {
	m := digitRunRE.FindString(label)
	if m == "" {
		if label == "" {
			return IntField{Status: StatusEmpty}
		}
		return IntField{Status: StatusUnparsed, Raw: label}
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return IntField{Status: StatusUnparsed, Raw: label}
	}
	return IntField{Value: n, Status: StatusOK, Raw: label}
}

// parseDate expects day/month/year. The log screen renders a decoration the
// OCR reads as a trailing " J", which is stripped before splitting.
func parseDate(label string) DateField {
	trimmed := strings.TrimSuffix(label, " J")
	if trimmed == "" {
		return DateField{Status: StatusEmpty}
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) != 3 {
		log.Printf("war date parse failed: %q", label)
		return DateField{Status: StatusUnparsed, Raw: label}
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		log.Printf("war date parse failed: %q", label)
		return DateField{Status: StatusUnparsed, Raw: label}
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components silently; a misread like
	// 32/13/2025 must come back Unparsed instead.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		log.Printf("war date out of range: %q", label)
		return DateField{Status: StatusUnparsed, Raw: label}
	}
	return DateField{Value: t, Status: StatusOK, Raw: label}
}

// nameCutset holds the characters Tesseract commonly invents around guild
// names: brackets, dashes and stray punctuation.
const nameCutset = "[]{}()<>|`'\"~*_-.,:; "

// nameCorrections maps known misreads to canonical guild names. This is an
// allow-list translation, not spell correction; entries are added as
// misreads are reported.
var nameCorrections = map[string]string{
	"VaIhalla":    "Valhalla",
	"0blivion":    "Oblivion",
	"Dragqn Fang": "Dragon Fang",
	"lronclad":    "Ironclad",
}

// parseName trims OCR noise from a guild name and applies the misread table.
func parseName(label string) TextField {
	clean := strings.Trim(label, nameCutset)
	clean = strings.Join(strings.Fields(clean), " ")
	if canonical, ok := nameCorrections[clean]; ok {
		clean = canonical
	}
	if clean == "" {
		if label == "" {
			return TextField{Status: StatusEmpty}
		}
		return TextField{Status: StatusUnparsed, Raw: label}
	}
	return TextField{Value: clean, Status: StatusOK, Raw: label}
}

package screenshot

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// ocrConfig holds the per-field Tesseract settings.
type ocrConfig struct {
	psm       gosseract.PageSegMode
	whitelist string
}

var (
	// Short single-line labels: scores, server numbers, dates, guild names.
	lineConfig = ocrConfig{psm: gosseract.PSM_SINGLE_LINE}
	// Rank banners render over decorated backgrounds; block mode reads them
	// more reliably than line mode.
	blockConfig = ocrConfig{psm: gosseract.PSM_SINGLE_BLOCK}
	// Point totals: digits only, so restrict the character set.
	totalConfig = ocrConfig{psm: gosseract.PSM_SINGLE_LINE, whitelist: "0123456789/"}
)

// recognize OCRs one cropped region with the given settings. The crop goes
// through a temp PNG because Tesseract reads from disk.
func recognize(crop image.Image, cfg ocrConfig) (string, error) {
	tmp, err := os.CreateTemp("", "shot-*.png")
	if err != nil {
		return "", fmt.Errorf("temp crop file: %w", err)
	}
	_ = tmp.Close()
	defer os.Remove(tmp.Name())
	if err := imaging.Save(crop, tmp.Name()); err != nil {
		return "", fmt.Errorf("save crop: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("eng")
	_ = client.SetPageSegMode(cfg.psm)
	if cfg.whitelist != "" {
		_ = client.SetWhitelist(cfg.whitelist)
	}
	client.SetImage(tmp.Name())
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return text, nil
}

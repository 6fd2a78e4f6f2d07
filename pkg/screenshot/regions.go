package screenshot

import (
	"image"
	"math"
)

// Rect is a fractional crop rectangle, corners in [0,1]x[0,1].
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// warRegions maps war-log field names to rectangles on the normalized panel
// (canonical width x original height). One table covers all devices because
// the panel crop already removed the device-dependent chrome.
var warRegions = map[string]Rect{
	"points_scored":   {0.335, 0.21, 0.405, 0.26},
	"opponent_server": {0.67, 0.1, 0.766, 0.14},
	"opponent_guild":  {0.67, 0.15, 0.87, 0.2},
	"opponent_scored": {0.705, 0.21, 0.79, 0.26},
	"date":            {0.84, 0.09, 0.955, 0.135},
}

// shapeClass is one calibrated layout table for a family of device aspect
// ratios. maxRatio is the exclusive upper bound on width/height; the first
// bucket that fits wins.
type shapeClass struct {
	name     string
	maxRatio float64
	regions  map[string]Rect
}

// leagueShapes is ordered narrowest to widest. The rectangles were calibrated
// by hand against the observed device population, so the numbers are data,
// not derivable constants.
var leagueShapes = []shapeClass{
	{
		name:     "zflip",
		maxRatio: 1.3,
		regions: map[string]Rect{
			"total":  {0.54, 0.435, 0.6, 0.46},
			"total2": {0.58, 0.435, 0.66, 0.46},
			"rank":   {0.14, 0.51, 0.3, 0.6},
			"rank2":  {0.31, 0.51, 0.43, 0.6},
		},
	},
	{
		name:     "skinny",
		maxRatio: 1.5,
		regions: map[string]Rect{
			"total":  {0.464, 0.2, 0.6, 0.28},
			"total2": {0.555, 0.21, 0.66, 0.26},
			"rank":   {0.14, 0.33, 0.3, 0.41},
			"rank2":  {0.31, 0.33, 0.43, 0.41},
		},
	},
	{
		name:     "slim",
		maxRatio: 2,
		regions: map[string]Rect{
			"total":  {0.464, 0.16, 0.64, 0.21},
			"total2": {0.56, 0.16, 0.67, 0.22},
			"rank":   {0.1, 0.287, 0.3, 0.39},
			"rank2":  {0.26, 0.288, 0.435, 0.39},
		},
	},
	{
		name:     "medium",
		maxRatio: 2.2,
		regions: map[string]Rect{
			"total":  {0.464, 0.15, 0.6, 0.21},
			"total2": {0.54, 0.16, 0.66, 0.22},
			"rank":   {0.145, 0.287, 0.32, 0.38},
			"rank2":  {0.31, 0.288, 0.43, 0.39},
		},
	},
	{
		name:     "large",
		maxRatio: math.Inf(1),
		regions: map[string]Rect{
			"total":  {0.465, 0.15, 0.6, 0.21},
			"total2": {0.545, 0.16, 0.66, 0.22},
			"rank":   {0.09, 0.287, 0.32, 0.38},
			"rank2":  {0.31, 0.288, 0.43, 0.39},
		},
	},
}

// classifyShape buckets a width/height ratio into its shape class.
func classifyShape(ratio float64) shapeClass {
	for _, s := range leagueShapes {
		if ratio < s.maxRatio {
			return s
		}
	}
	return leagueShapes[len(leagueShapes)-1]
}

// cropRect scales a fractional rectangle to pixel bounds.
func cropRect(r Rect, w, h float64) image.Rectangle {
	return image.Rect(int(r.X1*w), int(r.Y1*h), int(r.X2*w), int(r.Y2*h))
}

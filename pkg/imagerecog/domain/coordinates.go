package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"yanbo.cc/imagerecog/pkg/common"
)

// CoordinateParser recovers (x, y) center points from the free-text answer of a vision model.
// Models answer in many dialects -- markdown tables, parenthesized pairs, bounding boxes, ratio
// coordinates, plain prose -- so parsing is an ordered cascade of increasingly permissive patterns.
// The parser never fails: malformed or unexpected text degrades to an empty, unrecognized
// DetectionSet, because model output is unreliable prose and a parser that throws on "no match"
// would make the whole pipeline brittle to phrasing drift.
type CoordinateParser struct {
	logger common.Logger
}

func NewCoordinateParser(logger common.Logger) *CoordinateParser {
	return &CoordinateParser{logger: logger}
}

// candidate a detection still in the processed coordinate space, before validation and rescaling.
type candidate struct {
	h, v       float64
	confidence float64
	source     string
	instanceID int // 0 means "assign automatically"
}

// How much each pattern is trusted. Structured output beats explicit prose beats bare number
// pairs, which are the most likely to be false positives.
const (
	confidenceTable       = 0.9
	confidenceCenter      = 0.85
	confidenceBBox        = 0.8
	confidencePair        = 0.7
	confidenceBarePair    = 0.6
	confidenceDescriptive = 0.3
)

// Detections closer than this (in output pixels) are considered the same object reported twice.
const duplicateTolerance = 10

// Phrases which mean the model refused / found nothing. Checked before any numeric parsing so
// that numbers inside a refusal sentence (e.g. "I see no car (640x480 image)") are never
// mistaken for coordinates.
var refusalPhrases = []string{"not found", "cannot see", "not visible", "unable to", "not detect"}

var refusalNoPattern = regexp.MustCompile(`(?:^|\s)no\s`)

var tableRowPattern = regexp.MustCompile(`^\|\s*-?\d`)

const numberPattern = `(-?\d+(?:\.\d+)?)`

type freeTextTier struct {
	source     string
	confidence float64
	pattern    *regexp.Regexp
	// fourValues means the pattern captures a bounding box whose center is the detection
	fourValues bool
}

// Free-text fallback tiers, most specific first. Only the first tier that yields at least one
// match is used: more specific phrasing is trusted over bare number pairs.
var freeTextTiers = []freeTextTier{
	{"range", confidenceBBox, regexp.MustCompile(`(?i)between\s*[(\[]?\s*` + numberPattern + `\s*,\s*` + numberPattern + `\s*[)\]]?\s*and\s*[(\[]?\s*` + numberPattern + `\s*,\s*` + numberPattern + `\s*[)\]]?`), true},
	{"bbox", confidenceBBox, regexp.MustCompile(`[(\[]\s*` + numberPattern + `\s*,\s*` + numberPattern + `\s*,\s*` + numberPattern + `\s*,\s*` + numberPattern + `\s*[)\]]`), true},
	{"center", confidenceCenter, regexp.MustCompile(`(?i)center(?:\s*point)?\s*(?:is|at|:)?\s*(?:at\s*)?\(\s*` + numberPattern + `\s*,\s*` + numberPattern + `\s*\)`), false},
	{"pair", confidencePair, regexp.MustCompile(`\(\s*` + numberPattern + `\s*,\s*` + numberPattern + `\s*\)`), false},
	{"location", confidenceBarePair, regexp.MustCompile(`(?i)(?:coordinates?|located|location|position)[^0-9-]{0,32}` + numberPattern + `\s*,\s*` + numberPattern), false},
	{"barepair", confidenceBarePair, regexp.MustCompile(numberPattern + `\s*,\s*` + numberPattern), false},
	{"labeled", confidenceBarePair, regexp.MustCompile(`(?i)\bx\s*[:=]\s*` + numberPattern + `[^0-9-]{0,40}\by\s*[:=]\s*` + numberPattern), false},
	{"axes", confidenceBarePair, regexp.MustCompile(`(?i)horizontal[^0-9-]{0,16}` + numberPattern + `[^0-9-]{0,40}vertical[^0-9-]{0,16}` + numberPattern), false},
}

// Descriptive location phrases mapped to the centers of approximate ratio regions of the frame.
// The weakest signal of all; used only when nothing numeric matched.
var descriptiveRegions = []struct {
	pattern *regexp.Regexp
	h, v    float64
}{
	{regexp.MustCompile(`(?:top|upper).{0,16}left`), 0.2, 0.2},
	{regexp.MustCompile(`(?:top|upper).{0,16}right`), 0.8, 0.2},
	{regexp.MustCompile(`(?:bottom|lower).{0,16}left`), 0.2, 0.8},
	{regexp.MustCompile(`(?:bottom|lower).{0,16}right`), 0.8, 0.8},
	{regexp.MustCompile(`center|middle|central`), 0.5, 0.5},
	{regexp.MustCompile(`left(?:\s*side)?`), 0.15, 0.5},
	{regexp.MustCompile(`right(?:\s*side)?`), 0.85, 0.5},
	{regexp.MustCompile(`top|upper`), 0.5, 0.15},
	{regexp.MustCompile(`bottom|lower`), 0.5, 0.85},
}

// Parse extracts all object center points from the model's response, converts them to the
// original image resolution and reports whether the object was recognized at all.
func (c *CoordinateParser) Parse(responseText string, geometry ImageGeometry) DetectionSet {
	if strings.TrimSpace(responseText) == "" {
		return DetectionSet{}
	}
	if containsRefusal(responseText) {
		c.logger.Log("model refused: no object found\n")
		return DetectionSet{}
	}
	candidates := parseTableRows(responseText)
	if len(candidates) == 0 {
		candidates = parseFreeText(responseText)
	}
	var detections []Detection
	nextInstanceID := 1
	for _, cand := range candidates {
		h, v := cand.h, cand.v
		// Values in [0, 1] are ratios of the processed frame, everything else is already pixels.
		if h >= 0 && h <= 1 && v >= 0 && v <= 1 {
			h *= float64(geometry.ProcessedWidth)
			v *= float64(geometry.ProcessedHeight)
		}
		if !withinLenientBounds(h, v, geometry) {
			continue
		}
		// Identity geometry goes through the same multiplication with a factor of 1.0, so both
		// paths always produce identical output.
		detection := Detection{
			H:          int(math.Round(h * geometry.ScaleX())),
			V:          int(math.Round(v * geometry.ScaleY())),
			Confidence: cand.confidence,
			Source:     cand.source,
		}
		// (0, 0) is the model's agreed "not found" sentinel, not a real location.
		if detection.H == 0 && detection.V == 0 {
			continue
		}
		if isNearDuplicate(detection, detections) {
			continue
		}
		detection.InstanceID = cand.instanceID
		if detection.InstanceID == 0 {
			detection.InstanceID = nextInstanceID
		}
		nextInstanceID = detection.InstanceID + 1
		detections = append(detections, detection)
	}
	return DetectionSet{
		Detections: detections,
		Recognized: len(detections) > 0,
	}
}

func containsRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return refusalNoPattern.MatchString(lower)
}

// parseTableRows scans for markdown table data rows of the shape "| <number> | ... |".
// Header and separator lines never start with a digit, so they are skipped naturally.
func parseTableRows(text string) []candidate {
	var candidates []candidate
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !tableRowPattern.MatchString(line) {
			continue
		}
		cand, ok := parseRowCells(splitRowCells(line), len(candidates)+1)
		if !ok {
			continue
		}
		candidates = append(candidates, cand)
	}
	return candidates
}

func splitRowCells(line string) []string {
	rawCells := strings.Split(strings.Trim(line, "|"), "|")
	cells := make([]string, 0, len(rawCells))
	for _, cell := range rawCells {
		cells = append(cells, strings.TrimSpace(cell))
	}
	return cells
}

// parseRowCells converts one table row to a candidate. Rows with fewer than 2 usable numeric
// cells are skipped (a filtered value, not an error: one bad row must not fail the response).
func parseRowCells(cells []string, autoInstanceID int) (candidate, bool) {
	if len(cells) == 0 {
		return candidate{}, false
	}
	instanceID := func(cellIndex int) int {
		if len(cells) > cellIndex {
			if id, err := strconv.Atoi(cells[cellIndex]); err == nil {
				return id
			}
		}
		return autoInstanceID
	}
	// Some providers join H and V with a comma inside the first cell ("408,372").
	if strings.Contains(cells[0], ",") {
		parts := strings.SplitN(cells[0], ",", 2)
		h, errH := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		v, errV := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errH != nil || errV != nil {
			return candidate{}, false
		}
		return candidate{h: h, v: v, confidence: confidenceTable, source: "table", instanceID: instanceID(2)}, true
	}
	if len(cells) < 2 {
		return candidate{}, false
	}
	h, errH := strconv.ParseFloat(cells[0], 64)
	v, errV := strconv.ParseFloat(cells[1], 64)
	if errH != nil || errV != nil {
		return candidate{}, false
	}
	return candidate{h: h, v: v, confidence: confidenceTable, source: "table", instanceID: instanceID(2)}, true
}

func parseFreeText(text string) []candidate {
	for _, tier := range freeTextTiers {
		matches := tier.pattern.FindAllStringSubmatch(text, -1)
		var candidates []candidate
		for _, match := range matches {
			cand, ok := tierCandidate(tier, match)
			if !ok {
				continue
			}
			candidates = append(candidates, cand)
		}
		if len(candidates) > 0 {
			return candidates
		}
	}
	return parseDescriptive(text)
}

func tierCandidate(tier freeTextTier, match []string) (candidate, bool) {
	values := make([]float64, 0, len(match)-1)
	for _, group := range match[1:] {
		value, err := strconv.ParseFloat(group, 64)
		if err != nil {
			return candidate{}, false
		}
		values = append(values, value)
	}
	if tier.fourValues {
		if len(values) != 4 {
			return candidate{}, false
		}
		return candidate{
			h:          (values[0] + values[2]) / 2,
			v:          (values[1] + values[3]) / 2,
			confidence: tier.confidence,
			source:     tier.source,
		}, true
	}
	if len(values) != 2 {
		return candidate{}, false
	}
	return candidate{h: values[0], v: values[1], confidence: tier.confidence, source: tier.source}, true
}

func parseDescriptive(text string) []candidate {
	lower := strings.ToLower(text)
	for _, region := range descriptiveRegions {
		if region.pattern.MatchString(lower) {
			return []candidate{{h: region.h, v: region.v, confidence: confidenceDescriptive, source: "descriptive"}}
		}
	}
	return nil
}

// withinLenientBounds accepts coordinates up to twice the larger of the two frame dimensions.
// Models sometimes answer in a nearby-but-not-exact frame, and rejecting near-frame answers
// outright would discard useful signal; the bound only guards against obvious nonsense
// (negative values and huge overshoots).
func withinLenientBounds(h, v float64, geometry ImageGeometry) bool {
	maxH := 2 * maxInt(geometry.OriginalWidth, geometry.ProcessedWidth)
	maxV := 2 * maxInt(geometry.OriginalHeight, geometry.ProcessedHeight)
	return h >= 0 && h <= float64(maxH) && v >= 0 && v <= float64(maxV)
}

func isNearDuplicate(detection Detection, existing []Detection) bool {
	for _, other := range existing {
		if absInt(detection.H-other.H) <= duplicateTolerance && absInt(detection.V-other.V) <= duplicateTolerance {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

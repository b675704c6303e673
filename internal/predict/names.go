package predict

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// prophageName is a consolidated provirus name, eg "k141_7_prophage_120_5430"
	prophageName = regexp.MustCompile(`^(.+?)_prophage_(\d+)_(\d+)$`)

	// provirusName is geNomad's provirus name, eg "k141_7|provirus_120_5430"
	provirusName = regexp.MustCompile(`^(.+?)\|provirus_(\d+)_(\d+)$`)
)

// regionName parses the contig and 1-based inclusive coordinates that some
// tools embed in a sequence name. ok is false if the name carries none.
func regionName(name string) (contig string, start, end int, ok bool) {
	for _, re := range []*regexp.Regexp{provirusName, prophageName} {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		start, err := strconv.Atoi(m[2])
		if err != nil {
			return "", 0, 0, false
		}
		end, err := strconv.Atoi(m[3])
		if err != nil {
			return "", 0, 0, false
		}
		return m[1], start, end, true
	}
	return "", 0, 0, false
}

// baseContig strips the suffixes tools add to a contig id,
// eg VirSorter2's "||full" and geNomad's "|provirus_1_2".
func baseContig(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, "||"); i > 0 {
		return name[:i]
	}
	if i := strings.Index(name, "|provirus"); i > 0 {
		return name[:i]
	}
	return name
}

// parseSpan parses a "start-end" coordinate pair.
func parseSpan(s string) (start, end int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("coordinates %q are not start-end", s)
	}
	if start, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return 0, 0, fmt.Errorf("bad start in %q", s)
	}
	if end, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return 0, 0, fmt.Errorf("bad end in %q", s)
	}
	return start, end, nil
}

// parseScore parses a numeric score column. Percentages ("85%") are scaled
// to 0-1. NaN and infinite scores are rejected.
func parseScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s, scale = strings.TrimSuffix(s, "%"), 100
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("score %q is not finite", s)
	}
	return v / scale, nil
}

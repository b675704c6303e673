package predict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vrecon/vrecon/config"
)

// testConfig is the default tool set and thresholds without reading viper.
func testConfig() *config.Config {
	return &config.Config{
		Tools: []string{
			"Phabox", "GenomadPH", "DeepmcPH", "VirsorterDS", "Vibrant",
			"GenomadPL", "DeepmcPL", "Plasme",
			"VirsorterSS", "VirsorterRNA", "VirsorterNCLDV", "VirsorterLAV",
		},
		Thresholds: config.ThresholdConfig{
			PhaboxMin:        0.7,
			PlasmeMin:        0.6,
			DeepmcPhageMin:   0.4,
			DeepmcPlasmidMin: 0.6,
		},
		FastaWidth: 80,
	}
}

// writeFixture writes contents to dir/rel, creating parent directories.
func writeFixture(t *testing.T, dir, rel, contents string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// stripSource drops the file and line of raw predictions for comparison.
func stripSource(raws []RawPrediction) []RawPrediction {
	out := make([]RawPrediction, len(raws))
	for i, r := range raws {
		r.File, r.Line = "", 0
		out[i] = r
	}
	return out
}

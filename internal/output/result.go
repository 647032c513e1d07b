// Package output provides shared result serialization for splitter JSON output.
package output

import (
	"fmt"

	"github.com/spidy-senpai/splitter"
)

// SeparationToMap converts a separation result into the canonical map
// structure used for JSON and JSONL serialization.
func SeparationToMap(result *splitter.SeparationResult) map[string]any {
	meta := map[string]any{
		"summary": map[string]any{
			"stems":           len(result.Stems),
			"sample_rate":     result.SampleRate,
			"source_duration": result.SourceDuration,
		},
	}

	stems := make(map[string]any, len(result.Stems))
	for name, stem := range result.Stems {
		stems[name] = map[string]any{
			"samples":  len(stem.Waveform.Samples),
			"duration": stem.Waveform.Duration(),
			"peak":     stem.Waveform.Peak(),
		}
	}

	meta["stems"] = stems

	return meta
}

// ProcessToMap converts a processed-and-uploaded result into the map
// structure shared by all output formats. Failed stems keep their error
// string; the successful subset is counted separately.
func ProcessToMap(result *splitter.ProcessResult) map[string]any {
	successful := result.Successful()

	meta := map[string]any{
		"summary": map[string]any{
			"total_stems":     len(result.Stems),
			"uploaded":        len(successful),
			"source_duration": result.SourceDuration,
			"timestamp":       result.Timestamp,
		},
	}

	stems := make(map[string]any, len(result.Stems))

	for name, stem := range result.Stems {
		entry := map[string]any{
			"name":  stem.DisplayName,
			"emoji": stem.Emoji,
		}

		if stem.Err != nil {
			entry["error"] = stem.Err.Error()
		} else {
			entry["url"] = stem.URL
			entry["public_id"] = stem.PublicID
			entry["format"] = stem.Format
			entry["size"] = stem.Bytes
		}

		stems[name] = entry
	}

	meta["stems"] = stems

	return meta
}

// StemLine renders a one-line console summary for a stem upload.
func StemLine(stem *splitter.StemUpload) string {
	if stem.Err != nil {
		return fmt.Sprintf("%s %s: failed: %v", stem.Emoji, stem.DisplayName, stem.Err)
	}

	return fmt.Sprintf("%s %s: %s (%d bytes)", stem.Emoji, stem.DisplayName, stem.URL, stem.Bytes)
}

package output

import (
	"errors"
	"strings"
	"testing"

	"github.com/spidy-senpai/splitter"
	"github.com/spidy-senpai/splitter/internal/types"
)

func TestSeparationToMap(t *testing.T) {
	result := &splitter.SeparationResult{
		Stems: map[string]*splitter.StemResult{
			"vocals": {
				Name: "vocals",
				Waveform: &types.AudioSignal{
					Samples:    make([]float64, types.AnalysisRate),
					SampleRate: types.AnalysisRate,
				},
			},
		},
		SampleRate:     types.AnalysisRate,
		SourceDuration: 1.0,
	}

	meta := SeparationToMap(result)

	summary := meta["summary"].(map[string]any)
	if summary["stems"] != 1 || summary["sample_rate"] != types.AnalysisRate {
		t.Fatalf("summary=%v", summary)
	}

	stems := meta["stems"].(map[string]any)
	vocals := stems["vocals"].(map[string]any)

	if vocals["samples"] != types.AnalysisRate {
		t.Fatalf("vocals entry=%v", vocals)
	}
}

func TestProcessToMap(t *testing.T) {
	result := &splitter.ProcessResult{
		Stems: map[string]*splitter.StemUpload{
			"vocals": {
				Name:        "vocals",
				DisplayName: "Vocals",
				Emoji:       "🎤",
				URL:         "https://cdn.example.com/vocals.wav",
				PublicID:    "songs/1/vocals_x",
				Format:      "wav",
				Bytes:       2048,
			},
			"drums": {
				Name:        "drums",
				DisplayName: "Drums",
				Emoji:       "🥁",
				Err:         errors.New("backend unavailable"),
			},
		},
		SourceDuration: 3.5,
	}

	meta := ProcessToMap(result)

	summary := meta["summary"].(map[string]any)
	if summary["total_stems"] != 2 || summary["uploaded"] != 1 {
		t.Fatalf("summary=%v", summary)
	}

	stems := meta["stems"].(map[string]any)

	vocals := stems["vocals"].(map[string]any)
	if vocals["url"] != "https://cdn.example.com/vocals.wav" || vocals["size"] != int64(2048) {
		t.Fatalf("vocals entry=%v", vocals)
	}

	if _, present := vocals["error"]; present {
		t.Fatal("successful stem carries an error field")
	}

	drums := stems["drums"].(map[string]any)
	if drums["error"] != "backend unavailable" {
		t.Fatalf("drums entry=%v", drums)
	}

	if _, present := drums["url"]; present {
		t.Fatal("failed stem carries a URL field")
	}
}

func TestStemLine(t *testing.T) {
	ok := &splitter.StemUpload{
		DisplayName: "Vocals",
		Emoji:       "🎤",
		URL:         "https://cdn.example.com/vocals.wav",
		Bytes:       2048,
	}

	line := StemLine(ok)
	if !strings.Contains(line, "Vocals") || !strings.Contains(line, "2048 bytes") {
		t.Fatalf("line=%q", line)
	}

	failed := &splitter.StemUpload{
		DisplayName: "Drums",
		Emoji:       "🥁",
		Err:         errors.New("backend unavailable"),
	}

	line = StemLine(failed)
	if !strings.Contains(line, "failed") || !strings.Contains(line, "backend unavailable") {
		t.Fatalf("line=%q", line)
	}
}

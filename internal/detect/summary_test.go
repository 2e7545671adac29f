package detect_test

import (
	"testing"

	"jellywatch/internal/detect"
)

func TestSummarizeEmpty(t *testing.T) {
	d := detect.NewDetector(nil)
	if got := d.Summarize(nil); got != "no notable changes" {
		t.Fatalf("Summarize(nil) = %q", got)
	}
}

func TestSummarizeSingle(t *testing.T) {
	d := detect.NewDetector(nil)
	got := d.Summarize([]detect.Change{
		{Category: detect.CategoryResolution, Description: "resolution 1080p → 2160p"},
	})
	if got != "resolution 1080p → 2160p" {
		t.Fatalf("Summarize single = %q", got)
	}
}

func TestSummarizePair(t *testing.T) {
	d := detect.NewDetector(nil)
	got := d.Summarize([]detect.Change{
		{Category: detect.CategoryVideoCodec, Description: "video codec h264 → hevc"},
		{Category: detect.CategoryResolution, Description: "resolution 1080p → 2160p"},
	})
	want := "resolution 1080p → 2160p and video codec h264 → hevc"
	if got != want {
		t.Fatalf("Summarize pair = %q, want %q", got, want)
	}
}

func TestSummarizePriorityOrder(t *testing.T) {
	d := detect.NewDetector(nil)
	// Deliberately shuffled input; output must follow the fixed priority.
	got := d.Summarize([]detect.Change{
		{Category: detect.CategoryFileSize, Description: "file size 8 GiB → 16 GiB"},
		{Category: detect.CategoryHDRStatus, Description: "dynamic range SDR → HDR10"},
		{Category: detect.CategoryResolution, Description: "resolution 1080p → 2160p"},
	})
	want := "resolution 1080p → 2160p, dynamic range SDR → HDR10, and file size 8 GiB → 16 GiB"
	if got != want {
		t.Fatalf("Summarize = %q, want %q", got, want)
	}
}

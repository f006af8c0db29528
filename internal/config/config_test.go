package config

import "testing"

func TestParseWellFormedFile(t *testing.T) {
	data := []byte(`
console "NES-PAL"
cpu {
    variant "RP2A07"
    region "PAL"
}
ppu {
    variant "RP2C07"
    region "PAL"
    accuracy "cycle"
}
cic {
    variant "6113"
    enabled false
}
controllers {
    type "NES"
}
video {
    backend "vulkan"
    vsync false
    scale 4
}
`)
	cfg := Parse(data)

	if cfg.Console != ConsolePAL {
		t.Errorf("Console = %q, want %q", cfg.Console, ConsolePAL)
	}
	if cfg.CPU.Variant != "RP2A07" || cfg.CPU.Region != "PAL" {
		t.Errorf("CPU = %+v", cfg.CPU)
	}
	if cfg.PPU.Accuracy != "cycle" {
		t.Errorf("PPU.Accuracy = %q", cfg.PPU.Accuracy)
	}
	if cfg.CIC.Enabled {
		t.Error("CIC.Enabled should be false")
	}
	if cfg.Video.Backend != "vulkan" || cfg.Video.VSync || cfg.Video.Scale != 4 {
		t.Errorf("Video = %+v", cfg.Video)
	}
}

func TestParseMissingFileReturnsDefaults(t *testing.T) {
	cfg := Parse(nil)
	want := Default()
	if cfg != want {
		t.Errorf("Parse(nil) = %+v, want defaults %+v", cfg, want)
	}
}

func TestParseUnknownKeysIgnored(t *testing.T) {
	data := []byte(`
console "NES-NTSC-FrontLoader"
video {
    backend "software"
    some_future_key "whatever"
    scale 2
}
`)
	cfg := Parse(data)
	if cfg.Video.Backend != "software" || cfg.Video.Scale != 2 {
		t.Errorf("Video = %+v", cfg.Video)
	}
}

func TestParseUnterminatedBlockKeepsEarlierSiblings(t *testing.T) {
	data := []byte(`
console "NES-PAL"
cpu {
    variant "RP2A07"

video {
    backend "software"
}
`)
	cfg := Parse(data)
	// The unterminated cpu block absorbs every line after it (the video
	// section becomes one of its children); the console node parsed before
	// it is kept.
	if cfg.Console != ConsolePAL {
		t.Errorf("Console = %q", cfg.Console)
	}
}

func TestParseOversizedFileReturnsDefaults(t *testing.T) {
	big := make([]byte, maxFileBytes+1)
	cfg := Parse(big)
	if cfg != Default() {
		t.Error("oversized input should fall back to defaults")
	}
}

func TestParseSingleVideoBlock(t *testing.T) {
	data := []byte("video {\n  backend \"software\"\n}\n")
	cfg := Parse(data)
	if cfg.Video.Backend != "software" {
		t.Errorf("Video.Backend = %q", cfg.Video.Backend)
	}
}

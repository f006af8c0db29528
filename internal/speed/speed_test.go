package speed

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestController(cfg Config) (*Controller, *fakeClock) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	c := NewWithClock(cfg, clk.now)
	return c, clk
}

func TestPausedAlwaysWaits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModePaused
	c, _ := newTestController(cfg)

	if d := c.ShouldTick(nil); d.Kind != Wait {
		t.Fatalf("expected Wait while paused, got %v", d.Kind)
	}
}

type alwaysBreak struct{}

func (alwaysBreak) ShouldBreak() bool { return true }

func TestSteppingDelegatesToDebugger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeStepping
	c, _ := newTestController(cfg)

	if d := c.ShouldTick(alwaysBreak{}); d.Kind != Wait {
		t.Fatalf("expected Wait when debugger says break, got %v", d.Kind)
	}
}

func TestHardSyncDisabledAlwaysProceeds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HardSync = false
	c, _ := newTestController(cfg)

	for i := 0; i < 5; i++ {
		if d := c.ShouldTick(nil); d.Kind != Proceed {
			t.Fatalf("expected Proceed with hard sync disabled, got %v", d.Kind)
		}
	}
}

func TestHardSyncWaitsWhenAhead(t *testing.T) {
	cfg := DefaultConfig()
	c, _ := newTestController(cfg)

	// Frame 0 is due at the reference time itself; frame 1 is due one frame
	// duration later, while the wall clock hasn't moved.
	if d := c.ShouldTick(nil); d.Kind != Proceed {
		t.Fatalf("expected Proceed for the frame due at the reference time, got %v", d.Kind)
	}
	d := c.ShouldTick(nil)
	if d.Kind != WaitNs {
		t.Fatalf("expected WaitNs on the second tick (wall clock hasn't moved), got %v", d.Kind)
	}
	if d.WaitFor <= 0 {
		t.Fatalf("expected a positive wait duration, got %v", d.WaitFor)
	}
}

func TestHardSyncProceedsWithinCatchupWindow(t *testing.T) {
	cfg := DefaultConfig()
	c, clk := newTestController(cfg)

	clk.advance(cfg.Region.FrameDuration() * 2) // 2 frames behind, within MaxCatchup=4
	if d := c.ShouldTick(nil); d.Kind != Proceed {
		t.Fatalf("expected Proceed within catch-up window, got %v", d.Kind)
	}
}

func TestHardSyncDropsFramesWhenFarBehind(t *testing.T) {
	cfg := DefaultConfig()
	c, clk := newTestController(cfg)

	clk.advance(cfg.Region.FrameDuration() * 20) // far beyond MaxCatchup=4
	d := c.ShouldTick(nil)
	if d.Kind != Proceed {
		t.Fatalf("expected Proceed after dropping frames, got %v", d.Kind)
	}
	if c.DroppedFrames() == 0 {
		t.Fatalf("expected dropped-frame count to be nonzero after a large stall")
	}
}

func TestModeChangeResetsReference(t *testing.T) {
	cfg := DefaultConfig()
	c, clk := newTestController(cfg)

	clk.advance(cfg.Region.FrameDuration() * 10)
	c.SetMode(ModeRealtime)

	// With the reference reset to now, the first tick is on time and the
	// 10-frame stall is not counted as dropped; the tick after it waits.
	if d := c.ShouldTick(nil); d.Kind != Proceed {
		t.Fatalf("expected Proceed for the frame due at the reset reference, got %v", d.Kind)
	}
	if c.DroppedFrames() != 0 {
		t.Fatalf("expected no dropped frames after the reference reset, got %d", c.DroppedFrames())
	}
	if d := c.ShouldTick(nil); d.Kind != WaitNs {
		t.Fatalf("expected reference reset to make the next tick wait again, got %v", d.Kind)
	}
}

func TestFastForwardShortensFrameDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeFastForward
	cfg.Multiplier = 2.0
	c, _ := newTestController(cfg)

	got := c.frameDuration()
	want := cfg.Region.FrameDuration() / 2
	if got != want {
		t.Fatalf("expected frame duration halved at 2x speed, got %v want %v", got, want)
	}
}

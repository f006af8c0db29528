// Package app wires the threads — emulation, render, and main/control —
// that make up a running instance of the emulator, per spec.md §5's thread
// model. Grounded on the teacher's gones/internal/app monolith (one
// goroutine, direct bus/cartridge coupling) generalized to two goroutines
// (emulation and render) supervised by golang.org/x/sync/errgroup, each
// touching only internal/emulation.State/internal/mailbox.Mailboxes across
// a mailbox boundary; the goroutine that calls Run plays the main/control
// role and waits on the group, matching bdwalton-gintendo's
// context.WithCancel + goroutine supervision pattern.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ramjac-digital/rambo/internal/config"
	"github.com/ramjac-digital/rambo/internal/emulation"
	"github.com/ramjac-digital/rambo/internal/graphics"
	"github.com/ramjac-digital/rambo/internal/loader"
	"github.com/ramjac-digital/rambo/internal/mailbox"
	"github.com/ramjac-digital/rambo/internal/speed"
)

// Options configures one run of the emulator, collected from the CLI
// surface (spec.md §6's "rambo <rom.nes> [--headless] [--fast-forward]
// [--no-video]").
type Options struct {
	ROMPath      string
	Config       config.Config
	Headless     bool
	FastForward  bool
	NoVideo      bool
	SaveStateDir string
}

// Application owns the mailboxes and supervises the emulation and render
// goroutines for one run. It has no other mutable surface: all cross-thread communication
// goes through Mailboxes, per spec.md §5.
type Application struct {
	opts      Options
	mailboxes *mailbox.Mailboxes
	states    *StateManager
	log       *log.Logger
}

// New constructs an Application ready to Run.
func New(opts Options) *Application {
	return &Application{
		opts:      opts,
		mailboxes: mailbox.New(),
		states:    NewStateManager(opts.SaveStateDir),
		log:       log.New(os.Stderr, "app: ", log.LstdFlags),
	}
}

// Run loads the ROM, constructs the emulation state, and drives the
// emulation and render goroutines (render only when a window exists) to
// completion or first error. It
// returns a non-nil error for any LoaderError per spec.md §7's "fatal at
// startup" policy.
func (a *Application) Run(ctx context.Context) error {
	romData, err := os.ReadFile(a.opts.ROMPath)
	if err != nil {
		return fmt.Errorf("reading ROM %q: %w", a.opts.ROMPath, err)
	}
	rom, err := loader.Load(romData)
	if err != nil {
		return fmt.Errorf("loading ROM %q: %w", a.opts.ROMPath, err)
	}

	state := emulation.New(rom)
	state.PowerOn()

	backend, err := a.selectBackend()
	if err != nil {
		return err
	}
	if err := backend.Initialize(a.graphicsConfig()); err != nil {
		return fmt.Errorf("initializing graphics backend %q: %w", backend.GetName(), err)
	}
	defer backend.Cleanup()

	var window graphics.Window
	if !backend.IsHeadless() {
		window, err = backend.CreateWindow("rambo", 256*int(a.opts.Config.Video.Scale), 240*int(a.opts.Config.Video.Scale))
		if err != nil {
			return fmt.Errorf("creating window: %w", err)
		}
		defer window.Cleanup()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.runEmulation(gctx, state) })
	if window != nil {
		g.Go(func() error { return a.runRender(gctx, window, cancel) })
	}

	return g.Wait()
}

// selectBackend resolves the CLI/config video backend choice into a
// concrete graphics.Backend, per spec.md §6's `video.backend` key.
func (a *Application) selectBackend() (graphics.Backend, error) {
	switch {
	case a.opts.Headless || a.opts.NoVideo:
		return graphics.CreateBackend(graphics.BackendHeadless)
	case a.opts.Config.Video.Backend == "software":
		return graphics.CreateBackend(graphics.BackendSDL)
	default:
		return graphics.CreateBackend(graphics.BackendEbitengine)
	}
}

func (a *Application) graphicsConfig() graphics.Config {
	return graphics.Config{
		WindowTitle:  "rambo",
		WindowWidth:  256 * int(a.opts.Config.Video.Scale),
		WindowHeight: 240 * int(a.opts.Config.Video.Scale),
		VSync:        a.opts.Config.Video.VSync,
		Headless:     a.opts.Headless || a.opts.NoVideo,
	}
}

// runEmulation is the RT-safe emulation thread: it owns state exclusively,
// paces itself with internal/speed, consumes command/input mailboxes, and
// publishes completed frames. No heap allocation on the steady-state path
// — the frame buffer and every mailbox are pre-allocated by New().
func (a *Application) runEmulation(ctx context.Context, state *emulation.State) error {
	speedCfg := speed.DefaultConfig()
	if a.opts.FastForward {
		speedCfg.Mode = speed.ModeFastForward
		speedCfg.Multiplier = 4.0
	}
	controller := speed.New(speedCfg, time.Now())

	state.FrameComplete = func() {
		*a.mailboxes.Frame.WriteBuffer() = state.PPU.FrameBuffer
		a.mailboxes.Frame.PostFrame()
	}

	status := mailbox.EmulationStatus{Running: true}
	a.mailboxes.EmulationStatus.Set(status)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		a.drainCommands(state, controller)

		if buttons, ok := a.mailboxes.ControllerInput.Get(); ok {
			state.Input.SetButtons1(buttons.Controller1)
			state.Input.SetButtons2(buttons.Controller2)
		}

		decision := controller.ShouldTick(nil)
		switch decision.Kind {
		case speed.Wait:
			// Paused/stepping: nothing to wait on, so poll at a modest
			// rate instead of busy-spinning the emulation thread.
			time.Sleep(5 * time.Millisecond)
			continue
		case speed.WaitNs:
			time.Sleep(decision.WaitFor)
			continue
		}

		state.EmulateFrame()
		status.FrameCount++
		a.mailboxes.EmulationStatus.Set(status)
	}
}

// drainCommands applies every pending EmulationCommand (power/reset/pause/
// resume/save/load) published by the control thread, per spec.md §5's
// EmulationCommandMailbox contract. CommandShutdown is popped and has no
// effect here; the emulation thread stops when its context is cancelled.
func (a *Application) drainCommands(state *emulation.State, controller *speed.Controller) {
	for {
		cmd, ok := a.mailboxes.EmulationCommand.Pop()
		if !ok {
			return
		}
		switch cmd.Kind {
		case mailbox.CommandPowerOn:
			state.PowerOn()
		case mailbox.CommandReset:
			state.Reset()
		case mailbox.CommandPause:
			controller.SetMode(speed.ModePaused)
		case mailbox.CommandResume:
			controller.SetMode(speed.ModeRealtime)
		case mailbox.CommandSaveState:
			// internal/snapshot only captures CPU state at an instruction
			// boundary; if the emulation thread is mid-instruction,
			// re-queue the command and retry on the next tick instead of
			// panicking or silently dropping the request.
			if !state.CPU.AtInstructionBoundary() {
				_ = a.mailboxes.EmulationCommand.Push(cmd)
				return
			}
			if err := a.states.Save(state, cmd.Path); err != nil {
				a.log.Printf("save state %q: %v", cmd.Path, err)
			}
		case mailbox.CommandLoadState:
			if err := a.states.Load(state, cmd.Path); err != nil {
				a.log.Printf("load state %q: %v", cmd.Path, err)
			}
		}
	}
}

// runRender is the render thread: it drains completed frames and presents
// them through the graphics backend, and turns window input into
// ControllerInputMailbox updates, per spec.md §5's render-thread contract.
func (a *Application) runRender(ctx context.Context, window graphics.Window, cancel context.CancelFunc) error {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	var buttons mailbox.ControllerButtons
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if window.ShouldClose() {
			cancel()
			return nil
		}

		for _, ev := range window.PollEvents() {
			applyInputEvent(&buttons, ev)
			if ev.Type == graphics.InputEventTypeQuit {
				cancel()
				return nil
			}
		}
		a.mailboxes.ControllerInput.Set(buttons)

		if frame := a.mailboxes.Frame.Drain(); frame != nil {
			if err := window.RenderFrame(*frame); err != nil {
				return fmt.Errorf("rendering frame: %w", err)
			}
			window.SwapBuffers()
		}
	}
}

// applyInputEvent folds one graphics.InputEvent into the live controller-1
// button state. Player-2 buttons (graphics.Button2A and the rest) and key
// events are ignored, so controller 2 never receives input from here.
func applyInputEvent(buttons *mailbox.ControllerButtons, ev graphics.InputEvent) {
	if ev.Type != graphics.InputEventTypeButton {
		return
	}
	idx := buttonIndex(ev.Button)
	if idx < 0 {
		return
	}
	buttons.Controller1[idx] = ev.Pressed
}

// buttonIndex maps a graphics.Button to its NES bit position (A, B,
// Select, Start, Up, Down, Left, Right), or -1 for an unmapped button.
func buttonIndex(b graphics.Button) int {
	switch b {
	case graphics.ButtonA:
		return 0
	case graphics.ButtonB:
		return 1
	case graphics.ButtonSelect:
		return 2
	case graphics.ButtonStart:
		return 3
	case graphics.ButtonUp:
		return 4
	case graphics.ButtonDown:
		return 5
	case graphics.ButtonLeft:
		return 6
	case graphics.ButtonRight:
		return 7
	default:
		return -1
	}
}

//go:build !headless
// +build !headless

package graphics

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// SDLBackend implements the Backend interface using go-sdl2's CPU-side
// texture-streaming path, as distinct from EbitengineBackend's GPU path.
type SDLBackend struct {
	initialized bool
	config      Config
}

// SDLWindow implements the Window interface for the SDL2 backend.
type SDLWindow struct {
	title    string
	width    int
	height   int
	running  bool
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
	events   []InputEvent
}

// NewSDLBackend creates a new SDL2 graphics backend.
func NewSDLBackend() Backend {
	return &SDLBackend{}
}

// Initialize initializes the SDL2 backend.
func (b *SDLBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("SDL backend already initialized")
	}
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}
	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow creates an SDL2 window, renderer, and a streaming RGB24
// texture sized to the native NES frame (256x240); the renderer handles
// the scale-up to width/height.
func (b *SDLBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	if b.config.Headless {
		return nil, fmt.Errorf("cannot create window in headless mode")
	}

	flags := uint32(sdl.WINDOW_SHOWN)
	if b.config.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(width), int32(height), flags)
	if err != nil {
		return nil, fmt.Errorf("creating SDL window: %w", err)
	}

	rendererFlags := uint32(sdl.RENDERER_ACCELERATED)
	if b.config.VSync {
		rendererFlags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, rendererFlags)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("creating SDL renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, 256, 240)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, fmt.Errorf("creating SDL texture: %w", err)
	}

	return &SDLWindow{
		title:    title,
		width:    width,
		height:   height,
		running:  true,
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, 256*240*3),
	}, nil
}

// Cleanup releases all SDL resources.
func (b *SDLBackend) Cleanup() error {
	if b.initialized {
		sdl.Quit()
	}
	b.initialized = false
	return nil
}

// IsHeadless returns false; the SDL backend always opens a window.
func (b *SDLBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name.
func (b *SDLBackend) GetName() string {
	return "SDL2"
}

// SDLWindow implementation

// SetTitle sets the window title.
func (w *SDLWindow) SetTitle(title string) {
	w.title = title
	w.window.SetTitle(title)
}

// GetSize returns window dimensions.
func (w *SDLWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if the window should close.
func (w *SDLWindow) ShouldClose() bool {
	return !w.running
}

// SwapBuffers presents the renderer's back buffer.
func (w *SDLWindow) SwapBuffers() {
	w.renderer.Present()
}

// PollEvents drains the SDL event queue and translates it into InputEvents,
// mapping keyboard keys to NES controller-1 buttons through
// sdlButtonMappings, a layout of its own that differs from
// EbitengineBackend's.
func (w *SDLWindow) PollEvents() []InputEvent {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.running = false
			w.events = append(w.events, InputEvent{Type: InputEventTypeQuit, Pressed: true})
		case *sdl.KeyboardEvent:
			pressed := e.Type == sdl.KEYDOWN
			if pressed && e.Keysym.Sym == sdl.K_ESCAPE {
				w.running = false
				w.events = append(w.events, InputEvent{Type: InputEventTypeQuit, Pressed: true})
				continue
			}
			if button, ok := sdlButtonMappings[e.Keysym.Sym]; ok {
				w.events = append(w.events, InputEvent{Type: InputEventTypeButton, Button: button, Pressed: pressed})
			}
		}
	}

	events := w.events
	w.events = nil
	return events
}

// sdlButtonMappings maps keyboard scancodes directly to NES controller
// buttons, grounded on andrewthecodertx-go-nes-emulator/cmd/sdl-display's
// X/Z/Enter/RShift/arrow-key layout.
var sdlButtonMappings = map[sdl.Keycode]Button{
	sdl.K_UP:     ButtonUp,
	sdl.K_DOWN:   ButtonDown,
	sdl.K_LEFT:   ButtonLeft,
	sdl.K_RIGHT:  ButtonRight,
	sdl.K_x:      ButtonA,
	sdl.K_z:      ButtonB,
	sdl.K_RETURN: ButtonStart,
	sdl.K_RSHIFT: ButtonSelect,
}

// RenderFrame converts the packed-ARGB NES frame buffer to RGB24 and streams
// it into the backing texture, then copies the texture to the renderer.
// SwapBuffers presents it.
func (w *SDLWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	for i, pixel := range frameBuffer {
		w.pixels[i*3+0] = uint8((pixel >> 16) & 0xFF)
		w.pixels[i*3+1] = uint8((pixel >> 8) & 0xFF)
		w.pixels[i*3+2] = uint8(pixel & 0xFF)
	}

	if err := w.texture.Update(nil, unsafe.Pointer(&w.pixels[0]), 256*3); err != nil {
		return fmt.Errorf("updating SDL texture: %w", err)
	}
	w.renderer.Clear()
	return w.renderer.Copy(w.texture, nil, nil)
}

// Cleanup releases window resources.
func (w *SDLWindow) Cleanup() error {
	w.running = false
	if w.texture != nil {
		w.texture.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.window != nil {
		w.window.Destroy()
	}
	return nil
}

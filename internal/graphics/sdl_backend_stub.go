//go:build headless
// +build headless

package graphics

import "fmt"

// SDLBackend stub for headless builds
type SDLBackend struct{}

// SDLWindow stub for headless builds
type SDLWindow struct{}

// NewSDLBackend creates a stub backend for headless builds
func NewSDLBackend() Backend {
	return &SDLBackend{}
}

func (b *SDLBackend) Initialize(config Config) error {
	return fmt.Errorf("SDL backend not available in headless build")
}

func (b *SDLBackend) CreateWindow(title string, width, height int) (Window, error) {
	return nil, fmt.Errorf("SDL backend not available in headless build")
}

func (b *SDLBackend) Cleanup() error { return nil }
func (b *SDLBackend) IsHeadless() bool { return true }
func (b *SDLBackend) GetName() string  { return "SDL2-Stub" }

func (w *SDLWindow) SetTitle(title string)                            {}
func (w *SDLWindow) GetSize() (width, height int)                     { return 0, 0 }
func (w *SDLWindow) ShouldClose() bool                                { return true }
func (w *SDLWindow) SwapBuffers()                                     {}
func (w *SDLWindow) PollEvents() []InputEvent                         { return nil }
func (w *SDLWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	return fmt.Errorf("SDL backend not available in headless build")
}
func (w *SDLWindow) Cleanup() error { return nil }

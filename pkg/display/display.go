// Package display wraps SDL2 window/texture/event handling around a
// console.Console, driving the NTSC-paced frame loop and turning keyboard
// events into controller input.
package display

import (
	"fmt"
	"image"
	"os"
	"runtime"
	"time"
	"unsafe"

	"github.com/ftrvxmtrx/tga"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/nescore/gones/pkg/console"
	"github.com/nescore/gones/pkg/logger"
)

const (
	screenWidth  = 256
	screenHeight = 240

	// WindowScale is the integer scale factor applied to the NES's native
	// 256x240 resolution when sizing the SDL window.
	WindowScale = 3
	WindowTitle = "GoNES - Nintendo Entertainment System Emulator"

	// TargetFPS is the NES's actual NTSC framerate: 1789773 / 29780.5.
	TargetFPS = 60.0988
)

// FrameTime is the wall-clock duration of one NES frame at TargetFPS.
var FrameTime = time.Duration(16639267) * time.Nanosecond

// keyBindings maps SDL keycodes to controller 1 button positions, matching
// input.ButtonMask* bit order (A, B, Select, Start, Up, Down, Left, Right).
var keyBindings = map[sdl.Keycode]int{
	sdl.K_z:     0,
	sdl.K_x:     1,
	sdl.K_a:     2,
	sdl.K_s:     3,
	sdl.K_UP:    4,
	sdl.K_DOWN:  5,
	sdl.K_LEFT:  6,
	sdl.K_RIGHT: 7,
}

// Display owns the SDL window, renderer, and audio device for a Console and
// runs its main loop.
type Display struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	nes     *console.Console
	running bool

	screenshotNum int
	screenshotDir string

	audioDevice sdl.AudioDeviceID
	audioSpec   *sdl.AudioSpec

	startTime  time.Time
	frameCount int

	fpsCounter int
	fpsTimer   time.Time
	currentFPS float64
	showFPS    bool
}

// New creates a Display bound to nes. sampleRate selects the SDL audio
// device's requested frequency (0 disables audio output).
func New(nes *console.Console, sampleRate int) (*Display, error) {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	window, err := sdl.CreateWindow(
		WindowTitle,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		screenWidth*WindowScale,
		screenHeight*WindowScale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE)

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		screenWidth,
		screenHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create texture: %w", err)
	}
	texture.SetBlendMode(sdl.BLENDMODE_NONE)

	d := &Display{
		window:        window,
		renderer:      renderer,
		texture:       texture,
		nes:           nes,
		running:       true,
		screenshotDir: ".",
		startTime:     time.Now(),
		fpsTimer:      time.Now(),
		showFPS:       true,
	}

	if sampleRate > 0 {
		if err := d.initAudio(sampleRate); err != nil {
			logger.LogError("audio init failed, continuing without sound: %v", err)
		}
	}

	return d, nil
}

// SetScreenshotDir sets the directory screenshots are written to.
func (d *Display) SetScreenshotDir(dir string) {
	d.screenshotDir = dir
}

// Close releases SDL resources.
func (d *Display) Close() {
	if d.audioDevice != 0 {
		sdl.CloseAudioDevice(d.audioDevice)
	}
	if d.texture != nil {
		d.texture.Destroy()
	}
	if d.renderer != nil {
		d.renderer.Destroy()
	}
	if d.window != nil {
		d.window.Destroy()
	}
	sdl.Quit()
}

// Run drives the console at NTSC frame pace until the window is closed.
func (d *Display) Run() {
	for d.running {
		d.handleEvents()
		d.nes.StepFrame(300000)
		d.queueAudio()
		d.render()
		d.updateFPS()
		d.pace()
	}
}

// pace sleeps until the next frame's scheduled wall-clock deadline,
// measuring against startTime rather than per-frame so Sleep() jitter
// doesn't accumulate drift over a long session.
func (d *Display) pace() {
	d.frameCount++
	target := d.startTime.Add(time.Duration(d.frameCount) * FrameTime)
	if now := time.Now(); now.Before(target) {
		time.Sleep(target.Sub(now))
	}
}

func (d *Display) handleEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			d.running = false
		case *sdl.KeyboardEvent:
			d.handleKeyboard(e)
		}
	}
}

func (d *Display) handleKeyboard(event *sdl.KeyboardEvent) {
	pressed := event.State == sdl.PRESSED

	if button, ok := keyBindings[event.Keysym.Sym]; ok {
		d.nes.SetController1(button, pressed)
		return
	}

	switch event.Keysym.Sym {
	case sdl.K_ESCAPE:
		d.running = false
	case sdl.K_F12:
		if pressed {
			if err := d.SaveScreenshot(); err != nil {
				logger.LogError("screenshot failed: %v", err)
			}
		}
	case sdl.K_F3:
		if pressed {
			d.showFPS = !d.showFPS
		}
	}
}

func (d *Display) render() {
	framebuffer := d.nes.TakeFrame()
	if len(framebuffer) > 0 {
		d.texture.Update(nil, unsafe.Pointer(&framebuffer[0]), screenWidth*4)
	}

	d.renderer.SetDrawColor(0, 0, 0, 255)
	d.renderer.Clear()
	d.renderer.Copy(d.texture, nil, nil)

	if d.showFPS {
		d.window.SetTitle(fmt.Sprintf("%s - FPS: %.1f", WindowTitle, d.currentFPS))
	}

	d.renderer.Present()
}

// SaveScreenshot writes the current renderer contents to a numbered TGA file
// in the configured screenshot directory.
func (d *Display) SaveScreenshot() error {
	w, h, _ := d.renderer.GetOutputSize()
	pixels := make([]byte, w*h*4)
	if err := d.renderer.ReadPixels(nil, sdl.PIXELFORMAT_RGBA8888, unsafe.Pointer(&pixels[0]), int(w*4)); err != nil {
		return fmt.Errorf("read pixels: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, pixels)

	filename := fmt.Sprintf("%s/screenshot_%03d.tga", d.screenshotDir, d.screenshotNum)
	d.screenshotNum++

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer f.Close()

	if err := tga.Encode(f, img); err != nil {
		return fmt.Errorf("encode tga: %w", err)
	}
	logger.LogInfo("screenshot saved: %s", filename)
	return nil
}

func (d *Display) initAudio(sampleRate int) error {
	want := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_F32LSB,
		Channels: 1,
		Samples:  1024,
	}

	var have sdl.AudioSpec
	device, err := sdl.OpenAudioDevice("", false, want, &have, sdl.AUDIO_ALLOW_ANY_CHANGE)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}

	d.audioDevice = device
	d.audioSpec = &have
	logger.LogInfo("audio initialized: %dHz, %d channel(s)", have.Freq, have.Channels)

	sdl.PauseAudioDevice(device, false)
	return nil
}

func (d *Display) queueAudio() {
	if d.audioDevice == 0 {
		return
	}

	samples := d.nes.AudioSamples()
	if len(samples) == 0 {
		return
	}

	queued := sdl.GetQueuedAudioSize(d.audioDevice)
	maxBytes := uint32(1024 * 4 * 2)
	if queued >= maxBytes {
		return
	}

	audioData := make([]byte, len(samples)*4)
	for i, sample := range samples {
		bits := *(*uint32)(unsafe.Pointer(&sample))
		audioData[i*4+0] = byte(bits)
		audioData[i*4+1] = byte(bits >> 8)
		audioData[i*4+2] = byte(bits >> 16)
		audioData[i*4+3] = byte(bits >> 24)
	}
	sdl.QueueAudio(d.audioDevice, audioData)
}

func (d *Display) updateFPS() {
	d.fpsCounter++
	elapsed := time.Since(d.fpsTimer)
	if elapsed >= 500*time.Millisecond {
		d.currentFPS = float64(d.fpsCounter) / elapsed.Seconds()
		d.fpsCounter = 0
		d.fpsTimer = time.Now()
	}
}

package main

import (
	"fmt"
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"dmgcore/internal/config"
	"dmgcore/internal/emulator"
	"dmgcore/internal/ppu"
)

// host owns every SDL2 resource: the window, the streaming texture
// the framebuffer is blitted into each frame, and the queued audio
// device the APU's samples are pushed to.
type host struct {
	emu *emulator.Emulator
	cfg config.Config

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audioDev sdl.AudioDeviceID

	scancodes [8]sdl.Scancode
}

func newHost(emu *emulator.Emulator, cfg config.Config) (*host, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	w := ppu.ScreenWidth * cfg.WindowScale
	height := ppu.ScreenHeight * cfg.WindowScale
	window, err := sdl.CreateWindow("dmgcore", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, int32(w), int32(height), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, ppu.ScreenWidth, ppu.ScreenHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, fmt.Errorf("create texture: %w", err)
	}

	var audioDev sdl.AudioDeviceID
	if cfg.AudioEnabled {
		spec := sdl.AudioSpec{Freq: 44100, Format: sdl.AUDIO_F32, Channels: 2, Samples: 1024}
		dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
		if err == nil {
			audioDev = dev
			sdl.PauseAudioDevice(audioDev, false)
		}
	}

	h := &host{emu: emu, cfg: cfg, window: window, renderer: renderer, texture: texture, audioDev: audioDev}
	for i, b := range buttonOrder {
		h.scancodes[i] = keyScancode(b.binding(cfg.Keys), b.fallback)
	}
	return h, nil
}

func (h *host) close() {
	if h.audioDev != 0 {
		sdl.CloseAudioDevice(h.audioDev)
	}
	if h.texture != nil {
		h.texture.Destroy()
	}
	if h.renderer != nil {
		h.renderer.Destroy()
	}
	if h.window != nil {
		h.window.Destroy()
	}
	sdl.Quit()
}

// run pumps SDL events, samples keyboard state into the Joypad, steps
// one video frame, blits it, and queues that frame's audio, until the
// window is closed.
func (h *host) run() error {
	for h.emu.Running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event.(type) {
			case *sdl.QuitEvent:
				h.emu.Stop()
			}
		}
		h.pollKeys()

		if err := h.emu.RunFrame(); err != nil {
			return err
		}
		h.present()
		h.queueAudio()
	}
	return nil
}

func (h *host) pollKeys() {
	keys := sdl.GetKeyboardState()
	for i, b := range buttonOrder {
		h.emu.Joypad.SetButton(b.button, keys[h.scancodes[i]] != 0)
	}
}

func (h *host) present() {
	frame := h.emu.FrameBuffer()
	pixels := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*3)
	for i, c := range frame {
		pixels[i*3] = c.R
		pixels[i*3+1] = c.G
		pixels[i*3+2] = c.B
	}
	h.texture.Update(nil, pixels, ppu.ScreenWidth*3)
	h.renderer.Clear()
	h.renderer.Copy(h.texture, nil, nil)
	h.renderer.Present()
}

func (h *host) queueAudio() {
	if h.audioDev == 0 {
		return
	}
	samples := h.emu.AudioSamples()
	if len(samples) == 0 {
		return
	}
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		s *= float32(h.cfg.AudioVolume)
		bits := math.Float32bits(s)
		buf[i*4] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	_ = sdl.QueueAudio(h.audioDev, buf)
}

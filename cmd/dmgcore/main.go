// Command dmgcore is a plain SDL2 host for the emulator core: it
// opens a window sized to the Game Boy's 160x144 frame, pumps input
// into the Joypad, pushes rendered frames to a streaming texture, and
// queues stereo audio straight off the APU's per-sample output.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"dmgcore/internal/config"
	"dmgcore/internal/debug"
	"dmgcore/internal/emulator"
	"dmgcore/internal/joypad"
	"dmgcore/internal/ppu"
)

func main() {
	romPath := flag.String("rom", "", "path to a Game Boy ROM image")
	unlimited := flag.Bool("unlimited", false, "run without frame-rate limiting")
	scale := flag.Int("scale", 0, "display scale override (1-8); 0 uses the config default")
	logging := flag.Bool("log", false, "enable verbose component logging")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("usage: dmgcore -rom <path-to-rom>")
		os.Exit(1)
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config warning: %v\n", err)
	}
	if *scale > 0 {
		cfg.WindowScale = *scale
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading ROM file: %v\n", err)
		os.Exit(1)
	}

	logger := debug.NewLogger(10000)
	if *logging {
		logger.SetComponentEnabled(debug.ComponentCPU, true)
		logger.SetComponentEnabled(debug.ComponentPPU, true)
		logger.SetComponentEnabled(debug.ComponentAPU, true)
		logger.SetComponentEnabled(debug.ComponentMemory, true)
		logger.SetComponentEnabled(debug.ComponentSystem, true)
		logger.SetComponentEnabled(debug.ComponentDMA, true)
		logger.SetMinLevel(debug.LogLevelTrace)
	}

	emu, err := emulator.NewWithLogger(romData, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading ROM: %v\n", err)
		os.Exit(1)
	}
	emu.SetFrameLimit(!*unlimited)
	if cfg.Palette == "grayscale" {
		emu.Palette = ppu.Grayscale
	}

	host, err := newHost(emu, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating display: %v\n", err)
		os.Exit(1)
	}
	defer host.close()

	emu.Start()
	fmt.Printf("dmgcore: running %s (scale %dx, frame limit %v)\n", *romPath, cfg.WindowScale, !*unlimited)

	if err := host.run(); err != nil {
		fmt.Fprintf(os.Stderr, "host error: %v\n", err)
		os.Exit(1)
	}
}

// keyScancode maps the configured key-binding names to SDL scancodes.
// Unrecognized names fall back to their button's factory default so a
// typo in the config file never disables a control entirely.
func keyScancode(name, fallback string) sdl.Scancode {
	code := sdl.GetScancodeFromName(name)
	if code == sdl.SCANCODE_UNKNOWN {
		code = sdl.GetScancodeFromName(fallback)
	}
	return code
}

var buttonOrder = []struct {
	button  joypad.Button
	binding func(config.KeyBindings) string
	fallback string
}{
	{joypad.Right, func(k config.KeyBindings) string { return k.Right }, "Right"},
	{joypad.Left, func(k config.KeyBindings) string { return k.Left }, "Left"},
	{joypad.Up, func(k config.KeyBindings) string { return k.Up }, "Up"},
	{joypad.Down, func(k config.KeyBindings) string { return k.Down }, "Down"},
	{joypad.A, func(k config.KeyBindings) string { return k.A }, "Z"},
	{joypad.B, func(k config.KeyBindings) string { return k.B }, "X"},
	{joypad.Select, func(k config.KeyBindings) string { return k.Select }, "RightShift"},
	{joypad.Start, func(k config.KeyBindings) string { return k.Start }, "Return"},
}

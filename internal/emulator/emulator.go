// Package emulator wires every component into a runnable system: it
// owns construction order (the DMA/Bus constructor cycle is resolved
// here via DMA.AttachSource), frame-level stepping, save states, and
// the audio/video/input surface a host program drives.
package emulator

import (
	"fmt"
	"time"

	"dmgcore/internal/apu"
	"dmgcore/internal/cpu"
	"dmgcore/internal/debug"
	"dmgcore/internal/dma"
	"dmgcore/internal/interrupt"
	"dmgcore/internal/joypad"
	"dmgcore/internal/memory"
	"dmgcore/internal/ppu"
	"dmgcore/internal/serial"
	"dmgcore/internal/stepper"
	"dmgcore/internal/timer"
)

// Emulator owns the full component graph for one DMG session.
type Emulator struct {
	CPU       *cpu.CPU
	Bus       *memory.Bus
	Cartridge *memory.Cartridge
	PPU       *ppu.PPU
	APU       *apu.APU
	Timer     *timer.Timer
	DMA       *dma.DMA
	Serial    *serial.Serial
	Joypad    *joypad.Joypad
	IRQ       *interrupt.Registers
	Stepper   *stepper.Stepper
	Logger    *debug.Logger

	Palette ppu.Palette

	Running bool
	Paused  bool

	FrameLimitEnabled bool
	TargetFPS         float64
	FrameTime         time.Duration
	LastFrameTime     time.Time

	FPS           float64
	FrameCount    uint64
	FPSUpdateTime time.Time

	audioAccumulated float64
	audioStep        float64
	audioBuffer      []float32
}

const sampleRate = 44100

// New builds a complete Emulator around the given ROM image with default
// DMG timings and a 44.1kHz audio buffer sized for one frame.
func New(rom []byte) (*Emulator, error) {
	return NewWithLogger(rom, debug.NewLogger(10000))
}

// NewWithLogger builds an Emulator sharing the given logger, letting
// a host program fold CPU/PPU/APU/memory traces into one sink.
func NewWithLogger(rom []byte, logger *debug.Logger) (*Emulator, error) {
	cart, err := memory.LoadCartridge(rom)
	if err != nil {
		return nil, fmt.Errorf("load cartridge: %w", err)
	}

	cart.AttachLogger(logger)
	irq, ppuUnit, apuUnit, timerUnit, dmaUnit, serialUnit, joypadUnit, bus, cpuCore, step := wireComponents(cart, logger)

	framesPerSecond := 59.7275
	samplesPerFrame := int(sampleRate/framesPerSecond) + 1

	e := &Emulator{
		CPU:               cpuCore,
		Bus:               bus,
		Cartridge:         cart,
		PPU:               ppuUnit,
		APU:               apuUnit,
		Timer:             timerUnit,
		DMA:               dmaUnit,
		Serial:            serialUnit,
		Joypad:            joypadUnit,
		IRQ:               irq,
		Stepper:           step,
		Logger:            logger,
		Palette:           ppu.DefaultPalette,
		FrameLimitEnabled: true,
		TargetFPS:         59.7275,
		FrameTime:         time.Duration(float64(time.Second) / framesPerSecond),
		LastFrameTime:     time.Now(),
		FPSUpdateTime:     time.Now(),
		audioStep:         1.0 / sampleRate,
		audioBuffer:       make([]float32, 0, samplesPerFrame*2),
	}
	return e, nil
}

// wireComponents builds one fresh, mutually-wired peripheral graph
// over an existing cartridge, folding every component's trace events
// into the shared logger. It exists separately from NewWithLogger so
// Reset can rebuild the graph without re-parsing the ROM image.
func wireComponents(cart *memory.Cartridge, logger *debug.Logger) (
	irq *interrupt.Registers,
	ppuUnit *ppu.PPU,
	apuUnit *apu.APU,
	timerUnit *timer.Timer,
	dmaUnit *dma.DMA,
	serialUnit *serial.Serial,
	joypadUnit *joypad.Joypad,
	bus *memory.Bus,
	cpuCore *cpu.CPU,
	step *stepper.Stepper,
) {
	irq = &interrupt.Registers{}
	ppuUnit = ppu.New(irq)
	ppuUnit.AttachLogger(logger)
	apuUnit = apu.New()
	apuUnit.AttachLogger(logger)
	timerUnit = timer.New(irq)
	serialUnit = serial.New(irq)
	joypadUnit = joypad.New(irq)

	dmaUnit = dma.New(ppuUnit)
	dmaUnit.AttachLogger(logger)
	bus = memory.New(cart, ppuUnit, apuUnit, timerUnit, dmaUnit, serialUnit, joypadUnit, irq)
	dmaUnit.AttachSource(bus)

	cpuCore = cpu.New(bus, irq)
	cpuCore.AttachLogger(logger)
	step = stepper.New(cpuCore, timerUnit, serialUnit, ppuUnit, dmaUnit, apuUnit, joypadUnit)
	return
}

// Start marks the emulator as running.
func (e *Emulator) Start() { e.Running = true; e.Paused = false }

// Stop marks the emulator as stopped.
func (e *Emulator) Stop() { e.Running = false }

// Pause suspends stepping without resetting any state.
func (e *Emulator) Pause() { e.Paused = true }

// Resume lifts a Pause.
func (e *Emulator) Resume() { e.Paused = false }

// RunFrame steps the core until one video frame is ready, collecting
// interleaved stereo audio samples along the way, and applies host
// frame pacing if enabled.
func (e *Emulator) RunFrame() error {
	if !e.Running || e.Paused {
		return nil
	}

	e.audioBuffer = e.audioBuffer[:0]
	for !e.PPU.FrameReady() {
		mCycles := e.Stepper.Step()
		e.collectAudio(mCycles)
	}
	e.PPU.ConsumeFrame()

	e.FrameCount++
	now := time.Now()
	if now.Sub(e.FPSUpdateTime) >= time.Second {
		e.FPS = float64(e.FrameCount) / now.Sub(e.FPSUpdateTime).Seconds()
		e.FrameCount = 0
		e.FPSUpdateTime = now
	}

	if e.FrameLimitEnabled {
		elapsed := now.Sub(e.LastFrameTime)
		if elapsed < e.FrameTime {
			time.Sleep(e.FrameTime - elapsed)
		}
	}
	e.LastFrameTime = time.Now()
	return nil
}

// collectAudio samples the APU mixer at the host sample rate as the
// CPU/peripherals advance, using a running accumulator so the 4.19MHz
// M-cycle clock and the 44.1kHz sample clock never need a common
// multiple.
func (e *Emulator) collectAudio(mCycles int) {
	const tCyclesPerSecond = 4194304
	tCycles := mCycles * 4
	for i := 0; i < tCycles; i++ {
		e.audioAccumulated += 1.0 / tCyclesPerSecond
		if e.audioAccumulated >= e.audioStep {
			e.audioAccumulated -= e.audioStep
			l, r := e.APU.Sample()
			e.audioBuffer = append(e.audioBuffer, l, r)
		}
	}
}

// AudioSamples returns the interleaved left/right samples generated
// during the last RunFrame call.
func (e *Emulator) AudioSamples() []float32 {
	return e.audioBuffer
}

// FrameBuffer renders the last completed frame through the active
// Palette, one Color per pixel in row-major 160x144 order.
func (e *Emulator) FrameBuffer() [ppu.ScreenWidth * ppu.ScreenHeight]ppu.Color {
	return e.PPU.RenderRGB(e.Palette)
}

// Reset reconstructs CPU/peripheral state without reloading the ROM.
func (e *Emulator) Reset() {
	irq, ppuUnit, apuUnit, timerUnit, dmaUnit, serialUnit, joypadUnit, bus, cpuCore, step := wireComponents(e.Cartridge, e.Logger)
	e.IRQ = irq
	e.PPU = ppuUnit
	e.APU = apuUnit
	e.Timer = timerUnit
	e.DMA = dmaUnit
	e.Serial = serialUnit
	e.Joypad = joypadUnit
	e.Bus = bus
	e.CPU = cpuCore
	e.Stepper = step
}

// SetFrameLimit toggles host-side frame pacing.
func (e *Emulator) SetFrameLimit(enabled bool) { e.FrameLimitEnabled = enabled }

// Package bus wires the CPU, PPU, APU, mapper, and controller ports into one
// system clock (C8): PPU advances 3 dots per CPU cycle, IRQ sources are
// polled and routed through the CPU's level-triggered line each cycle, and
// OAM-DMA/DMC-DMA stalls pause the CPU while the PPU and APU keep running.
package bus

import (
	"fmt"

	"gones/internal/apu"
	"gones/internal/cpu"
	"gones/internal/input"
	"gones/internal/memory"
	"gones/internal/ppu"
)

// cartridgeIRQ is the subset of the C2 mapper contract the bus polls for
// scanline/A12-edge IRQs (MMC3 and similar boards).
type cartridgeIRQ interface {
	IRQPending() bool
	AcknowledgeIRQ()
}

// Bus connects all NES components together and drives the master clock.
type Bus struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	APU    *apu.APU
	Memory *memory.Memory
	Input  *input.InputState

	cartridge cartridgeIRQ

	cpuCycles  uint64
	frameCount uint64

	oamDMAActive   bool
	oamDMAPage     uint8
	oamDMAIndex    int
	oamDMAHalt     int
	oamDMAConsumed int
	oamDMAByte     uint8

	dmcStallCycles uint64

	executionLog   []BusExecutionEvent
	loggingEnabled bool

	memoryWatchpoints map[uint16]uint8
	watchpointLogging bool
}

// New creates a new system bus with all components wired together.
func New() *Bus {
	b := &Bus{
		PPU:   ppu.New(),
		APU:   apu.New(),
		Input: input.NewInputState(),

		memoryWatchpoints: make(map[uint16]uint8),
	}

	b.Memory = memory.New(b.PPU, b.APU, nil)
	b.Memory.SetInputSystem(b.Input)
	b.CPU = cpu.New(b.Memory)
	b.APU.SetCPUBus(b.Memory)
	b.APU.SetDMAStallCallback(func(cycles int) { b.dmcStallCycles += uint64(cycles) })

	b.PPU.SetNMICallback(b.CPU.RequestNMI)
	b.PPU.SetFrameCompleteCallback(b.handleFrameComplete)
	b.Memory.SetDMACallback(b.TriggerOAMDMA)

	b.Reset()
	return b
}

// Reset resets all components to their initial state.
func (b *Bus) Reset() {
	b.CPU.Reset()
	b.PPU.Reset()
	b.APU.Reset()
	b.Input.Reset()

	b.cpuCycles = 0
	b.frameCount = 0
	b.oamDMAActive = false
	b.dmcStallCycles = 0

	b.PPU.SetFrameCount(0)

	b.executionLog = make([]BusExecutionEvent, 0)
	b.loggingEnabled = false
	b.memoryWatchpoints = make(map[uint16]uint8)
	b.watchpointLogging = false
}

func (b *Bus) handleFrameComplete() {
	b.frameCount = b.PPU.GetFrameCount()
}

// Step advances the system by one CPU cycle's worth of master clock: the CPU
// ticks once (or is held for a DMA stall), the PPU ticks three times, and
// the APU ticks once, with pending IRQ sources polled afterward.
func (b *Bus) Step() {
	prePC := b.CPU.PC
	var preOpcode uint8
	if b.Memory != nil {
		preOpcode = b.Memory.Read(prePC)
	}
	preFrameCount := b.frameCount

	switch {
	case b.oamDMAActive:
		b.stepOAMDMA()
	case b.dmcStallCycles > 0:
		b.dmcStallCycles--
	default:
		b.CPU.Tick()
	}

	for i := 0; i < 3; i++ {
		b.PPU.Tick()
	}
	b.APU.Tick()

	if b.cartridge != nil && b.cartridge.IRQPending() {
		b.CPU.RequestIRQ(cpu.IRQSourceMapper)
	} else {
		b.CPU.AcknowledgeIRQ(cpu.IRQSourceMapper)
	}
	if b.APU.GetFrameIRQ() {
		b.CPU.RequestIRQ(cpu.IRQSourceAPUFrame)
	} else {
		b.CPU.AcknowledgeIRQ(cpu.IRQSourceAPUFrame)
	}
	if b.APU.GetDMCIRQ() {
		b.CPU.RequestIRQ(cpu.IRQSourceDMC)
	} else {
		b.CPU.AcknowledgeIRQ(cpu.IRQSourceDMC)
	}

	b.cpuCycles++

	if b.watchpointLogging && b.frameCount%300 == 0 {
		b.CheckMemoryWatchpoints()
	}

	if b.loggingEnabled {
		b.executionLog = append(b.executionLog, BusExecutionEvent{
			StepNumber:    len(b.executionLog) + 1,
			CPUCycles:     b.cpuCycles,
			PPUCycles:     b.cpuCycles * 3,
			FrameCount:    b.frameCount,
			DMAActive:     b.oamDMAActive || b.dmcStallCycles > 0,
			NMIProcessed:  b.frameCount > preFrameCount,
			PCValue:       prePC,
			InstructionOp: preOpcode,
		})
	}
}

// stepOAMDMA advances the in-flight OAM-DMA transfer by one CPU cycle:
// the leading halt cycle(s) (2 when DMA starts on an odd CPU cycle) are
// idle, then each pair of cycles reads a source byte and writes it into OAM.
func (b *Bus) stepOAMDMA() {
	if b.oamDMAConsumed < b.oamDMAHalt {
		b.oamDMAConsumed++
		return
	}
	offset := b.oamDMAConsumed - b.oamDMAHalt
	if offset%2 == 0 {
		addr := uint16(b.oamDMAPage)<<8 + uint16(b.oamDMAIndex)
		b.oamDMAByte = b.Memory.Read(addr)
	} else {
		b.PPU.WriteOAM(uint8(b.oamDMAIndex), b.oamDMAByte)
		b.oamDMAIndex++
	}
	b.oamDMAConsumed++
	if b.oamDMAIndex >= 256 {
		b.oamDMAActive = false
	}
}

// TriggerOAMDMA initiates an OAM DMA transfer from sourcePage*$100. The CPU
// stalls for 513 cycles (514 if starting on an odd CPU cycle) while the PPU
// and APU keep ticking.
func (b *Bus) TriggerOAMDMA(sourcePage uint8) {
	if b.oamDMAActive {
		return
	}
	b.oamDMAActive = true
	b.oamDMAPage = sourcePage
	b.oamDMAIndex = 0
	b.oamDMAConsumed = 0
	if b.cpuCycles%2 == 1 {
		b.oamDMAHalt = 2
	} else {
		b.oamDMAHalt = 1
	}
}

// LoadCartridge loads a cartridge into the system, rebuilding the memory
// buses and resetting the CPU from the new reset vector.
func (b *Bus) LoadCartridge(cart memory.CartridgeInterface) {
	b.Memory = memory.New(b.PPU, b.APU, cart)
	b.Memory.SetInputSystem(b.Input)
	b.CPU = cpu.New(b.Memory)
	b.APU.SetCPUBus(b.Memory)

	if irqSource, ok := cart.(cartridgeIRQ); ok {
		b.cartridge = irqSource
	} else {
		b.cartridge = nil
	}

	ppuMemory := memory.NewPPUMemory(cart)
	b.PPU.SetMemory(ppuMemory)

	b.PPU.SetNMICallback(b.CPU.RequestNMI)
	b.Memory.SetDMACallback(b.TriggerOAMDMA)

	b.CPU.Reset()
}

// Run runs the emulator for a specified number of frames.
func (b *Bus) Run(frames int) {
	targetFrames := b.frameCount + uint64(frames)
	for b.frameCount < targetFrames {
		b.Step()
	}
}

// RunCycles runs the emulator for a specified number of CPU cycles.
func (b *Bus) RunCycles(cycles uint64) {
	targetCycles := b.cpuCycles + cycles
	for b.cpuCycles < targetCycles {
		b.Step()
	}
}

// Frame executes one complete frame worth of cycles.
func (b *Bus) Frame() {
	targetCycles := b.cpuCycles + 29781
	for b.cpuCycles < targetCycles {
		b.Step()
	}
}

// GetFrameRate returns the NTSC frame rate.
func (b *Bus) GetFrameRate() float64 {
	cpuFrequency := 1789773.0
	cpuCyclesPerFrame := cpuFrequency / 60.098803
	return cpuFrequency / cpuCyclesPerFrame
}

func (b *Bus) GetFrameBuffer() []uint32 {
	frameBuffer := b.PPU.GetFrameBuffer()
	return frameBuffer[:]
}

func (b *Bus) GetAudioSamples() []float32     { return b.APU.GetSamples() }
func (b *Bus) SetAudioSampleRate(rate int)    { b.APU.SetSampleRate(rate) }
func (b *Bus) GetCycleCount() uint64          { return b.cpuCycles }
func (b *Bus) GetFrameCount() uint64          { return b.frameCount }
func (b *Bus) IsDMAInProgress() bool          { return b.oamDMAActive || b.dmcStallCycles > 0 }

func (b *Bus) isRenderingEnabled() bool {
	mask := b.PPU.ReadRegister(0x2001)
	return (mask & 0x18) != 0
}

// SetControllerButton sets the state of a single controller button.
func (b *Bus) SetControllerButton(controller int, button input.Button, pressed bool) {
	switch controller {
	case 0, 1:
		b.Input.Controller1.SetButton(button, pressed)
	case 2:
		b.Input.Controller2.SetButton(button, pressed)
	}
}

// SetControllerButtons sets all button states for a controller at once.
func (b *Bus) SetControllerButtons(controller int, buttons [8]bool) {
	switch controller {
	case 0, 1:
		b.Input.SetButtons1(buttons)
	case 2:
		b.Input.SetButtons2(buttons)
	}
}

func (b *Bus) EnableInputDebug(enable bool)     { b.Input.EnableDebug(enable) }
func (b *Bus) GetInputState() *input.InputState { return b.Input }

func (b *Bus) GetExecutionLog() []BusExecutionEvent { return b.executionLog }
func (b *Bus) EnableExecutionLogging()              { b.loggingEnabled = true }
func (b *Bus) DisableExecutionLogging()             { b.loggingEnabled = false }
func (b *Bus) ClearExecutionLog()                   { b.executionLog = make([]BusExecutionEvent, 0) }

// BusExecutionEvent represents a single execution step, recorded for tests
// that assert on instruction-level timing.
type BusExecutionEvent struct {
	StepNumber    int
	CPUCycles     uint64
	PPUCycles     uint64
	FrameCount    uint64
	DMAActive     bool
	NMIProcessed  bool
	PCValue       uint16
	InstructionOp uint8
}

// GetCPUState returns a snapshot of the CPU's registers, for tests.
func (b *Bus) GetCPUState() CPUState {
	return CPUState{
		PC:     b.CPU.PC,
		A:      b.CPU.A,
		X:      b.CPU.X,
		Y:      b.CPU.Y,
		SP:     b.CPU.S,
		Cycles: b.cpuCycles,
		Flags: CPUFlags{
			N: b.CPU.N,
			V: b.CPU.V,
			B: b.CPU.B,
			D: b.CPU.D,
			I: b.CPU.I,
			Z: b.CPU.Z,
			C: b.CPU.C,
		},
	}
}

type CPUState struct {
	PC      uint16
	A, X, Y uint8
	SP      uint8
	Cycles  uint64
	Flags   CPUFlags
}

type CPUFlags struct {
	N, V, B, D, I, Z, C bool
}

// GetPPUState returns a snapshot of the PPU's scanline/dot position, for
// tests.
func (b *Bus) GetPPUState() PPUState {
	return PPUState{
		Scanline:    b.PPU.GetScanline(),
		Cycle:       b.PPU.GetCycle(),
		FrameCount:  b.frameCount,
		VBlankFlag:  b.PPU.IsVBlank(),
		RenderingOn: b.isRenderingEnabled(),
		NMIEnabled:  true,
	}
}

type PPUState struct {
	Scanline    int
	Cycle       int
	FrameCount  uint64
	VBlankFlag  bool
	RenderingOn bool
	NMIEnabled  bool
}

// AddMemoryWatchpoint adds a memory address to monitor for changes.
func (b *Bus) AddMemoryWatchpoint(address uint16) {
	if b.Memory != nil {
		b.memoryWatchpoints[address] = b.Memory.Read(address)
	}
}

func (b *Bus) EnableWatchpointLogging(enabled bool) { b.watchpointLogging = enabled }

// SetupDefaultWatchpoints installs a generic set of zero-page and stack-area
// watchpoints useful for tracing any cartridge's RAM variables, not just one
// particular game.
func (b *Bus) SetupDefaultWatchpoints() {
	addresses := []uint16{
		0x0000, 0x0001, 0x0002,
		0x00FD, 0x00FE, 0x00FF,
		0x0700, 0x07FF,
	}
	for _, addr := range addresses {
		b.AddMemoryWatchpoint(addr)
	}
}

// CheckMemoryWatchpoints checks all watchpoints for changes and logs them.
func (b *Bus) CheckMemoryWatchpoints() {
	if !b.watchpointLogging || b.Memory == nil {
		return
	}
	for address, previousValue := range b.memoryWatchpoints {
		currentValue := b.Memory.Read(address)
		if currentValue != previousValue {
			fmt.Printf("watchpoint $%04X changed from $%02X to $%02X at frame %d\n",
				address, previousValue, currentValue, b.frameCount)
			b.memoryWatchpoints[address] = currentValue
		}
	}
}

// EnableCPUDebug toggles bus-level execution logging (the CPU core itself
// has no runtime debug hooks; its state is inspected via GetCPUState).
func (b *Bus) EnableCPUDebug(enable bool) {
	if enable {
		b.EnableExecutionLogging()
	} else {
		b.DisableExecutionLogging()
	}
}

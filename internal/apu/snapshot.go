package apu

// pulseState mirrors PulseChannel for Snapshot/Restore.
type pulseState struct {
	DutyCycle, Volume                                uint8
	EnvelopeLoop, EnvelopeDisable                     bool
	SweepEnable, SweepNegate, SweepReload             bool
	SweepPeriod, SweepShift, SweepCounter             uint8
	Timer, TimerCounter                               uint16
	LengthCounter                                     uint8
	LengthHalt                                        bool
	EnvelopeStart                                     bool
	EnvelopeCounter, EnvelopeDivider                   uint8
	SequencerPos                                      uint8
}

func snapshotPulse(p *PulseChannel) pulseState {
	return pulseState{
		DutyCycle: p.dutyCycle, Volume: p.volume,
		EnvelopeLoop: p.envelopeLoop, EnvelopeDisable: p.envelopeDisable,
		SweepEnable: p.sweepEnable, SweepNegate: p.sweepNegate, SweepReload: p.sweepReload,
		SweepPeriod: p.sweepPeriod, SweepShift: p.sweepShift, SweepCounter: p.sweepCounter,
		Timer: p.timer, TimerCounter: p.timerCounter,
		LengthCounter: p.lengthCounter, LengthHalt: p.lengthHalt,
		EnvelopeStart: p.envelopeStart, EnvelopeCounter: p.envelopeCounter, EnvelopeDivider: p.envelopeDivider,
		SequencerPos: p.sequencerPos,
	}
}

func restorePulse(p *PulseChannel, s pulseState) {
	p.dutyCycle, p.volume = s.DutyCycle, s.Volume
	p.envelopeLoop, p.envelopeDisable = s.EnvelopeLoop, s.EnvelopeDisable
	p.sweepEnable, p.sweepNegate, p.sweepReload = s.SweepEnable, s.SweepNegate, s.SweepReload
	p.sweepPeriod, p.sweepShift, p.sweepCounter = s.SweepPeriod, s.SweepShift, s.SweepCounter
	p.timer, p.timerCounter = s.Timer, s.TimerCounter
	p.lengthCounter, p.lengthHalt = s.LengthCounter, s.LengthHalt
	p.envelopeStart, p.envelopeCounter, p.envelopeDivider = s.EnvelopeStart, s.EnvelopeCounter, s.EnvelopeDivider
	p.sequencerPos = s.SequencerPos
}

type triangleState struct {
	LengthCounterHalt                 bool
	LinearCounterLoad                 uint8
	Timer, TimerCounter                uint16
	LengthCounter                      uint8
	LinearCounter                      uint8
	LinearCounterReload                bool
	SequencerPos                       uint8
}

func snapshotTriangle(t *TriangleChannel) triangleState {
	return triangleState{
		LengthCounterHalt: t.lengthCounterHalt, LinearCounterLoad: t.linearCounterLoad,
		Timer: t.timer, TimerCounter: t.timerCounter, LengthCounter: t.lengthCounter,
		LinearCounter: t.linearCounter, LinearCounterReload: t.linearCounterReload,
		SequencerPos: t.sequencerPos,
	}
}

func restoreTriangle(t *TriangleChannel, s triangleState) {
	t.lengthCounterHalt, t.linearCounterLoad = s.LengthCounterHalt, s.LinearCounterLoad
	t.timer, t.timerCounter, t.lengthCounter = s.Timer, s.TimerCounter, s.LengthCounter
	t.linearCounter, t.linearCounterReload = s.LinearCounter, s.LinearCounterReload
	t.sequencerPos = s.SequencerPos
}

type noiseState struct {
	EnvelopeLoop, EnvelopeDisable bool
	Volume                        uint8
	Mode                          bool
	PeriodIndex                   uint8
	TimerCounter                  uint16
	LengthCounter                 uint8
	LengthHalt                    bool
	EnvelopeStart                 bool
	EnvelopeCounter, EnvelopeDivider uint8
	ShiftRegister                 uint16
}

func snapshotNoise(n *NoiseChannel) noiseState {
	return noiseState{
		EnvelopeLoop: n.envelopeLoop, EnvelopeDisable: n.envelopeDisable, Volume: n.volume,
		Mode: n.mode, PeriodIndex: n.periodIndex, TimerCounter: n.timerCounter,
		LengthCounter: n.lengthCounter, LengthHalt: n.lengthHalt,
		EnvelopeStart: n.envelopeStart, EnvelopeCounter: n.envelopeCounter, EnvelopeDivider: n.envelopeDivider,
		ShiftRegister: n.shiftRegister,
	}
}

func restoreNoise(n *NoiseChannel, s noiseState) {
	n.envelopeLoop, n.envelopeDisable, n.volume = s.EnvelopeLoop, s.EnvelopeDisable, s.Volume
	n.mode, n.periodIndex, n.timerCounter = s.Mode, s.PeriodIndex, s.TimerCounter
	n.lengthCounter, n.lengthHalt = s.LengthCounter, s.LengthHalt
	n.envelopeStart, n.envelopeCounter, n.envelopeDivider = s.EnvelopeStart, s.EnvelopeCounter, s.EnvelopeDivider
	n.shiftRegister = s.ShiftRegister
}

type dmcState struct {
	IrqEnable, Loop         bool
	RateIndex               uint8
	OutputLevel             uint8
	SampleAddress, SampleLength uint16
	TimerCounter            uint16
	SampleBuffer            uint8
	SampleBufferBits        uint8
	SampleBufferEmpty       bool
	BytesRemaining          uint16
	CurrentAddress          uint16
	IrqFlag                 bool
}

func snapshotDMC(d *DMCChannel) dmcState {
	return dmcState{
		IrqEnable: d.irqEnable, Loop: d.loop, RateIndex: d.rateIndex, OutputLevel: d.outputLevel,
		SampleAddress: d.sampleAddress, SampleLength: d.sampleLength, TimerCounter: d.timerCounter,
		SampleBuffer: d.sampleBuffer, SampleBufferBits: d.sampleBufferBits, SampleBufferEmpty: d.sampleBufferEmpty,
		BytesRemaining: d.bytesRemaining, CurrentAddress: d.currentAddress, IrqFlag: d.irqFlag,
	}
}

func restoreDMC(d *DMCChannel, s dmcState) {
	d.irqEnable, d.loop, d.rateIndex, d.outputLevel = s.IrqEnable, s.Loop, s.RateIndex, s.OutputLevel
	d.sampleAddress, d.sampleLength, d.timerCounter = s.SampleAddress, s.SampleLength, s.TimerCounter
	d.sampleBuffer, d.sampleBufferBits, d.sampleBufferEmpty = s.SampleBuffer, s.SampleBufferBits, s.SampleBufferEmpty
	d.bytesRemaining, d.currentAddress, d.irqFlag = s.BytesRemaining, s.CurrentAddress, s.IrqFlag
}

// State is APU's gob-encodable snapshot mirror: the five channels plus the
// frame sequencer, per spec.md §3's ApuState entry. The audio-output ring
// buffer (sampleBuffer []float32, sampleRate, cpuFrequency,
// cycleAccumulator) is deliberately excluded: it's host-audio-pipeline
// configuration re-supplied at construction, not state the "same next
// frame" round-trip law depends on.
type State struct {
	Pulse1, Pulse2 pulseState
	Triangle       triangleState
	Noise          noiseState
	DMC            dmcState

	FrameCounter   uint16
	FiveStepMode   bool
	FrameIRQEnable bool
	FrameIRQFlag   bool
	IRQHoldCycles  uint8
	ChannelEnable  [5]bool
}

// Snapshot captures everything needed to resume audio generation
// deterministically from the same point.
func (apu *APU) Snapshot() State {
	return State{
		Pulse1: snapshotPulse(&apu.pulse1), Pulse2: snapshotPulse(&apu.pulse2),
		Triangle: snapshotTriangle(&apu.triangle), Noise: snapshotNoise(&apu.noise), DMC: snapshotDMC(&apu.dmc),
		FrameCounter: apu.frameCounter, FiveStepMode: apu.fiveStepMode,
		FrameIRQEnable: apu.frameIRQEnable, FrameIRQFlag: apu.frameIRQFlag,
		IRQHoldCycles: apu.irqHoldCycles, ChannelEnable: apu.channelEnable,
	}
}

// Restore reinstates a previously captured snapshot.
func (apu *APU) Restore(s State) {
	restorePulse(&apu.pulse1, s.Pulse1)
	restorePulse(&apu.pulse2, s.Pulse2)
	restoreTriangle(&apu.triangle, s.Triangle)
	restoreNoise(&apu.noise, s.Noise)
	restoreDMC(&apu.dmc, s.DMC)
	apu.frameCounter, apu.fiveStepMode = s.FrameCounter, s.FiveStepMode
	apu.frameIRQEnable, apu.frameIRQFlag = s.FrameIRQEnable, s.FrameIRQFlag
	apu.irqHoldCycles, apu.channelEnable = s.IRQHoldCycles, s.ChannelEnable
}

package dma

import "testing"

type fakeBus struct {
	mem [0x10000]byte
}

func (f *fakeBus) Read(addr uint16) uint8 { return f.mem[addr] }

type fakeOAM struct {
	oam [256]byte
	addr uint8
	writes int
}

func (f *fakeOAM) WriteOAMDMAByte(v uint8) {
	f.oam[f.addr] = v
	f.addr++
	f.writes++
}

func newFixture() (*OamDma, *fakeBus, *fakeOAM) {
	bus := &fakeBus{}
	for i := 0; i < 256; i++ {
		bus.mem[0x0200+i] = uint8(i)
	}
	oam := &fakeOAM{}
	return New(bus, oam), bus, oam
}

func runUntilIdle(d *OamDma, maxCycles int) int {
	cycles := 0
	for d.Active && cycles < maxCycles {
		d.Step()
		cycles++
	}
	return cycles
}

func TestOamDmaEvenAlignmentTakes513Cycles(t *testing.T) {
	d, _, oam := newFixture()
	d.TriggerOAMDMA(0x02, false)
	cycles := runUntilIdle(d, 1000)
	if cycles != 513 {
		t.Fatalf("expected 1 get cycle + 512 read+write cycles = 513 on even start, got %d", cycles)
	}
	if oam.writes != 256 {
		t.Fatalf("expected 256 OAM writes, got %d", oam.writes)
	}
	if oam.oam[0] != 0x00 || oam.oam[255] != 0xFF {
		t.Fatalf("expected identity copy, got oam[0]=%#x oam[255]=%#x", oam.oam[0], oam.oam[255])
	}
}

func TestOamDmaOddAlignmentTakes514Cycles(t *testing.T) {
	d, _, _ := newFixture()
	d.TriggerOAMDMA(0x02, true)
	cycles := runUntilIdle(d, 1000)
	if cycles != 514 {
		t.Fatalf("expected 1 get cycle + 1 alignment cycle + 512 transfer cycles = 514, got %d", cycles)
	}
}

func TestOamDmaDmcPreemptionDuplicatesByte(t *testing.T) {
	d, _, oam := newFixture()
	d.TriggerOAMDMA(0x02, false)

	baseCycles := 0
	preempted := false
	for d.Active {
		if d.Phase == OAMWriting && baseCycles == 50 && !preempted {
			preempted = true
			d.Pause()
			for i := 0; i < 4; i++ {
				// DMC DMA consumes these 4 cycles; OAM DMA does not step.
			}
			d.Resume()
			continue
		}
		d.Step()
		baseCycles++
	}

	if oam.writes != 257 {
		t.Fatalf("expected one duplicated write (257 total), got %d", oam.writes)
	}
}

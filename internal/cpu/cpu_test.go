package cpu

import "testing"

type traceBus struct {
	mem   [0x10000]byte
	trace []access
}

type access struct {
	write bool
	addr  uint16
	value uint8
}

func (b *traceBus) Read(addr uint16) uint8 {
	b.trace = append(b.trace, access{addr: addr, value: b.mem[addr]})
	return b.mem[addr]
}

func (b *traceBus) Write(addr uint16, v uint8) {
	b.trace = append(b.trace, access{write: true, addr: addr, value: v})
	b.mem[addr] = v
}

func newFixture(program ...uint8) (*CPU, *traceBus) {
	bus := &traceBus{}
	for i, b := range program {
		bus.mem[0x8000+i] = b
	}
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80
	c := New(bus)
	c.Reset()
	for len(c.pending) > 0 {
		c.Step()
	}
	bus.trace = nil
	return c, bus
}

func runInstruction(c *CPU, bus *traceBus) {
	c.Step() // fetch
	for len(c.pending) > 0 {
		c.Step()
	}
}

func TestRMWDummyWriteIsVisibleOnTheBus(t *testing.T) {
	// INC $10 at zero page: must write the unmodified value back to $0010
	// before writing the incremented value (spec.md §4.3).
	c, bus := newFixture(0xE6, 0x10)
	bus.mem[0x0010] = 0x41
	runInstruction(c, bus)

	var writes []access
	for _, a := range bus.trace {
		if a.write && a.addr == 0x0010 {
			writes = append(writes, a)
		}
	}
	if len(writes) != 2 {
		t.Fatalf("expected 2 writes to $0010 (dummy then real), got %d", len(writes))
	}
	if writes[0].value != 0x41 {
		t.Fatalf("expected dummy write to carry the unmodified value 0x41, got %#x", writes[0].value)
	}
	if writes[1].value != 0x42 {
		t.Fatalf("expected real write to carry the incremented value 0x42, got %#x", writes[1].value)
	}
	if bus.mem[0x0010] != 0x42 {
		t.Fatalf("expected final memory value 0x42, got %#x", bus.mem[0x0010])
	}
}

func TestAbsoluteXNoPageCrossTakesFourCycles(t *testing.T) {
	// LDA $10F0,X with X=0x01 stays within the same page ($10F1).
	c, bus := newFixture(0xBD, 0xF0, 0x10)
	c.X = 0x01
	bus.mem[0x10F1] = 0x55

	cycles := 1 // fetch already counted
	c.Step()
	for len(c.pending) > 0 {
		c.Step()
		cycles++
	}
	if cycles != 4 {
		t.Fatalf("expected 4 cycles for non-crossing absolute,X, got %d", cycles)
	}
	if c.A != 0x55 {
		t.Fatalf("expected A=0x55, got %#x", c.A)
	}
}

func TestAbsoluteXPageCrossTakesFiveCycles(t *testing.T) {
	// LDA $10FF,X with X=0x01 crosses into page $11.
	c, bus := newFixture(0xBD, 0xFF, 0x10)
	c.X = 0x01
	bus.mem[0x1100] = 0x66

	cycles := 1
	c.Step()
	for len(c.pending) > 0 {
		c.Step()
		cycles++
	}
	if cycles != 5 {
		t.Fatalf("expected 5 cycles for crossing absolute,X, got %d", cycles)
	}
	if c.A != 0x66 {
		t.Fatalf("expected A=0x66, got %#x", c.A)
	}
}

func TestJSRThenRTSRoundTrips(t *testing.T) {
	c, bus := newFixture(0x20, 0x00, 0x90) // JSR $9000
	bus.mem[0x9000] = 0x60                 // RTS

	c.Step()
	for len(c.pending) > 0 {
		c.Step()
	}
	if c.PC != 0x9000 {
		t.Fatalf("expected PC=$9000 after JSR, got %#x", c.PC)
	}

	c.Step()
	for len(c.pending) > 0 {
		c.Step()
	}
	if c.PC != 0x8003 {
		t.Fatalf("expected PC=$8003 after RTS, got %#x", c.PC)
	}
}

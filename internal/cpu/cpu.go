package cpu

// Bus is the capability the CPU needs from the address-space router.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// CPU is a cycle-by-cycle 6502 microstep engine: Step consumes exactly one
// CPU cycle per call, driving the Bus through whatever read/write the
// current instruction's addressing mode needs on that cycle.
type CPU struct {
	A, X, Y, SP, P uint8
	PC             uint16

	Bus Bus

	pending    []func()
	Halted     bool

	// NMI is edge-triggered: nmiLine tracks the raw input so a low->high
	// transition latches nmiPending, which persists until serviced.
	nmiLine    bool
	nmiPending bool

	// IRQ is level-triggered: IRQLine is sampled fresh every fetch cycle.
	IRQLine bool
}

// New constructs a CPU with registers zeroed; PowerOn/Reset establish the
// real power-up state.
func New(bus Bus) *CPU {
	return &CPU{Bus: bus}
}

// Reset applies the effects of the 6502's reset sequence at once: SP drops
// by 3 as for three stack "pushes" that don't actually write (RAM is
// untouched), I is set, and PC is loaded from the reset vector. It takes
// no cycles: no steps are queued, and any pending ones are discarded.
func (c *CPU) Reset() {
	c.SP -= 3
	c.P |= FlagInterruptDisable
	lo := uint16(c.Bus.Read(VectorReset))
	hi := uint16(c.Bus.Read(VectorReset + 1))
	c.PC = hi<<8 | lo
	c.pending = nil
	c.Halted = false
}

// SetNMILine updates the raw NMI input; a false->true transition latches
// an edge that Step will service once the current instruction completes.
func (c *CPU) SetNMILine(high bool) {
	if high && !c.nmiLine {
		c.nmiPending = true
	}
	c.nmiLine = high
}

func (c *CPU) reg() RegSnapshot { return RegSnapshot{A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.P} }

func (c *CPU) apply(r OpcodeResult) {
	if r.SetA {
		c.A = r.A
	}
	if r.SetX {
		c.X = r.X
	}
	if r.SetY {
		c.Y = r.Y
	}
	if r.SetSP {
		c.SP = r.SP
	}
	c.P = r.P | FlagUnused
	if r.Jam {
		c.Halted = true
	}
}

func (c *CPU) push(v uint8) {
	c.Bus.Write(stackPage+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.Bus.Read(stackPage + uint16(c.SP))
}

// Step advances the CPU by exactly one cycle.
func (c *CPU) Step() {
	if c.Halted {
		return
	}
	if len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		next()
		return
	}

	if c.nmiPending {
		c.nmiPending = false
		c.buildInterruptSequence(VectorNMI, false)
		return
	}
	if c.IRQLine && c.P&FlagInterruptDisable == 0 {
		c.buildInterruptSequence(VectorIRQ, false)
		return
	}

	opcode := c.Bus.Read(c.PC)
	c.PC++
	c.decode(opcode)
}

// enqueue appends microsteps to run on subsequent Step calls.
func (c *CPU) enqueue(steps ...func()) { c.pending = append(c.pending, steps...) }

// AtInstructionBoundary reports whether no microsteps are queued, i.e.
// this is a safe point to take a snapshot. The microstep queue holds
// closures over in-flight addressing-mode state, which cannot be
// serialized, so internal/snapshot only saves at a boundary; the
// emulation thread retries a pending SaveState command on the next tick
// if this is false.
func (c *CPU) AtInstructionBoundary() bool { return len(c.pending) == 0 }

// CPUState is CPU's gob-encodable mirror for Snapshot/Restore.
type CPUState struct {
	A, X, Y, SP, P uint8
	PC             uint16
	Halted         bool
	NMILine        bool
	NMIPending     bool
	IRQLine        bool
}

// Snapshot captures register and interrupt-latch state. Must only be
// called when AtInstructionBoundary() is true.
func (c *CPU) Snapshot() CPUState {
	return CPUState{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.P, PC: c.PC,
		Halted: c.Halted, NMILine: c.nmiLine, NMIPending: c.nmiPending, IRQLine: c.IRQLine,
	}
}

// Restore reinstates a previously captured snapshot.
func (c *CPU) Restore(s CPUState) {
	c.A, c.X, c.Y, c.SP, c.P, c.PC = s.A, s.X, s.Y, s.SP, s.P, s.PC
	c.Halted, c.nmiLine, c.nmiPending, c.IRQLine = s.Halted, s.NMILine, s.NMIPending, s.IRQLine
	c.pending = nil
}

func (c *CPU) decode(opcode uint8) {
	info := opcodeTable[opcode]
	switch info.Mnemonic {
	case "JSR":
		c.buildJSR()
		return
	case "RTS":
		c.buildRTS()
		return
	case "RTI":
		c.buildRTI()
		return
	case "BRK":
		c.buildInterruptSequence(VectorIRQ, true)
		return
	case "JMP":
		if info.Mode == ModeIndirect {
			c.buildJMPIndirect()
		} else {
			c.buildJMPAbsolute()
		}
		return
	case "PHA", "PHP":
		c.buildPush(info.Mnemonic)
		return
	case "PLA", "PLP":
		c.buildPull(info.Mnemonic)
		return
	}

	if info.Mode == ModeRelative {
		c.buildBranch(info.Mnemonic)
		return
	}

	c.buildMemoryOp(info)
}

// buildMemoryOp sequences the addressing-mode cycles for every
// load/store/ALU/RMW opcode, per spec.md §4.3's addressing-mode tables.
func (c *CPU) buildMemoryOp(info opcodeInfo) {
	switch info.Mode {
	case ModeImplied:
		c.enqueue(func() {
			c.Bus.Read(c.PC) // dummy read, PC not advanced
			c.finishOp(info.Mnemonic, c.A)
		})
	case ModeAccumulator:
		c.enqueue(func() {
			c.Bus.Read(c.PC)
			r := executeMemoryOp(info.Mnemonic, c.reg(), c.A)
			if r.WriteMem {
				r.SetA, r.A = true, r.MemValue
			}
			c.apply(r)
		})
	case ModeImmediate:
		c.enqueue(func() {
			v := c.Bus.Read(c.PC)
			c.PC++
			c.finishOp(info.Mnemonic, v)
		})
	case ModeZeroPage:
		var addr uint16
		c.enqueue(func() {
			addr = uint16(c.Bus.Read(c.PC))
			c.PC++
		})
		c.buildFinalAccess(info, func() uint16 { return addr })
	case ModeZeroPageX:
		c.buildIndexedZeroPage(info, func() uint8 { return c.X })
	case ModeZeroPageY:
		c.buildIndexedZeroPage(info, func() uint8 { return c.Y })
	case ModeAbsolute:
		var addr uint16
		c.enqueue(
			func() { addr = uint16(c.Bus.Read(c.PC)); c.PC++ },
			func() { addr |= uint16(c.Bus.Read(c.PC)) << 8; c.PC++ },
		)
		c.buildFinalAccess(info, func() uint16 { return addr })
	case ModeAbsoluteX:
		c.buildIndexedAbsolute(info, func() uint8 { return c.X })
	case ModeAbsoluteY:
		c.buildIndexedAbsolute(info, func() uint8 { return c.Y })
	case ModeIndirectX:
		c.buildIndirectX(info)
	case ModeIndirectY:
		c.buildIndirectY(info)
	}
}

func (c *CPU) isStoreOnly(mnemonic string) bool {
	switch mnemonic {
	case "STA", "STX", "STY", "SAX", "SHA", "SHX", "SHY", "TAS":
		return true
	}
	return false
}

// finishOp applies a non-RMW, non-addressed opcode's pure result.
func (c *CPU) finishOp(mnemonic string, operand uint8) {
	c.apply(executeMemoryOp(mnemonic, c.reg(), operand))
}

// buildFinalAccess sequences the read/RMW/write cycles once the effective
// address is known (used once the addressing-mode prefix has computed it).
func (c *CPU) buildFinalAccess(info opcodeInfo, addr func() uint16) {
	if info.RMW {
		var old uint8
		c.enqueue(func() { old = c.Bus.Read(addr()) })
		c.enqueue(func() {
			c.Bus.Write(addr(), old) // dummy write: old value, visible on the bus
		})
		c.enqueue(func() {
			r := executeMemoryOp(info.Mnemonic, c.reg(), old)
			c.Bus.Write(addr(), r.MemValue)
			c.apply(r)
		})
		return
	}
	if c.isStoreOnly(info.Mnemonic) {
		c.enqueue(func() {
			operand := uint8(0)
			switch info.Mnemonic {
			case "SHA", "SHX", "SHY", "TAS":
				// RP2A03G magic-constant combine: these unofficial stores
				// AND the stored value against (effective-address-high + 1).
				operand = uint8(addr()>>8) + 1
			}
			r := executeMemoryOp(info.Mnemonic, c.reg(), operand)
			c.Bus.Write(addr(), r.MemValue)
			c.apply(r)
		})
		return
	}
	c.enqueue(func() {
		v := c.Bus.Read(addr())
		c.finishOp(info.Mnemonic, v)
	})
}

func (c *CPU) buildIndexedZeroPage(info opcodeInfo, index func() uint8) {
	var base uint8
	var addr uint16
	c.enqueue(
		func() { base = c.Bus.Read(c.PC); c.PC++ },
		func() {
			c.Bus.Read(uint16(base)) // dummy read at unindexed address
			addr = uint16(base + index())
		},
	)
	c.buildFinalAccess(info, func() uint16 { return addr })
}

func (c *CPU) buildIndexedAbsolute(info opcodeInfo, index func() uint8) {
	var low, high uint8
	var finalAddr uint16
	crossed := false
	c.enqueue(
		func() { low = c.Bus.Read(c.PC); c.PC++ },
		func() { high = c.Bus.Read(c.PC); c.PC++ },
	)

	if info.RMW || c.isStoreOnly(info.Mnemonic) {
		c.enqueue(func() {
			sum := uint16(low) + uint16(index())
			uncorrected := uint16(high)<<8 | (sum & 0xFF)
			c.Bus.Read(uncorrected) // always pays the speculative read
			finalAddr = uint16(high)<<8 + sum
		})
		c.buildFinalAccess(info, func() uint16 { return finalAddr })
		return
	}

	// Non-RMW load/ALU: the fix-up cycle is only enqueued (at runtime, by
	// this closure itself) when the speculative read landed on the wrong
	// byte, so an uncrossed access genuinely costs one fewer Step() call
	// (spec.md §4.3's "conditional fallthrough").
	c.enqueue(func() {
		sum := uint16(low) + uint16(index())
		crossed = sum > 0xFF
		uncorrected := uint16(high)<<8 | (sum & 0xFF)
		v := c.Bus.Read(uncorrected)
		finalAddr = uint16(high)<<8 + sum
		if !crossed {
			c.finishOp(info.Mnemonic, v)
			return
		}
		c.enqueue(func() {
			v2 := c.Bus.Read(finalAddr)
			c.finishOp(info.Mnemonic, v2)
		})
	})
}

func (c *CPU) buildIndirectX(info opcodeInfo) {
	var ptr, lo uint8
	var addr uint16
	c.enqueue(
		func() { ptr = c.Bus.Read(c.PC); c.PC++ },
		func() { c.Bus.Read(uint16(ptr)) },
		func() { lo = c.Bus.Read(uint16(ptr + c.X)) },
		func() {
			hi := c.Bus.Read(uint16(ptr + c.X + 1))
			addr = uint16(hi)<<8 | uint16(lo)
		},
	)
	c.buildFinalAccess(info, func() uint16 { return addr })
}

func (c *CPU) buildIndirectY(info opcodeInfo) {
	var ptr uint8
	var lo, hi uint8
	var finalAddr uint16
	crossed := false
	c.enqueue(
		func() { ptr = c.Bus.Read(c.PC); c.PC++ },
		func() { lo = c.Bus.Read(uint16(ptr)) },
		func() { hi = c.Bus.Read(uint16(ptr + 1)) },
	)

	if info.RMW || c.isStoreOnly(info.Mnemonic) {
		c.enqueue(func() {
			sum := uint16(lo) + uint16(c.Y)
			uncorrected := uint16(hi)<<8 | (sum & 0xFF)
			c.Bus.Read(uncorrected)
			finalAddr = uint16(hi)<<8 + sum
		})
		c.buildFinalAccess(info, func() uint16 { return finalAddr })
		return
	}

	c.enqueue(func() {
		sum := uint16(lo) + uint16(c.Y)
		crossed = sum > 0xFF
		uncorrected := uint16(hi)<<8 | (sum & 0xFF)
		v := c.Bus.Read(uncorrected)
		finalAddr = uint16(hi)<<8 + sum
		if !crossed {
			c.finishOp(info.Mnemonic, v)
			return
		}
		c.enqueue(func() {
			v2 := c.Bus.Read(finalAddr)
			c.finishOp(info.Mnemonic, v2)
		})
	})
}

// buildBranch sequences Bxx: 2 cycles not taken, 3 taken without a page
// cross, 4 taken with one.
func (c *CPU) buildBranch(mnemonic string) {
	var offset int8
	c.enqueue(func() {
		offset = int8(c.Bus.Read(c.PC))
		c.PC++
		if !c.branchCondition(mnemonic) {
			return
		}
		oldPC := c.PC
		newPC := uint16(int32(oldPC) + int32(offset))
		c.enqueue(func() {
			c.Bus.Read(oldPC) // dummy read on the not-yet-fixed PC
			if oldPC&0xFF00 == newPC&0xFF00 {
				c.PC = newPC
				return
			}
			c.enqueue(func() {
				c.Bus.Read((oldPC & 0xFF00) | (newPC & 0x00FF))
				c.PC = newPC
			})
		})
	})
}

func (c *CPU) branchCondition(mnemonic string) bool {
	switch mnemonic {
	case "BPL":
		return c.P&FlagNegative == 0
	case "BMI":
		return c.P&FlagNegative != 0
	case "BVC":
		return c.P&FlagOverflow == 0
	case "BVS":
		return c.P&FlagOverflow != 0
	case "BCC":
		return c.P&FlagCarry == 0
	case "BCS":
		return c.P&FlagCarry != 0
	case "BNE":
		return c.P&FlagZero == 0
	case "BEQ":
		return c.P&FlagZero != 0
	}
	return false
}

func (c *CPU) buildJMPAbsolute() {
	var lo uint8
	c.enqueue(
		func() { lo = c.Bus.Read(c.PC); c.PC++ },
		func() {
			hi := c.Bus.Read(c.PC)
			c.PC = uint16(hi)<<8 | uint16(lo)
		},
	)
}

func (c *CPU) buildJMPIndirect() {
	var ptrLo, ptrHi, lo uint8
	c.enqueue(
		func() { ptrLo = c.Bus.Read(c.PC); c.PC++ },
		func() { ptrHi = c.Bus.Read(c.PC); c.PC++ },
		func() { lo = c.Bus.Read(uint16(ptrHi)<<8 | uint16(ptrLo)) },
		func() {
			ptr := uint16(ptrHi)<<8 | uint16(ptrLo)
			// Hardware bug: the high-byte fetch wraps within the page
			// instead of crossing into the next one.
			hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
			hi := c.Bus.Read(hiAddr)
			c.PC = uint16(hi)<<8 | uint16(lo)
		},
	)
}

func (c *CPU) buildJSR() {
	var lo uint8
	c.enqueue(
		func() { lo = c.Bus.Read(c.PC); c.PC++ },
		func() { c.Bus.Read(stackPage + uint16(c.SP)) }, // internal delay
		func() { c.push(uint8(c.PC >> 8)) },
		func() { c.push(uint8(c.PC)) },
		func() {
			hi := c.Bus.Read(c.PC)
			c.PC = uint16(hi)<<8 | uint16(lo)
		},
	)
}

func (c *CPU) buildRTS() {
	c.enqueue(
		func() { c.Bus.Read(c.PC) },
		func() { c.Bus.Read(stackPage + uint16(c.SP)) },
		func() {
			lo := c.pop()
			c.enqueue(func() {
				hi := c.pop()
				c.PC = uint16(hi)<<8 | uint16(lo)
				c.enqueue(func() { c.PC++ })
			})
		},
	)
}

func (c *CPU) buildRTI() {
	c.enqueue(
		func() { c.Bus.Read(c.PC) },
		func() { c.Bus.Read(stackPage + uint16(c.SP)) },
		func() { c.P = c.pop() | FlagUnused },
		func() {
			lo := c.pop()
			c.enqueue(func() {
				hi := c.pop()
				c.PC = uint16(hi)<<8 | uint16(lo)
			})
		},
	)
}

func (c *CPU) buildPush(mnemonic string) {
	c.enqueue(
		func() { c.Bus.Read(c.PC) },
		func() {
			if mnemonic == "PHA" {
				c.push(c.A)
			} else {
				c.push(c.P | FlagBreak | FlagUnused)
			}
		},
	)
}

func (c *CPU) buildPull(mnemonic string) {
	c.enqueue(
		func() { c.Bus.Read(c.PC) },
		func() { c.Bus.Read(stackPage + uint16(c.SP)) },
		func() {
			v := c.pop()
			if mnemonic == "PLA" {
				c.A = v
				c.P = setFlag(c.P, FlagZero, zeroFlag(v))
				c.P = setFlag(c.P, FlagNegative, negativeFlag(v))
			} else {
				c.P = (v &^ FlagBreak) | FlagUnused
			}
		},
	)
}

// buildInterruptSequence sequences NMI/IRQ/BRK's shared 7-cycle push of
// PC and P followed by a vector fetch. isBRK distinguishes the one extra
// PC increment and the B flag pushed as set.
func (c *CPU) buildInterruptSequence(vector uint16, isBRK bool) {
	if isBRK {
		c.PC++ // BRK's operand byte is skipped, per the 6502's quirk
	}
	c.enqueue(
		func() {
			if !isBRK {
				c.Bus.Read(c.PC)
			}
		},
		func() { c.push(uint8(c.PC >> 8)) },
		func() { c.push(uint8(c.PC)) },
		func() {
			flags := c.P | FlagUnused
			if isBRK {
				flags |= FlagBreak
			} else {
				flags &^= FlagBreak
			}
			c.push(flags)
		},
		func() {
			c.P |= FlagInterruptDisable
			lo := c.Bus.Read(vector)
			c.enqueue(func() {
				hi := c.Bus.Read(vector + 1)
				c.PC = uint16(hi)<<8 | uint16(lo)
			})
		},
	)
}

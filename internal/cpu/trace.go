package cpu

import (
	"fmt"
	"strings"
)

// registerSnapshot captures A,B,C,D,E,F,H,L,SP at one instant, so
// recordTrace can report the diff the just-executed instruction made
// rather than the raw state either side of it.
type registerSnapshot struct {
	a, b, c, d, e, f, h, l uint8
	sp                     uint16
}

func (c *CPU) snapshotRegisters() registerSnapshot {
	return registerSnapshot{
		a: c.Reg.A, b: c.Reg.B, c: c.Reg.C, d: c.Reg.D, e: c.Reg.E,
		f: c.Reg.F, h: c.Reg.H, l: c.Reg.L, sp: c.SP,
	}
}

// recordTrace appends one line naming the mnemonic at pc and the diff
// the instruction made to A,B,C,D,E,F,H,L,SP, in the classic "PC:
// mnemonic A=.. ->.. ..." diagnostic shape, kept as the last 1024
// lines so a misbehaving ROM's final steps can be inspected after the
// fact.
func (c *CPU) recordTrace(pc uint16, name string, before registerSnapshot) {
	after := c.snapshotRegisters()

	var diff strings.Builder
	diffReg(&diff, "A", before.a, after.a)
	diffReg(&diff, "B", before.b, after.b)
	diffReg(&diff, "C", before.c, after.c)
	diffReg(&diff, "D", before.d, after.d)
	diffReg(&diff, "E", before.e, after.e)
	diffReg(&diff, "F", before.f, after.f)
	diffReg(&diff, "H", before.h, after.h)
	diffReg(&diff, "L", before.l, after.l)
	if before.sp != after.sp {
		fmt.Fprintf(&diff, " SP=%04X->%04X", before.sp, after.sp)
	}

	line := fmt.Sprintf("%04X: %-16s%s", pc, name, diff.String())

	const maxTraceLines = 1024
	c.trace = append(c.trace, line)
	if len(c.trace) > maxTraceLines {
		c.trace = c.trace[len(c.trace)-maxTraceLines:]
	}
}

func diffReg(w *strings.Builder, name string, before, after uint8) {
	if before != after {
		fmt.Fprintf(w, " %s=%02X->%02X", name, before, after)
	}
}

// Trace returns the accumulated trace lines, oldest first.
func (c *CPU) Trace() []string {
	return c.trace
}

package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// defaultMemSize is the access size of parsed memory operands.
const defaultMemSize = 8

// IROp is an IR operation to be matched against the catalog.
type IROp struct {
	Opcode   string
	Operands []Operand
	Flags    Flags
}

// NewIROp creates an operation with the given operands.
func NewIROp(opcode string, operands ...Operand) IROp {
	return IROp{Opcode: opcode, Operands: operands}
}

func (o IROp) String() string {
	if len(o.Operands) == 0 {
		return o.Opcode
	}
	parts := make([]string, len(o.Operands))
	for i, op := range o.Operands {
		parts[i] = op.String()
	}
	return o.Opcode + " " + strings.Join(parts, ", ")
}

// ParseOp parses the textual form of an IR operation:
//
//	add r0, r1, r2
//	load r0, [r1+8]
//	store [r1+r2*4-16], r3
//	push {r4,r5,r6}
//	ldp r0:r1, [r2]
//	vadd <r0,r1>, <r2,r3>
//	jump loop_head
//
// Registers are rN, immediates are decimal or 0x-prefixed (optionally
// preceded by #), and any other identifier is a label.
func ParseOp(text string) (IROp, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return IROp{}, errInvalid(text, "empty operation")
	}

	opcode, rest, _ := strings.Cut(text, " ")
	op := IROp{Opcode: strings.ToLower(opcode)}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return op, nil
	}

	fields, err := splitTopLevel(rest)
	if err != nil {
		return IROp{}, errInvalid(text, err.Error())
	}
	for _, f := range fields {
		operand, err := parseOperand(f)
		if err != nil {
			return IROp{}, errInvalid(text, err.Error())
		}
		op.Operands = append(op.Operands, operand)
	}
	return op, nil
}

// MustParseOp is like ParseOp but panics on malformed input.
func MustParseOp(text string) IROp {
	op, err := ParseOp(text)
	if err != nil {
		panic(err)
	}
	return op
}

// splitTopLevel splits s on commas that are not nested in brackets.
func splitTopLevel(s string) ([]string, error) {
	var (
		fields []string
		stack  []byte
		start  int
	)
	closing := map[byte]byte{'[': ']', '{': '}', '<': '>'}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '[', '{', '<':
			stack = append(stack, closing[c])
		case ']', '}', '>':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return nil, fmt.Errorf("unbalanced %q at column %d", c, i)
			}
			stack = stack[:len(stack)-1]
		case ',':
			if len(stack) == 0 {
				fields = append(fields, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("missing %q", stack[len(stack)-1])
	}
	fields = append(fields, strings.TrimSpace(s[start:]))
	for _, f := range fields {
		if f == "" {
			return nil, fmt.Errorf("empty operand")
		}
	}
	return fields, nil
}

func parseOperand(s string) (Operand, error) {
	switch {
	case strings.HasPrefix(s, "["):
		return parseMem(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
	case strings.HasPrefix(s, "{"):
		return parseRegList(strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}"))
	case strings.HasPrefix(s, "<"):
		inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">"))
		if inner == "" {
			return Vec{}, nil
		}
		fields, err := splitTopLevel(inner)
		if err != nil {
			return nil, err
		}
		vec := make(Vec, 0, len(fields))
		for _, f := range fields {
			elem, err := parseOperand(f)
			if err != nil {
				return nil, err
			}
			vec = append(vec, elem)
		}
		return vec, nil
	}

	if first, second, ok := strings.Cut(s, ":"); ok {
		a, errA := parseReg(first)
		b, errB := parseReg(second)
		if errA != nil || errB != nil {
			return nil, fmt.Errorf("bad register pair %q", s)
		}
		return RegPair{First: a, Second: b}, nil
	}

	if r, err := parseReg(s); err == nil {
		return Reg(r), nil
	}
	if v, err := parseImm(s); err == nil {
		return Imm(v), nil
	}
	if isIdent(s) {
		return Label(s), nil
	}
	return nil, fmt.Errorf("bad operand %q", s)
}

func parseReg(s string) (arch.RegID, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != 'r' {
		return 0, fmt.Errorf("bad register %q", s)
	}
	n, err := strconv.ParseUint(s[1:], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bad register %q", s)
	}
	return arch.RegID(n), nil
}

func parseImm(s string) (int64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	return strconv.ParseInt(s, 0, 64)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '.' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func parseRegList(s string) (Operand, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RegList{}, nil
	}
	var list RegList
	for _, f := range strings.Split(s, ",") {
		r, err := parseReg(f)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, nil
}

// parseMem parses the inside of [base + index*scale +/- disp].
func parseMem(s string) (Operand, error) {
	m := Mem{Scale: 1, Size: defaultMemSize}
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return nil, fmt.Errorf("empty memory operand")
	}

	for len(s) > 0 {
		sign := int64(1)
		switch s[0] {
		case '+':
			s = s[1:]
		case '-':
			sign = -1
			s = s[1:]
		}
		end := strings.IndexAny(s, "+-")
		if end < 0 {
			end = len(s)
		}
		term := s[:end]
		s = s[end:]
		if term == "" {
			return nil, fmt.Errorf("empty term in memory operand")
		}

		if reg, scale, ok := strings.Cut(term, "*"); ok {
			if m.HasIndex || sign < 0 {
				return nil, fmt.Errorf("bad index term %q", term)
			}
			idx, err := parseReg(reg)
			if err != nil {
				return nil, err
			}
			sc, err := strconv.ParseUint(scale, 10, 8)
			if err != nil || (sc != 1 && sc != 2 && sc != 4 && sc != 8) {
				return nil, fmt.Errorf("bad scale %q", scale)
			}
			m.Index, m.HasIndex, m.Scale = idx, true, uint8(sc)
			continue
		}

		if r, err := parseReg(term); err == nil {
			if sign < 0 {
				return nil, fmt.Errorf("negated register %q", term)
			}
			switch {
			case !m.HasBase:
				m.Base, m.HasBase = r, true
			case !m.HasIndex:
				m.Index, m.HasIndex = r, true
			default:
				return nil, fmt.Errorf("too many registers in memory operand")
			}
			continue
		}

		v, err := parseImm(term)
		if err != nil {
			return nil, fmt.Errorf("bad displacement %q", term)
		}
		m.Displacement += sign * v
	}
	return m, nil
}

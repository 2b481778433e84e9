package pattern

// InitializeCommonPatterns registers the bootstrap patterns every catalog
// starts from: add, sub, and, or, load, store and jump. All of them are
// universal.
func (c *Catalog) InitializeCommonPatterns() {
	for _, p := range commonPatterns() {
		if _, err := c.AddPattern(p); err != nil {
			panic(err)
		}
	}
}

// NewCommonCatalog returns a catalog holding only the common patterns.
func NewCommonCatalog() *Catalog {
	c := NewCatalog()
	c.InitializeCommonPatterns()
	return c
}

func threeRegisters() []Operand { return []Operand{Reg(0), Reg(1), Reg(2)} }

func commonPatterns() []Pattern {
	binary := func(id string, cat Category, op string, thr float32) Pattern {
		return NewPattern(id, cat).
			WithOperands(threeRegisters()...).
			WithFlags(Flags{SetsFlags: true}).
			WithSemantics(Semantics{
				Operation:      op,
				Preconditions:  []string{"operands are registers"},
				Postconditions: []string{"dst = src1 " + op + " src2"},
				SideEffects:    []string{"updates condition flags"},
			}).
			WithThroughput(thr)
	}

	return []Pattern{
		binary("add_reg_reg", Arithmetic(ArithAdd), "add", 0.5),
		binary("sub_reg_reg", Arithmetic(ArithSub), "sub", 0.5),
		binary("and_reg_reg", Logical(LogicAnd), "and", 0.33),
		binary("or_reg_reg", Logical(LogicOr), "or", 0.33),

		NewPattern("load_reg_mem", Memory(MemLoad)).
			WithOperands(Reg(0), SimpleMemory(1, 0, 8)).
			WithSemantics(Semantics{
				Operation:      "load",
				Preconditions:  []string{"address is mapped and readable"},
				Postconditions: []string{"dst = mem[addr]"},
			}).
			WithCost(3).
			WithLatency(4),

		NewPattern("store_mem_reg", Memory(MemStore)).
			WithOperands(SimpleMemory(1, 0, 8), Reg(0)).
			WithSemantics(Semantics{
				Operation:      "store",
				Preconditions:  []string{"address is mapped and writable"},
				Postconditions: []string{"mem[addr] = src"},
				SideEffects:    []string{"writes memory"},
			}).
			WithCost(3).
			WithLatency(4),

		NewPattern("jump_label", Branch(BranchUnconditional)).
			WithOperands(Label("target")).
			WithFlags(Flags{Terminal: true}).
			WithSemantics(Semantics{
				Operation:      "jump",
				Postconditions: []string{"pc = target"},
			}),
	}
}

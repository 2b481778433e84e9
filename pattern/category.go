package pattern

import "fmt"

// Kind is the top-level instruction category.
type Kind uint8

const (
	KindArithmetic Kind = iota
	KindLogical
	KindMemory
	KindBranch
	KindVector
	KindSystem
	KindCompare
	KindConvert
	KindOther
)

var kindNames = [...]string{
	KindArithmetic: "arithmetic",
	KindLogical:    "logical",
	KindMemory:     "memory",
	KindBranch:     "branch",
	KindVector:     "vector",
	KindSystem:     "system",
	KindCompare:    "compare",
	KindConvert:    "convert",
	KindOther:      "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type ArithmeticOp uint8

const (
	ArithAdd ArithmeticOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithMod
	ArithNeg
	ArithAbs
	ArithMin
	ArithMax
	ArithSqrt
	ArithPow
)

type LogicalOp uint8

const (
	LogicAnd LogicalOp = iota
	LogicOr
	LogicXor
	LogicNot
	LogicShiftLeft
	LogicShiftRight
	LogicRotateLeft
	LogicRotateRight
	LogicBitTest
	LogicBitField
)

type MemoryOp uint8

const (
	MemLoad MemoryOp = iota
	MemStore
	MemLoadAcquire
	MemStoreRelease
	MemLoadReserved
	MemStoreConditional
	MemSwap
	MemCompareAndSwap
	MemFetchAndOp
	MemPrefetch
	MemCacheOp
)

type BranchOp uint8

const (
	BranchUnconditional BranchOp = iota
	BranchConditional
	BranchIndirect
	BranchCall
	BranchReturn
	BranchJumpTable
	BranchTailCall
	BranchException
	BranchInterrupt
)

type VectorOp uint8

const (
	VecArithmetic VectorOp = iota
	VecLogical
	VecShuffle
	VecBlend
	VecInsert
	VecExtract
	VecReduce
	VecMask
	VecPermute
	VecCompress
)

type SystemOp uint8

const (
	SysSyscall SystemOp = iota
	SysHalt
	SysNop
	SysBarrier
	SysCacheControl
	SysTLBControl
	SysDebug
	SysPerformance
	SysSecurity
)

type CompareOp uint8

const (
	CmpEqual CompareOp = iota
	CmpNotEqual
	CmpLessThan
	CmpLessThanOrEqual
	CmpGreaterThan
	CmpGreaterThanOrEqual
	CmpTest
	CmpCompare
)

type ConvertOp uint8

const (
	ConvIntToFloat ConvertOp = iota
	ConvFloatToInt
	ConvExtend
	ConvTruncate
	ConvSignExtend
	ConvZeroExtend
	ConvFloatToFloat
	ConvIntToInt
)

var subNames = map[Kind][]string{
	KindArithmetic: {
		"add", "sub", "mul", "div", "mod", "neg", "abs", "min", "max", "sqrt", "pow",
	},
	KindLogical: {
		"and", "or", "xor", "not", "shl", "shr", "rol", "ror", "bit-test", "bit-field",
	},
	KindMemory: {
		"load", "store", "load-acquire", "store-release", "load-reserved",
		"store-conditional", "swap", "cas", "fetch-op", "prefetch", "cache-op",
	},
	KindBranch: {
		"unconditional", "conditional", "indirect", "call", "return",
		"jump-table", "tail-call", "exception", "interrupt",
	},
	KindVector: {
		"arithmetic", "logical", "shuffle", "blend", "insert", "extract",
		"reduce", "mask", "permute", "compress",
	},
	KindSystem: {
		"syscall", "halt", "nop", "barrier", "cache-control", "tlb-control",
		"debug", "performance", "security",
	},
	KindCompare: {
		"eq", "ne", "lt", "le", "gt", "ge", "test", "cmp",
	},
	KindConvert: {
		"int-to-float", "float-to-int", "extend", "truncate", "sign-extend",
		"zero-extend", "float-to-float", "int-to-int",
	},
}

// Category classifies an instruction by kind and sub-kind. Name is only set
// for KindOther. Categories are comparable and usable as map keys.
type Category struct {
	Name string
	Kind Kind
	Sub  uint8
}

func Arithmetic(op ArithmeticOp) Category { return Category{Kind: KindArithmetic, Sub: uint8(op)} }
func Logical(op LogicalOp) Category       { return Category{Kind: KindLogical, Sub: uint8(op)} }
func Memory(op MemoryOp) Category         { return Category{Kind: KindMemory, Sub: uint8(op)} }
func Branch(op BranchOp) Category         { return Category{Kind: KindBranch, Sub: uint8(op)} }
func Vector(op VectorOp) Category         { return Category{Kind: KindVector, Sub: uint8(op)} }
func System(op SystemOp) Category         { return Category{Kind: KindSystem, Sub: uint8(op)} }
func Compare(op CompareOp) Category       { return Category{Kind: KindCompare, Sub: uint8(op)} }
func Convert(op ConvertOp) Category       { return Category{Kind: KindConvert, Sub: uint8(op)} }

// Other returns a free-form category.
func Other(name string) Category { return Category{Kind: KindOther, Name: name} }

func (c Category) String() string {
	if c.Kind == KindOther {
		return "other." + c.Name
	}
	if names := subNames[c.Kind]; int(c.Sub) < len(names) {
		return c.Kind.String() + "." + names[c.Sub]
	}
	return fmt.Sprintf("%s.%d", c.Kind, c.Sub)
}

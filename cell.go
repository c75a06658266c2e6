package fe

// Kind identifies what a Cell currently holds. A cell's kind changes only
// free->live on allocation, live->free on sweep, and under macro rewrite,
// which overwrites a pair cell in place with its expansion.
type Kind uint8

const (
	KindPair Kind = iota
	KindFree
	KindNil
	KindNumber
	KindSymbol
	KindString
	KindFunc
	KindMacro
	KindPrim
	KindCFunc
	KindPtr
)

var kindNames = [...]string{
	KindPair:   "pair",
	KindFree:   "free",
	KindNil:    "nil",
	KindNumber: "number",
	KindSymbol: "symbol",
	KindString: "string",
	KindFunc:   "func",
	KindMacro:  "macro",
	KindPrim:   "prim",
	KindCFunc:  "cfunc",
	KindPtr:    "ptr",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// stringChunkSize is how many payload bytes a single String cell holds
// before the chain splices in another cell, one byte short of the 8-byte
// width of the cell's other payload fields; a string chunk costs exactly
// one cell.
const stringChunkSize = 7

// CFunc is a native function the embedder registers as a callable value.
// Arguments have already been evaluated left-to-right into a proper list.
type CFunc func(ctx *Context, args *Cell) (*Cell, error)

// primIndex identifies one of the built-in special forms/operators.
type primIndex int

const (
	primLet primIndex = iota
	primSet
	primIf
	primFn
	primMac
	primWhile
	primQuote
	primAnd
	primOr
	primDo
	primCons
	primCar
	primCdr
	primSetCar
	primSetCdr
	primList
	primNot
	primIs
	primAtom
	primPrint
	primLt
	primLte
	primAdd
	primSub
	primMul
	primDiv
	primCount
)

var primNames = [primCount]string{
	primLet: "let", primSet: "=", primIf: "if", primFn: "fn", primMac: "mac",
	primWhile: "while", primQuote: "quote", primAnd: "and", primOr: "or",
	primDo: "do", primCons: "cons", primCar: "car", primCdr: "cdr",
	primSetCar: "setcar", primSetCdr: "setcdr", primList: "list",
	primNot: "not", primIs: "is", primAtom: "atom", primPrint: "print",
	primLt: "<", primLte: "<=", primAdd: "+", primSub: "-", primMul: "*",
	primDiv: "/",
}

// Cell is the single storage unit for every live value: pairs, numbers,
// symbols, strings, functions, macros, primitives, native functions and
// opaque embedder pointers. Its kind tag selects which payload fields are
// meaningful; unused fields are always the zero value (alloc resets a
// reused cell before handing it back to a constructor).
type Cell struct {
	kind   Kind
	marked bool

	car *Cell
	cdr *Cell

	num  float64
	buf  [stringChunkSize]byte
	prim primIndex
	cfn  CFunc
	fptr any
}

func isNil(c *Cell) bool { return c.kind == KindNil }

// closeParen is a private reader sentinel for an unmatched ')'. It has no
// payload and is compared only by identity, so a single package-level
// instance is safe to share across every Context.
var closeParen = &Cell{}

// reset clears a cell's payload fields, used by alloc to scrub a cell
// reused from the freelist before a constructor retypes it.
func (c *Cell) reset() {
	*c = Cell{}
}

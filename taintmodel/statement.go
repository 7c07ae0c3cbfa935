package taintmodel

// StatementKind is the kind of statement the constraint extractor's
// intermediate statement model distinguishes. This is a JS/TS analogue of
// the teacher's core.StatementType: a flattened, def/use view of a
// function body built once from the AST and then walked repeatedly by the
// constraint extractor and the data-flow tracer's textual fallback.
type StatementKind string

const (
	StatementDeclaration StatementKind = "declaration"
	StatementAssignment  StatementKind = "assignment"
	StatementCall        StatementKind = "call"
	StatementReturn      StatementKind = "return"
	StatementIf          StatementKind = "if"
	StatementPropertyGet StatementKind = "property-access"
)

// Statement is one def/use record extracted from a function body.
type Statement struct {
	Kind       StatementKind
	Location   Location
	Def        string   // identifier this statement defines, if any
	Uses       []string // identifiers this statement reads
	CallTarget string   // "fn" or "obj.method" when Kind == StatementCall
	CallArgs   []string // identifier arguments, by name
	RHSText    string   // textual right-hand side, for the tracer's fallback

	AnnotationTag string // "tainted", "untainted", or "sanitized" from an attached JSDoc tag, if any

	Nested []*Statement // block body (if/function literal bodies, etc.)
}

// AllStatements flattens this statement and everything nested beneath it,
// in depth-first order.
func (s *Statement) AllStatements() []*Statement {
	out := make([]*Statement, 0, 1+len(s.Nested))
	out = append(out, s)
	for _, n := range s.Nested {
		out = append(out, n.AllStatements()...)
	}
	return out
}

// DefUseChain maps every variable name observed in a function to the
// statements that define and use it.
type DefUseChain struct {
	Defs map[string][]*Statement
	Uses map[string][]*Statement
}

func NewDefUseChain() *DefUseChain {
	return &DefUseChain{Defs: make(map[string][]*Statement), Uses: make(map[string][]*Statement)}
}

func (c *DefUseChain) AddDef(name string, s *Statement) {
	if name == "" {
		return
	}
	c.Defs[name] = append(c.Defs[name], s)
}

func (c *DefUseChain) AddUse(name string, s *Statement) {
	if name == "" {
		return
	}
	c.Uses[name] = append(c.Uses[name], s)
}

// CallSite is a recognized call expression, used by the source and sink
// recognition tables.
type CallSite struct {
	Target    string
	Location  Location
	Arguments []Argument
}

// Argument is one argument to a CallSite.
type Argument struct {
	Text       string
	IsVariable bool
	Position   int
}

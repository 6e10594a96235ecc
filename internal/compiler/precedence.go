package compiler

import "github.com/funvibe/squat/internal/value"

// Precedence is the Pratt core's ordered ladder (spec.md §4.3). next()
// implements the "precedence + 1" pattern from spec.md §9 as a checked
// successor that saturates at Primary instead of wrapping.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecTernary
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

func (p Precedence) next() Precedence {
	if p >= PrecPrimary {
		return PrecPrimary
	}
	return p + 1
}

type prefixRule func(c *Compiler, canAssign bool) *value.TypeDescriptor
type infixRule func(c *Compiler, left *value.TypeDescriptor, canAssign bool) *value.TypeDescriptor

type parseRule struct {
	prefix prefixRule
	infix  infixRule
	prec   Precedence
}

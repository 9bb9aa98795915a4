package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// type-expression lexer
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// type-expression parser
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedDelim    Code = 2002
	SynExpectType       Code = 2003
	SynExpectIdentifier Code = 2004
	SynUnknownName      Code = 2005
	SynTypeArgCount     Code = 2006

	// solver degradations
	SolverInfo                Code = 3000
	SolverDepthExceeded       Code = 3001
	SolverIterationLimit      Code = 3002
	SolverTemplateCardinality Code = 3003
	SolverInstantiationDepth  Code = 3004
	SolverUnresolvedDef       Code = 3005
	SolverEvaluationDepth     Code = 3006

	// fixtures
	FixInfo          Code = 4000
	FixRead          Code = 4001
	FixDecode        Code = 4002
	FixDuplicateDecl Code = 4003
	FixAssertFailed  Code = 4004
	FixEvalMismatch  Code = 4005
	FixInferMismatch Code = 4006
	FixBadDecl       Code = 4007

	// configuration
	CfgInfo    Code = 5000
	CfgInvalid Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:               "Unknown error",
		LexInfo:                   "Lexical information",
		LexUnknownChar:            "Unknown character",
		LexUnterminatedString:     "Unterminated string literal",
		LexBadNumber:              "Malformed number literal",
		SynInfo:                   "Syntax information",
		SynUnexpectedToken:        "Unexpected token",
		SynUnclosedDelim:          "Unclosed delimiter",
		SynExpectType:             "Expected a type",
		SynExpectIdentifier:       "Expected an identifier",
		SynUnknownName:            "Cannot find name",
		SynTypeArgCount:           "Wrong number of type arguments",
		SolverInfo:                "Solver information",
		SolverDepthExceeded:       "Relation depth exceeded; assumed compatible",
		SolverIterationLimit:      "Solver iteration limit reached",
		SolverTemplateCardinality: "Template literal expansion too large; widened to string",
		SolverInstantiationDepth:  "Instantiation depth exceeded",
		SolverUnresolvedDef:       "Unresolved declaration treated as any",
		SolverEvaluationDepth:     "Type evaluation depth exceeded",
		FixInfo:                   "Fixture information",
		FixRead:                   "Cannot read fixture",
		FixDecode:                 "Malformed fixture",
		FixDuplicateDecl:          "Duplicate declaration",
		FixAssertFailed:           "Relation assertion failed",
		FixEvalMismatch:           "Evaluation result mismatch",
		FixInferMismatch:          "Inference result mismatch",
		FixBadDecl:                "Invalid declaration",
		CfgInfo:                   "Configuration information",
		CfgInvalid:                "Invalid configuration",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SLV%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("FIX%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

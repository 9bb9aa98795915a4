// Package fuzztests houses Go fuzz harnesses for the type expression reader
// and the solver behind it (source -> lexer -> reader -> session). The goal is
// to smoke test robustness and guard against panics, hangs or runaway
// evaluation on arbitrary inputs.
//
// Seeds come from the type expressions of the fixtures under testdata plus
// a built-in list of shapes that once stressed the reader.
package fuzztests

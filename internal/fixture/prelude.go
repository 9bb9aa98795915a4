package fixture

import "github.com/samber/lo"

// prelude holds the standard utility types every fixture can use unless it
// sets no_prelude. A fixture declaration with the same name replaces the
// prelude entry.
var prelude = []Decl{
	{Name: "PropertyKey", Type: "string | number | symbol"},
	{Name: "Partial", Params: []string{"T"}, Type: "{ [P in keyof T]?: T[P] }"},
	{Name: "Required", Params: []string{"T"}, Type: "{ [P in keyof T]-?: T[P] }"},
	{Name: "Readonly", Params: []string{"T"}, Type: "{ readonly [P in keyof T]: T[P] }"},
	{Name: "Mutable", Params: []string{"T"}, Type: "{ -readonly [P in keyof T]: T[P] }"},
	{Name: "Pick", Params: []string{"T", "K extends keyof T"}, Type: "{ [P in K]: T[P] }"},
	{Name: "Record", Params: []string{"K extends PropertyKey", "T"}, Type: "{ [P in K]: T }"},
	{Name: "Exclude", Params: []string{"T", "U"}, Type: "T extends U ? never : T"},
	{Name: "Extract", Params: []string{"T", "U"}, Type: "T extends U ? T : never"},
	{Name: "Omit", Params: []string{"T", "K extends PropertyKey"}, Type: "Pick<T, Exclude<keyof T, K>>"},
	{Name: "NonNullable", Params: []string{"T"}, Type: "T extends null | undefined ? never : T"},
	{
		Name:   "Parameters",
		Params: []string{"T extends (...args: any) => any"},
		Type:   "T extends (...args: infer P) => any ? P : never",
	},
	{
		Name:   "ReturnType",
		Params: []string{"T extends (...args: any) => any"},
		Type:   "T extends (...args: any) => infer R ? R : any",
	},
	{
		Name:   "ConstructorParameters",
		Params: []string{"T extends abstract new (...args: any) => any"},
		Type:   "T extends abstract new (...args: infer P) => any ? P : never",
	},
	{
		Name:   "InstanceType",
		Params: []string{"T extends abstract new (...args: any) => any"},
		Type:   "T extends abstract new (...args: any) => infer R ? R : any",
	},
}

// withPrelude prepends the prelude entries the fixture does not redeclare.
func withPrelude(decls []Decl) []Decl {
	declared := lo.SliceToMap(decls, func(d Decl) (string, bool) { return d.Name, true })
	kept := lo.Filter(prelude, func(d Decl, _ int) bool { return !declared[d.Name] })
	for i := range kept {
		kept[i].Kind = KindAlias
	}
	return append(kept, decls...)
}

// Package binding loads the variables and functions that expressions are
// evaluated against.
//
// Bindings are read from a YAML (or JSON) document with two optional
// sections. Variables are scalars; functions have named parameters and a
// body written in the expr language ([github.com/expr-lang/expr]), compiled
// once when the document is loaded. Names a body does not declare are read
// from the variables when the function is called:
//
//	variables:
//	  counter: 1
//	  name: fred
//	functions:
//	  whisky:
//	    params: [id, n]
//	    body: 'string(n) + "whisky_" + id'
//
// [Bindings.Context] layers the bindings over [Builtins] for use with
// [lang.AST.Evaluate]:
//
//	b, err := binding.LoadFile(ctx, "bindings.yaml")
//	if err != nil {
//		return err
//	}
//	result, err := ast.Evaluate(ctx, b.Context(), nil)
//
// [Watch] reloads a bindings file each time it is written.
package binding

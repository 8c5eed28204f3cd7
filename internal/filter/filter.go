// Package filter compiles boolean expressions over snapshot records, used
// to select which rows of a snapshot get displayed.
//
// Expressions see the record fields by name:
//
//	comm == "bash" && uid != 0
//	ppid == 1 || state == 8
//	pid > 1000 and comm startsWith "k"
package filter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"ptree/internal/prinfo"
)

// Filter is a compiled record predicate.
type Filter struct {
	src  string
	prog *vm.Program
}

// exprEnv declares the fields available to expressions, for compile-time
// type checking.
func exprEnv() map[string]interface{} {
	return map[string]interface{}{
		"pid":          0,
		"ppid":         0,
		"first_child":  0,
		"next_sibling": 0,
		"uid":          0,
		"state":        0,
		"comm":         "",
	}
}

// Compile pre-compiles an expression. The expression must evaluate to a
// boolean.
func Compile(src string) (*Filter, error) {
	prog, err := expr.Compile(src, expr.Env(exprEnv()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling filter %q: %w", src, err)
	}
	return &Filter{src: src, prog: prog}, nil
}

// Match evaluates the predicate against one record.
func (f *Filter) Match(r prinfo.Record) (bool, error) {
	env := map[string]interface{}{
		"pid":          int(r.PID),
		"ppid":         int(r.ParentPID),
		"first_child":  int(r.FirstChildPID),
		"next_sibling": int(r.NextSiblingPID),
		"uid":          int(r.UID),
		"state":        int(r.State),
		"comm":         r.CommString(),
	}
	out, err := expr.Run(f.prog, env)
	if err != nil {
		return false, fmt.Errorf("evaluating filter %q: %w", f.src, err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, want bool", f.src, out)
	}
	return matched, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.src }

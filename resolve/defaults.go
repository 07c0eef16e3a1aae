package resolve

import (
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/xval/ir"
)

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

func compileDefault(src string) (*vm.Program, error) {
	return expr.Compile(src, exprOpts()...)
}

// evalDefault runs a null= program and converts its result to a node.
func evalDefault(f *FieldInfo) (*ir.Node, error) {
	res, err := expr.Run(f.program, map[string]any{})
	if err != nil {
		return nil, &DefaultError{Field: f.Name, Err: err}
	}
	y, err := ir.FromAny(res)
	if err != nil {
		return nil, &DefaultError{Field: f.Name, Err: err}
	}
	return y, nil
}

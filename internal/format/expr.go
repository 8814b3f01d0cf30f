package format

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompileExpressions turns configured formatter expressions into CustomFuncs.
// Each expression sees the parsed cell value as `value`:
//
//	status: 'value > 12 ? "Critical" : "OK"'
//
// All expressions are compiled up front so that a broken formatter is
// reported at load time instead of rendering as blank cells.
func CompileExpressions(sources map[string]string) (map[string]CustomFunc, error) {
	out := make(map[string]CustomFunc, len(sources))

	for name, src := range sources {
		program, err := expr.Compile(src, expr.Env(exprEnv(0)), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("compile formatter %q: %w", name, err)
		}
		out[name] = runProgram(name, program)
	}

	return out, nil
}

func runProgram(name string, program *vm.Program) CustomFunc {
	return func(value float64) (any, error) {
		result, err := expr.Run(program, exprEnv(value))
		if err != nil {
			return nil, fmt.Errorf("evaluate formatter %q: %w", name, err)
		}
		return result, nil
	}
}

func exprEnv(value float64) map[string]any {
	return map[string]any{"value": value}
}

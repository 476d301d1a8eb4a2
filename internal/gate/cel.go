package gate

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Evaluator compiles and runs ignore expressions against a captured error.
// Expressions see class, message, file, line and environment.
type Evaluator struct {
	env      *cel.Env
	programs map[string]cel.Program
}

func NewEvaluator(expressions []string) (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("class", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("file", cel.StringType),
		cel.Variable("line", cel.IntType),
		cel.Variable("environment", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	e := &Evaluator{
		env:      env,
		programs: make(map[string]cel.Program, len(expressions)),
	}

	for _, expression := range expressions {
		program, err := e.compile(expression)
		if err != nil {
			return nil, err
		}
		e.programs[expression] = program
	}

	return e, nil
}

func (e *Evaluator) compile(expression string) (cel.Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile ignore expression %q: %w", expression, issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("ignore expression %q must return bool, got %v", expression, ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program for %q: %w", expression, err)
	}

	return program, nil
}

// Matches reports whether any compiled expression evaluates true for the
// event. Evaluation errors fail open: the expression is skipped.
func (e *Evaluator) Matches(ctx context.Context, class, message, file string, line int, environment string) (bool, error) {
	vars := map[string]interface{}{
		"class":       class,
		"message":     message,
		"file":        file,
		"line":        line,
		"environment": environment,
	}

	var lastErr error
	for expression, program := range e.programs {
		result, _, err := program.ContextEval(ctx, vars)
		if err != nil {
			lastErr = fmt.Errorf("failed to evaluate ignore expression %q: %w", expression, err)
			continue
		}

		if matched, ok := result.Value().(bool); ok && matched {
			return true, nil
		}
	}

	return false, lastErr
}

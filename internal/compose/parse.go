package compose

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// Parse turns one line of shell text into a Command: a plain command
// becomes a single stage, a pipe-chain becomes a pipeline. Anything
// beyond simple commands and pipes (redirects, logic operators,
// expansions) is rejected; callers wanting full shell semantics should
// compose a SingleStage invoking a shell themselves.
func Parse(line string) (Command, error) {
	if strings.TrimSpace(line) == "" {
		return None(), nil
	}

	f, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return None(), fmt.Errorf("parse command: %w", err)
	}
	if len(f.Stmts) != 1 {
		return None(), fmt.Errorf("expected a single command, got %d statements", len(f.Stmts))
	}

	var stages [][]string
	if err := flattenPipe(f.Stmts[0], &stages); err != nil {
		return None(), err
	}
	if len(stages) == 1 {
		return SingleStage(stages[0]...), nil
	}
	return Pipeline(stages...), nil
}

func flattenPipe(stmt *syntax.Stmt, stages *[][]string) error {
	if len(stmt.Redirs) > 0 {
		return fmt.Errorf("redirects are not supported")
	}
	if stmt.Negated || stmt.Background {
		return fmt.Errorf("unsupported shell construct")
	}

	switch x := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		if len(x.Assigns) > 0 {
			return fmt.Errorf("environment assignments are not supported")
		}
		args, err := literalArgs(x.Args)
		if err != nil {
			return err
		}
		*stages = append(*stages, args)
		return nil
	case *syntax.BinaryCmd:
		if x.Op != syntax.Pipe {
			return fmt.Errorf("unsupported shell operator %q", x.Op.String())
		}
		if err := flattenPipe(x.X, stages); err != nil {
			return err
		}
		return flattenPipe(x.Y, stages)
	default:
		return fmt.Errorf("unsupported shell construct %T", stmt.Cmd)
	}
}

func literalArgs(words []*syntax.Word) ([]string, error) {
	cfg := &expand.Config{Env: expand.FuncEnviron(func(string) string { return "" })}
	args := make([]string, 0, len(words))
	for _, w := range words {
		lit, err := expand.Literal(cfg, w)
		if err != nil {
			return nil, fmt.Errorf("expand argument: %w", err)
		}
		args = append(args, lit)
	}
	return args, nil
}

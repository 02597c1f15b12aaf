package driver

import (
	"context"
	"fmt"
	"time"

	"plinth/internal/ast"
	"plinth/internal/builtins"
	"plinth/internal/codegen"
	"plinth/internal/diag"
	"plinth/internal/source"
	"plinth/internal/trace"
)

// GenerateOptions tunes Generate.
type GenerateOptions struct {
	Tracing  trace.Tracing
	Progress ProgressSink
	Reporter diag.Reporter
}

// Generate builds the code generation context for an analysed project over
// the prelude. Each prelude entry redefined by a checked module is reported
// with GenShadowedBuiltin, and a project without validators gets
// GenNoValidators.
func Generate(ctx context.Context, res *Result, opts GenerateOptions) *codegen.Context {
	start := time.Now()
	emit(opts.Progress, Event{Stage: StageGenerate, Status: StatusWorking})

	fns := builtins.Functions()
	types := builtins.DataTypes()
	reportShadowed(res, fns, types, opts.Reporter)

	validators := 0
	for range res.Checked.Validators() {
		validators++
	}
	if validators == 0 {
		diag.ReportWarning(opts.Reporter, diag.GenNoValidators, "", source.Span{},
			fmt.Sprintf("no validators among %d checked modules", res.Checked.Len())).Emit()
	}

	gc := res.Checked.NewGeneratorContext(ctx, fns, types, res.ModuleTypes, opts.Tracing)
	emit(opts.Progress, Event{Stage: StageGenerate, Status: StatusDone, Elapsed: time.Since(start)})
	return gc
}

func reportShadowed(
	res *Result,
	fns map[ast.FunctionAccessKey]*ast.Function,
	types map[ast.DataTypeKey]*ast.DataType,
	r diag.Reporter,
) {
	for name, module := range res.Checked.All() {
		for _, def := range module.AST.Definitions {
			switch d := def.(type) {
			case *ast.Function:
				key := ast.FunctionAccessKey{ModuleName: name, FunctionName: d.Name}
				if _, ok := fns[key]; ok {
					diag.ReportWarning(r, diag.GenShadowedBuiltin, name, d.Span,
						fmt.Sprintf("function %s replaces the builtin of the same name", key)).Emit()
				}
			case *ast.DataType:
				key := ast.DataTypeKey{ModuleName: name, DefinedType: d.Name}
				if _, ok := types[key]; ok {
					diag.ReportWarning(r, diag.GenShadowedBuiltin, name, d.Span,
						fmt.Sprintf("type %s replaces the builtin of the same name", key)).Emit()
				}
			}
		}
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"plinth/internal/codegen"
	"plinth/internal/diag"
	"plinth/internal/driver"
	"plinth/internal/source"
	"plinth/internal/trace"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [modules.toml]",
	Short: "Show the code generation context of a project",
	Long:  `Check the project, merge its functions and data types over the builtins and print the resulting symbol tables`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSymbols,
}

func init() {
	addOutputFlags(symbolsCmd)
	symbolsCmd.Flags().String("trace-filter", "all", "which traces code generation keeps (user-defined|compiler-generated|all)")
	symbolsCmd.Flags().String("trace-verbosity", "silent", "how much of the kept traces remains (silent|compact|verbose)")
	symbolsCmd.Flags().Bool("verbose-traces", false, "keep every trace with its full message")
	symbolsCmd.Flags().String("snapshot", "", "write the context snapshot (msgpack) to this file")
}

type symbolJSON struct {
	Key      string `json:"key"`
	Location string `json:"location"`
}

type symbolsPayload struct {
	TraceLevel string       `json:"trace_level"`
	Modules    []string     `json:"modules"`
	Functions  []symbolJSON `json:"functions"`
	DataTypes  []symbolJSON `json:"data_types"`
}

func readTracing(cmd *cobra.Command) (trace.Tracing, error) {
	verbose, err := cmd.Flags().GetBool("verbose-traces")
	if err != nil {
		return trace.Tracing{}, fmt.Errorf("failed to get verbose-traces flag: %w", err)
	}
	if verbose {
		return trace.VerboseTracing(true), nil
	}
	filter, err := cmd.Flags().GetString("trace-filter")
	if err != nil {
		return trace.Tracing{}, fmt.Errorf("failed to get trace-filter flag: %w", err)
	}
	verbosity, err := cmd.Flags().GetString("trace-verbosity")
	if err != nil {
		return trace.Tracing{}, fmt.Errorf("failed to get trace-verbosity flag: %w", err)
	}
	return trace.ParseTracing(filter, verbosity)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	tracing, err := readTracing(cmd)
	if err != nil {
		return err
	}
	snapshotPath, err := cmd.Flags().GetString("snapshot")
	if err != nil {
		return fmt.Errorf("failed to get snapshot flag: %w", err)
	}

	bag := newBag(cmd)
	in, err := loadProject(args, bag)
	if err != nil {
		if bag.Len() > 0 {
			_ = printDiagnostics(cmd, bag, nil, opts)
		}
		return err
	}

	res, err := analyzeProject(cmd, in, bag)
	if err != nil {
		_ = printDiagnostics(cmd, bag, in.sources(), opts)
		return err
	}
	gc := driver.Generate(cmd.Context(), res, driver.GenerateOptions{
		Tracing:  tracing,
		Reporter: diag.BagReporter{Bag: bag},
	})

	if snapshotPath != "" {
		data, err := gc.MarshalBinary()
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		if err := os.WriteFile(snapshotPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	payload := buildSymbolsPayload(gc)
	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	if err := printDiagnostics(cmd, bag, in.sources(), opts); err != nil {
		return err
	}
	renderSymbols(cmd.OutOrStdout(), payload)
	return nil
}

func buildSymbolsPayload(gc *codegen.Context) symbolsPayload {
	payload := symbolsPayload{
		TraceLevel: gc.TraceLevel().String(),
		Modules:    gc.ModuleNames(),
		Functions:  []symbolJSON{},
		DataTypes:  []symbolJSON{},
	}
	for _, key := range gc.FunctionKeys() {
		fn, _ := gc.Function(key)
		payload.Functions = append(payload.Functions, symbolJSON{
			Key:      key.String(),
			Location: symbolLocation(gc, key.ModuleName, fn.Span),
		})
	}
	for _, key := range gc.DataTypeKeys() {
		dt, _ := gc.DataType(key)
		payload.DataTypes = append(payload.DataTypes, symbolJSON{
			Key:      key.String(),
			Location: symbolLocation(gc, key.ModuleName, dt.Span),
		})
	}
	return payload
}

func symbolLocation(gc *codegen.Context, module string, span source.Span) string {
	start, _, ok := gc.Locate(module, span)
	if !ok {
		return "builtin"
	}
	return fmt.Sprintf("%s:%d:%d", module, start.Line, start.Col)
}

func renderSymbols(out io.Writer, payload symbolsPayload) {
	heading := color.New(color.Bold)
	fmt.Fprintf(out, "%s %s\n", heading.Sprint("trace level:"), payload.TraceLevel)
	fmt.Fprintf(out, "%s %d\n", heading.Sprint("modules:"), len(payload.Modules))

	fmt.Fprintln(out, heading.Sprint("functions:"))
	for _, s := range payload.Functions {
		fmt.Fprintf(out, "  %-40s %s\n", s.Key, color.New(color.Faint).Sprint(s.Location))
	}
	fmt.Fprintln(out, heading.Sprint("data types:"))
	for _, s := range payload.DataTypes {
		fmt.Fprintf(out, "  %-40s %s\n", s.Key, color.New(color.Faint).Sprint(s.Location))
	}
}

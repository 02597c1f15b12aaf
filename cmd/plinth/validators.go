package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validatorsCmd = &cobra.Command{
	Use:   "validators [modules.toml]",
	Short: "List the validators of a project",
	Long:  `Check the project and list every validator ordered by package, module and handler name`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidators,
}

func init() {
	addOutputFlags(validatorsCmd)
}

type validatorJSON struct {
	Package string   `json:"package"`
	Module  string   `json:"module"`
	Handler string   `json:"handler"`
	Else    string   `json:"else,omitempty"`
	Params  []string `json:"params,omitempty"`
}

func runValidators(cmd *cobra.Command, args []string) error {
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
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

	list := []validatorJSON{}
	for m, v := range res.Checked.Validators() {
		item := validatorJSON{Package: m.Package, Module: m.Name, Handler: v.Name()}
		if v.OtherFun != nil {
			item.Else = v.OtherFun.Name
		}
		for _, p := range v.Params {
			item.Params = append(item.Params, p.Label+": "+p.Annotation)
		}
		list = append(list, item)
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "no validators")
		return nil
	}
	for _, v := range list {
		fmt.Fprintf(out, "%s %s.%s", color.New(color.Faint).Sprint(v.Package), v.Module, color.New(color.Bold).Sprint(v.Handler))
		if v.Else != "" {
			fmt.Fprintf(out, " (else %s)", v.Else)
		}
		fmt.Fprintln(out)
	}
	return nil
}

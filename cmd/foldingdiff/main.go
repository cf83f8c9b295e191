// Package main provides the foldingdiff-go CLI.
package main

import (
	"fmt"
	"os"

	"github.com/amrhamedp/foldingdiff/checkpoint"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("foldingdiff-go %s\n", version)
			return
		case "validate":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "usage: foldingdiff validate <checkpoint-dir>")
				os.Exit(2)
			}
			if err := validate(os.Args[2]); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("foldingdiff-go - Protein Backbone Diffusion for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                    Show version")
	fmt.Println("  validate <checkpoint-dir>  Validate a model checkpoint")
	fmt.Println("")
	fmt.Println("Training and sampling orchestration live outside this tool;")
	fmt.Println("see the diffusion and structure packages.")
}

func validate(dir string) error {
	ck, err := checkpoint.Load(dir)
	if err != nil {
		return err
	}
	sched, err := ck.Schedule()
	if err != nil {
		return err
	}
	fmt.Printf("checkpoint %s: ok\n", dir)
	fmt.Printf("  schedule:  %s, T=%d, beta in [%g, %g]\n",
		ck.Config.Schedule, sched.Timesteps(), ck.Config.BetaMin, ck.Config.BetaMax)
	fmt.Printf("  angle set: %s\n", ck.Config.AngleSet)
	fmt.Printf("  weights:   %s\n", ck.WeightsPath())
	return nil
}

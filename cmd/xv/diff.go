package main

import (
	"fmt"

	"github.com/signadot/xval"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := cfg.getDoc(cc, args[0])
	if err != nil {
		return err
	}
	b, err := cfg.getDoc(cc, args[1])
	if err != nil {
		return err
	}
	d, err := xval.Diff(a, b)
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}
	colors := cfg.Color || (!cfg.colorSet() && isTerminal(cc.Out))
	if err := d.Write(cc.Out, colors); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

package main

import (
	"fmt"

	"github.com/signadot/xval"
	"github.com/signadot/xval/parse"

	"github.com/scott-cotton/cli"
)

func cite(cfg *CiteConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cite.Parse(cc, args)
	if err != nil {
		cfg.Cite.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: cite requires a path", cli.ErrUsage)
	}
	path, err := inputArg(args[1:])
	if err != nil {
		return err
	}
	y, err := cfg.getDoc(cc, path, parse.ParseAnnotations(true))
	if err != nil {
		return err
	}
	c, err := xval.Cite(y, args[0], path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cc.Out, c)
	return err
}

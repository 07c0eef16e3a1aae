package main

import (
	"fmt"

	"github.com/signadot/xval/debug"
	"github.com/signadot/xval/encode"
	"github.com/signadot/xval/parse"

	"github.com/scott-cotton/cli"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		cfg.Convert.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	path, err := inputArg(args)
	if err != nil {
		return err
	}
	y, err := cfg.getDoc(cc, path, parse.ParseAll(cfg.All))
	if err != nil {
		return err
	}
	if debug.Convert() {
		debug.Logf("convert %s -> %s\n", cfg.inFormat(path), cfg.outFormat())
	}
	if err := encode.Encode(y, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	return nil
}

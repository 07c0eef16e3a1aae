package main

import (
	"fmt"

	"github.com/signadot/xval"
	"github.com/signadot/xval/encode"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file", cli.ErrUsage)
	}
	p, err := cfg.readInput(cc, args[0])
	if err != nil {
		return err
	}
	path, err := inputArg(args[1:])
	if err != nil {
		return err
	}
	if path == "-" && args[0] == "-" {
		return fmt.Errorf("%w: patch and document cannot both be stdin", cli.ErrUsage)
	}
	target, err := cfg.getDoc(cc, path)
	if err != nil {
		return err
	}
	apply := xval.Patch
	if cfg.Merge {
		apply = xval.MergePatch
	}
	res, err := apply(target, p)
	if err != nil {
		return fmt.Errorf("error patching %s with %s: %w", path, args[0], err)
	}
	return encode.Encode(res, cc.Out, cfg.encOpts(cc.Out)...)
}

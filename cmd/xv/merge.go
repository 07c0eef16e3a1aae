package main

import (
	"fmt"

	"github.com/signadot/xval/encode"
	"github.com/signadot/xval/ir"
	"github.com/signadot/xval/merge"

	"github.com/scott-cotton/cli"
)

func mergeFiles(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		cfg.Merge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	mode, err := cfg.mode()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: merge requires at least one file", cli.ErrUsage)
	}
	docs := make([]*ir.Node, 0, len(args))
	for _, arg := range args {
		y, err := cfg.getDoc(cc, arg)
		if err != nil {
			return err
		}
		docs = append(docs, y)
	}
	log := cmdLog("merge")
	conflicts := 0
	res, err := merge.Overlay(mode, func(e *merge.ExistsError) error {
		conflicts++
		log.Warn("conflict", "error", e)
		return nil
	}, docs...)
	if err != nil {
		return err
	}
	if err := encode.Encode(res, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return err
	}
	if conflicts > 0 {
		log.Error("failed", "conflicts", conflicts)
		return cli.ExitCodeErr(1)
	}
	return nil
}

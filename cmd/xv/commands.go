package main

import (
	"time"

	"github.com/scott-cotton/cli"
)

const formatNames = "yaml/yml, json, xjson, xml, cbor, messagepack/msgpack"

func MainCommand() *cli.Command {
	cfg := &MainConfig{Timeout: 10 * time.Second}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: " + formatNames,
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: " + formatNames,
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}, &cli.Opt{
			Name:        "timeout",
			Description: "timeout for fetching URLs (default 10s)",
			Type:        cli.NamedFuncOpt(cfg.timeoutOpt, "(duration)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "xv").
		WithSynopsis("xv [opts] command [opts]").
		WithDescription("xv converts, merges, patches and compares data documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xvMain(cfg, cc, args)
		}).
		WithSubs(
			ConvertCommand(cfg),
			MergeCommand(cfg),
			PatchCommand(cfg),
			DiffCommand(cfg),
			CiteCommand(cfg))
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c", "conv").
		WithSynopsis("convert [file|url|-]").
		WithDescription("read a document and write it in the output format").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

func MergeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MergeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Merge, "merge").
		WithAliases("m").
		WithSynopsis("merge [-list append|skip|fail|replace] [-map override|fail] files...").
		WithDescription("overlay documents from left to right").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mergeFiles(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p", "pa").
		WithSynopsis("patch [-m] <patch.json> [file]").
		WithDescription("apply an RFC 6902 JSON patch, or with -m an RFC 7386 merge patch").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff a b").
		WithDescription("line diff of two documents; exits 1 when they differ").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func CiteCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CiteConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Cite, "cite").
		WithSynopsis("cite <path> [file]").
		WithDescription("print the source position of the node at path").
		WithRun(func(cc *cli.Context, args []string) error {
			return cite(cfg, cc, args)
		})
}

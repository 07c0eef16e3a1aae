package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/signadot/xval/encode"
	"github.com/signadot/xval/format"
	"github.com/signadot/xval/merge"
	"github.com/signadot/xval/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Pretty   bool `cli:"name=pretty desc='indent json and xml output'"`
	Indent   int  `cli:"name=indent desc='indentation width (default 2)'"`
	Strict   bool `cli:"name=strict desc='write yaml that yaml 1.1 and 1.2 readers agree on'"`
	Base64   bool `cli:"name=base64 desc='wrap output in base64 text'"`
	Base64In bool `cli:"name=base64in desc='input is wrapped in base64 text'"`
	Color    bool `cli:"name=color desc='encode json with color'"`
	Verbose  bool `cli:"name=v aliases=verbose desc='log each input read'"`

	InFormat, OutFormat *format.Format
	Timeout             time.Duration

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat is -I, else the format named by path's extension, else YAML.
func (cfg *MainConfig) inFormat(path string) format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	if f, ok := format.FromPath(stripQuery(path)); ok {
		return f
	}
	return format.YAMLFormat
}

// outFormat is -O, else the format named by the -o file, else YAML.
func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	if cfg.Out != "" && cfg.Out != "-" {
		if f, ok := format.FromPath(cfg.Out); ok {
			return f
		}
	}
	return format.YAMLFormat
}

func (cfg *MainConfig) parseOpts(path string) []parse.ParseOption {
	return []parse.ParseOption{
		parse.ParseFormat(cfg.inFormat(path)),
		parse.ParseBase64(cfg.Base64In),
		parse.ParseSource(path),
	}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.outFormat()),
		encode.EncodePretty(cfg.Pretty),
		encode.EncodeIndent(cfg.Indent),
		encode.EncodeStrict(cfg.Strict),
		encode.EncodeBase64(cfg.Base64),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	if cfg.colorSet() || cfg.Base64 {
		return res
	}
	if isTerminal(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// colorSet reports whether -color was given explicitly, including as
// -color=false.
func (cfg *MainConfig) colorSet() bool {
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		return opt.Value != nil
	}
	return false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ConvertConfig struct {
	*MainConfig
	All bool `cli:"name=all desc='read every document of a stream into a list'"`

	Convert *cli.Command
}

type MergeConfig struct {
	*MainConfig
	List string `cli:"name=list desc='list policy: append, skip, fail, replace'"`
	Map  string `cli:"name=map desc='map policy: override, fail'"`

	Merge *cli.Command
}

func (cfg *MergeConfig) mode() (merge.Mode, error) {
	var m merge.Mode
	switch cfg.List {
	case "", "append":
		m.List = merge.Append
	case "skip":
		m.List = merge.SkipExisting
	case "fail":
		m.List = merge.FailExisting
	case "replace":
		m.List = merge.Replace
	default:
		return m, fmt.Errorf("%w: unknown list policy %q", cli.ErrUsage, cfg.List)
	}
	switch cfg.Map {
	case "", "override":
		m.Map = merge.MapOverride
	case "fail":
		m.Map = merge.MapFailExisting
	default:
		return m, fmt.Errorf("%w: unknown map policy %q", cli.ErrUsage, cfg.Map)
	}
	return m, nil
}

type PatchConfig struct {
	*MainConfig
	Merge bool `cli:"name=m aliases=merge desc='patch is an RFC 7386 merge patch'"`

	Patch *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type CiteConfig struct {
	*MainConfig

	Cite *cli.Command
}

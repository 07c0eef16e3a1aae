package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/signadot/xval/ir"
	"github.com/signadot/xval/parse"

	"github.com/scott-cotton/cli"
)

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// stripQuery drops the query and fragment of a URL so its extension can
// name a format.
func stripQuery(path string) string {
	if !isURL(path) {
		return path
	}
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	return u.Path
}

// readInput reads a file, an http(s) URL, or stdin when path is "-".
func (cfg *MainConfig) readInput(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	switch {
	case path == "-":
		r = cc.In
	case isURL(path):
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("url %s gave %d/%s", path, resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		r = resp.Body
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

func (cfg *MainConfig) getDoc(cc *cli.Context, path string, opts ...parse.ParseOption) (*ir.Node, error) {
	d, err := cfg.readInput(cc, path)
	if err != nil {
		return nil, err
	}
	y, err := parse.Parse(d, append(cfg.parseOpts(path), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	theLog.Debug("read", "input", path, "format", cfg.inFormat(path), "bytes", len(d))
	return y, nil
}

// inputArg returns the single optional input argument, defaulting to stdin.
func inputArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "-", nil
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("%w: expected at most one input, got %v", cli.ErrUsage, args)
}

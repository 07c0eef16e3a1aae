package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Hints   bool
	Resolve bool
	Merge   bool
	Convert bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("XVAL_DEBUG_PARSE")
	d.Hints = boolEnv("XVAL_DEBUG_HINTS")
	d.Resolve = boolEnv("XVAL_DEBUG_RESOLVE")
	d.Merge = boolEnv("XVAL_DEBUG_MERGE")
	d.Convert = boolEnv("XVAL_DEBUG_CONVERT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Hints() bool {
	return d.Hints
}
func Resolve() bool {
	return d.Resolve
}
func Merge() bool {
	return d.Merge
}
func Convert() bool {
	return d.Convert
}

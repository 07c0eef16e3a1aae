// Package hint defines the XJSON hint keys.
//
// XJSON is JSON in which a single-entry object whose key is a hint stands
// for a value plain JSON cannot express:
//
//	{"$hint.int": "-7"}               signed integer
//	{"$hint.uint": "7"}               unsigned integer
//	{"$hint.bytes": "AAEC"}           Base64 byte string
//	{"$hint.float": "NaN"}            non-finite float (NaN, +Inf, -Inf)
//	{"$hint.map": [[[1, 2], "v"]]}    map with non-string keys
//
// A literal key that looks like a hint is escaped by adding a '$', and
// readers remove exactly one '$' from keys with two or more.
package hint

const (
	Int   = "$hint.int"
	Uint  = "$hint.uint"
	Bytes = "$hint.bytes"
	Float = "$hint.float"
	Map   = "$hint.map"
)

// Name returns the hint a key names and its number of leading '$'
// characters, or "", 0 if the key is not hint-like.
func Name(key string) (string, int) {
	n := 0
	for n < len(key) && key[n] == '$' {
		n++
	}
	if n == 0 {
		return "", 0
	}
	switch h := "$" + key[n:]; h {
	case Int, Uint, Bytes, Float, Map:
		return h, n
	}
	return "", 0
}

// Escape returns key with one more '$' if it is hint-like.
func Escape(key string) string {
	if _, n := Name(key); n > 0 {
		return "$" + key
	}
	return key
}

// Unescape removes one '$' from an escaped key. It reports false for keys
// that are not escaped, including unescaped hints.
func Unescape(key string) (string, bool) {
	if _, n := Name(key); n > 1 {
		return key[1:], true
	}
	return key, false
}

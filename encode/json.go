package encode

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/signadot/xval/ir"
)

type jsonWriter struct {
	buf    bytes.Buffer
	pretty bool
	indent int
	depth  int
	colors *Colors
}

// encodeJSON writes a projected tree. Map order is kept, which is why the
// tree is not handed to a reflection based marshaller.
func (s *Serializer) encodeJSON(w io.Writer, y *ir.Node) error {
	jw := &jsonWriter{pretty: s.Pretty, indent: s.indent(), colors: s.Colors}
	if err := jw.value(y); err != nil {
		return err
	}
	jw.buf.WriteByte('\n')
	_, err := w.Write(jw.buf.Bytes())
	return err
}

func (jw *jsonWriter) sep(t ir.Type, s string) {
	jw.buf.WriteString(jw.colors.Color(t, SepColor, s))
}

func (jw *jsonWriter) newline() {
	if !jw.pretty {
		return
	}
	jw.buf.WriteByte('\n')
	jw.buf.WriteString(strings.Repeat(" ", jw.depth*jw.indent))
}

func (jw *jsonWriter) scalar(t ir.Type, lit string) {
	jw.buf.WriteString(jw.colors.Color(t, ValueColor, lit))
}

func (jw *jsonWriter) value(y *ir.Node) error {
	switch y.Type {
	case ir.UndefinedType:
		return ErrUndefined
	case ir.NullType:
		jw.scalar(y.Type, "null")
	case ir.BoolType:
		jw.scalar(y.Type, strconv.FormatBool(y.Bool))
	case ir.IntType:
		jw.scalar(y.Type, strconv.FormatInt(y.Int, 10))
	case ir.UintType:
		jw.scalar(y.Type, strconv.FormatUint(y.Uint, 10))
	case ir.FloatType:
		lit, err := jsonFloat(y.Float)
		if err != nil {
			return err
		}
		jw.scalar(y.Type, lit)
	case ir.StringType, ir.BytesType:
		s := y.String
		if y.Type == ir.BytesType {
			s = y.MapStringKey()
		}
		lit, err := jsonString(s)
		if err != nil {
			return err
		}
		jw.scalar(y.Type, lit)
	case ir.ListType:
		return jw.list(y)
	case ir.MapType:
		return jw.object(y)
	}
	return nil
}

func (jw *jsonWriter) list(y *ir.Node) error {
	jw.sep(y.Type, "[")
	if len(y.Values) == 0 {
		jw.sep(y.Type, "]")
		return nil
	}
	jw.depth++
	for i, v := range y.Values {
		if i > 0 {
			jw.sep(y.Type, ",")
		}
		jw.newline()
		if err := jw.value(v); err != nil {
			return err
		}
	}
	jw.depth--
	jw.newline()
	jw.sep(y.Type, "]")
	return nil
}

func (jw *jsonWriter) object(y *ir.Node) error {
	jw.sep(y.Type, "{")
	if len(y.Fields) == 0 {
		jw.sep(y.Type, "}")
		return nil
	}
	jw.depth++
	for i, f := range y.Fields {
		if i > 0 {
			jw.sep(y.Type, ",")
		}
		jw.newline()
		key := f.String
		if f.Type != ir.StringType {
			key = f.MapStringKey()
		}
		lit, err := jsonString(key)
		if err != nil {
			return err
		}
		jw.buf.WriteString(jw.colors.Color(y.Type, FieldColor, lit))
		jw.sep(y.Type, ":")
		if jw.pretty {
			jw.buf.WriteByte(' ')
		}
		if err := jw.value(y.Values[i]); err != nil {
			return err
		}
	}
	jw.depth--
	jw.newline()
	jw.sep(y.Type, "}")
	return nil
}

func jsonString(s string) (string, error) {
	d, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// jsonFloat keeps integral floats distinguishable from integers and
// writes non-finite values as strings.
func jsonFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return jsonString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	d, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	if !bytes.ContainsAny(d, ".eE") {
		d = append(d, '.', '0')
	}
	return string(d), nil
}

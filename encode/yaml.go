package encode

import (
	"encoding/base64"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/signadot/xval/ir"
)

func (s *Serializer) encodeYAML(w io.Writer, y *ir.Node) error {
	n, err := s.yamlNode(y)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(s.indent())
	if err := enc.Encode(n); err != nil {
		return err
	}
	return enc.Close()
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (s *Serializer) yamlNode(y *ir.Node) (*yaml.Node, error) {
	switch y.Type {
	case ir.UndefinedType:
		return nil, ErrUndefined
	case ir.NullType:
		return scalarNode("!!null", "null"), nil
	case ir.BoolType:
		return scalarNode("!!bool", strconv.FormatBool(y.Bool)), nil
	case ir.IntType:
		return scalarNode("!!int", strconv.FormatInt(y.Int, 10)), nil
	case ir.UintType:
		return scalarNode("!!int", strconv.FormatUint(y.Uint, 10)), nil
	case ir.FloatType:
		return s.yamlFloat(y.Float), nil
	case ir.StringType:
		n := scalarNode("!!str", y.String)
		if s.Strict && yaml11Ambiguous(y.String) {
			n.Style = yaml.DoubleQuotedStyle
		}
		return n, nil
	case ir.BytesType:
		b64 := base64.StdEncoding.EncodeToString(y.Bytes)
		if s.Strict {
			return scalarNode("!!str", b64), nil
		}
		return scalarNode("!!binary", b64), nil
	case ir.ListType:
		res := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, v := range y.Values {
			n, err := s.yamlNode(v)
			if err != nil {
				return nil, err
			}
			res.Content = append(res.Content, n)
		}
		return res, nil
	case ir.MapType:
		res := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, f := range y.Fields {
			k, err := s.yamlNode(f)
			if err != nil {
				return nil, err
			}
			v, err := s.yamlNode(y.Values[i])
			if err != nil {
				return nil, err
			}
			res.Content = append(res.Content, k, v)
		}
		return res, nil
	}
	return nil, ErrUndefined
}

func (s *Serializer) yamlFloat(f float64) *yaml.Node {
	var lit string
	switch {
	case math.IsNaN(f):
		lit = ".nan"
	case math.IsInf(f, 1):
		lit = ".inf"
	case math.IsInf(f, -1):
		lit = "-.inf"
	default:
		lit = strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(lit, ".eE") {
			lit += ".0"
		}
		return scalarNode("!!float", lit)
	}
	if s.Strict {
		n := scalarNode("!!str", strconv.FormatFloat(f, 'g', -1, 64))
		n.Style = yaml.DoubleQuotedStyle
		return n
	}
	return scalarNode("!!float", lit)
}

var (
	yaml11Words  = map[string]bool{}
	yaml11Number = regexp.MustCompile(`^[-+]?(` +
		`0b[01_]+|` +
		`0x[0-9a-fA-F_]+|` +
		`0[0-7_]+|` +
		`[0-9][0-9_]*(:[0-5]?[0-9])+(\.[0-9_]*)?|` +
		`[0-9][0-9_]*(\.[0-9_]*)?([eE][-+]?[0-9]+)?|` +
		`\.[0-9_]+([eE][-+]?[0-9]+)?|` +
		`\.(inf|Inf|INF)|` +
		`\.(nan|NaN|NAN))$`)
	yaml11Time = regexp.MustCompile(`^[0-9]{4}-[0-9]{1,2}-[0-9]{1,2}`)
)

func init() {
	for _, w := range strings.Fields("y Y yes Yes YES n N no No NO " +
		"true True TRUE false False FALSE on On ON off Off OFF " +
		"null Null NULL ~ = <<") {
		yaml11Words[w] = true
	}
}

// yaml11Ambiguous reports whether a YAML 1.1 reader would resolve the
// plain scalar s to something other than a string.
func yaml11Ambiguous(s string) bool {
	return s == "" || yaml11Words[s] || yaml11Number.MatchString(s) || yaml11Time.MatchString(s)
}

// Package export renders a normalized score as a JSON or YAML document.
package export

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Case int

const (
	SnakeCase Case = iota
	CamelCase
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

type Options struct {
	Format Format
	Case   Case
	Indent bool
}

// ParseCase accepts "snake" and "camel"; anything else is snake case.
func ParseCase(s string) Case {
	if strings.EqualFold(s, "camel") {
		return CamelCase
	}
	return SnakeCase
}

// Encode renders score. The output depends on nothing but the score and opts.
func Encode(score *model.Score, opts Options) ([]byte, error) {
	doc, err := NewDocument(score)
	if err != nil {
		return nil, err
	}
	if opts.Format == YAML {
		return encodeYAML(doc, opts.Case)
	}
	return encodeJSON(doc, opts)
}

func Write(w io.Writer, score *model.Score, opts Options) error {
	data, err := Encode(score, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "write document")
}

func encodeJSON(doc *Document, opts Options) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}
	if opts.Case == CamelCase {
		if data, err = rekeyJSON(data, camel); err != nil {
			return nil, err
		}
	}
	if opts.Indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, errors.Wrap(err, "indent document")
		}
		data = buf.Bytes()
	}
	return data, nil
}

func encodeYAML(doc *Document, c Case) ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	if c == CamelCase {
		rekeyYAML(&node, camel)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}
	return buf.Bytes(), nil
}

// camel turns snake_case into camelCase.
func camel(name string) string {
	parts := strings.Split(name, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func rekeyYAML(n *yaml.Node, rename func(string) string) {
	if n.Kind == yaml.MappingNode {
		for i := 0; i < len(n.Content); i += 2 {
			n.Content[i].Value = rename(n.Content[i].Value)
		}
	}
	for _, c := range n.Content {
		rekeyYAML(c, rename)
	}
}

// rekeyJSON renames every object key, keeping key order.
func rekeyJSON(data []byte, rename func(string) string) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var buf bytes.Buffer
	if err := copyValue(dec, &buf, rename); err != nil {
		return nil, errors.Wrap(err, "rename keys")
	}
	return buf.Bytes(), nil
}

func copyValue(dec *json.Decoder, buf *bytes.Buffer, rename func(string) string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			buf.WriteByte('{')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					buf.WriteByte(',')
				}
				key, err := dec.Token()
				if err != nil {
					return err
				}
				if err := writeString(buf, rename(key.(string))); err != nil {
					return err
				}
				buf.WriteByte(':')
				if err := copyValue(dec, buf, rename); err != nil {
					return err
				}
			}
			buf.WriteByte('}')
		case '[':
			buf.WriteByte('[')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					buf.WriteByte(',')
				}
				if err := copyValue(dec, buf, rename); err != nil {
					return err
				}
			}
			buf.WriteByte(']')
		}
		// closing delimiter
		_, err = dec.Token()
		return err
	case string:
		return writeString(buf, v)
	case json.Number:
		buf.WriteString(v.String())
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

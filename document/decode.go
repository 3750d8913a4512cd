package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// rawStatement mirrors a statement record as emitted by the parser.
type rawStatement struct {
	Stmt        string         `mapstructure:"stmt"`
	ID          string         `mapstructure:"id"`
	Description any            `mapstructure:"description"`
	Type        string         `mapstructure:"type"`
	Doc         []any          `mapstructure:"doc"`
	Note        *rawNote       `mapstructure:"note"`
	State1      map[string]any `mapstructure:"state1"`
	State2      map[string]any `mapstructure:"state2"`
}

type rawNote struct {
	Text     string `mapstructure:"text"`
	Position string `mapstructure:"position"`
}

// GraphType returns the graph_type discriminant of a raw parser result.
func GraphType(raw map[string]any) string {
	graphType, _ := raw["graph_type"].(string)

	return graphType
}

// FromMap decodes a raw parser result into a Document.
// The graph type is not checked here; callers decide which types they accept.
func FromMap(raw map[string]any) (*Document, error) {
	data, ok := raw["graph_data"].(map[string]any)
	if !ok {
		return nil, ErrMissingRootDoc
	}

	items, ok := data["rootDoc"].([]any)
	if !ok {
		return nil, ErrMissingRootDoc
	}

	root, err := decodeStatements(items, "rootDoc")
	if err != nil {
		return nil, err
	}

	return &Document{
		GraphType: GraphType(raw),
		Root:      root,
	}, nil
}

// ParseJSON decodes a JSON-encoded parser result.
func ParseJSON(data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON document: %w", err)
	}

	return FromMap(raw)
}

// ParseYAML decodes a YAML-encoded parser result.
func ParseYAML(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML document: %w", err)
	}

	return FromMap(raw)
}

// Parse decodes a parser result, choosing JSON when the payload looks like a
// JSON object and YAML otherwise.
func Parse(data []byte) (*Document, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return ParseJSON(data)
	}

	return ParseYAML(data)
}

func decodeStatements(items []any, path string) ([]Statement, error) {
	out := make([]Statement, 0, len(items))

	for idx, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, idx)

		switch value := item.(type) {
		case string:
			out = append(out, Statement{Bare: true, ID: strings.TrimSpace(value)})
		case map[string]any:
			stmt, err := decodeRecord(value, itemPath)
			if err != nil {
				return nil, err
			}

			out = append(out, stmt)
		default:
			return nil, fmt.Errorf("%w: %s has type %T", ErrInvalidStatement, itemPath, item)
		}
	}

	return out, nil
}

func decodeRecord(record map[string]any, path string) (Statement, error) {
	var raw rawStatement

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Statement{}, err
	}

	if err := decoder.Decode(record); err != nil {
		return Statement{}, fmt.Errorf("%w: %s: %w", ErrInvalidStatement, path, err)
	}

	stmt := Statement{
		Kind:        raw.Stmt,
		ID:          strings.TrimSpace(raw.ID),
		Description: descriptionText(raw.Description),
		Type:        raw.Type,
	}

	if raw.Note != nil {
		stmt.Note = &Note{Text: raw.Note.Text, Position: raw.Note.Position}
	}

	if _, ok := record["doc"]; ok {
		stmt.HasDoc = true

		stmt.Doc, err = decodeStatements(raw.Doc, path+".doc")
		if err != nil {
			return Statement{}, err
		}
	}

	if raw.State1 != nil {
		state1, err := decodeRecord(raw.State1, path+".state1")
		if err != nil {
			return Statement{}, err
		}

		stmt.State1 = &state1
	}

	if raw.State2 != nil {
		state2, err := decodeRecord(raw.State2, path+".state2")
		if err != nil {
			return Statement{}, err
		}

		stmt.State2 = &state2
	}

	return stmt, nil
}

// descriptionText flattens a description that the parser may emit either as a
// single string or as a list of lines.
func descriptionText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		lines := make([]string, 0, len(v))

		for _, line := range v {
			if s, ok := line.(string); ok && s != "" {
				lines = append(lines, strings.TrimSpace(s))
			}
		}

		return strings.Join(lines, "\n")
	default:
		return fmt.Sprint(v)
	}
}

package notebook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CellKind is the type of a notebook cell.
type CellKind string

const (
	CellMarkdown CellKind = "markdown"
	CellCode     CellKind = "code"
	// CellUnknown covers raw cells and anything else; such cells are ignored.
	CellUnknown CellKind = ""
)

// OutputKind is the type of a captured execution output.
type OutputKind string

const (
	OutputStream  OutputKind = "stream"
	OutputResult  OutputKind = "execute_result"
	OutputDisplay OutputKind = "display_data"
	OutputError   OutputKind = "error"
)

// Notebook is a parsed notebook document: its cells in file order.
type Notebook struct {
	Cells []Cell `json:"cells"`
}

// Cell is one notebook cell. Outputs is only populated for code cells.
type Cell struct {
	Kind    CellKind
	Source  MultilineText
	Outputs []Output
}

// Output is one captured execution result with its text already flattened.
type Output struct {
	Kind OutputKind
	// Text is the stream text for stream outputs and the text/plain
	// representation for result/display outputs.
	Text string
	// HasText reports whether a result/display output carried text/plain.
	HasText    bool
	ErrorName  string
	ErrorValue string
}

// MultilineText is notebook text stored either as one string or as an array
// of line fragments. It always flattens to a single string.
type MultilineText string

// UnmarshalJSON accepts a string, an array of strings or null.
func (m *MultilineText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*m = ""
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("multiline text: %w", err)
		}
		*m = MultilineText(strings.Join(parts, ""))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("multiline text: %w", err)
	}
	*m = MultilineText(s)
	return nil
}

func (m MultilineText) String() string { return string(m) }

// Lines splits the flattened text on newlines.
func (m MultilineText) Lines() []string {
	if m == "" {
		return nil
	}
	return strings.Split(string(m), "\n")
}

type rawCell struct {
	CellType string        `json:"cell_type"`
	Source   MultilineText `json:"source"`
	Outputs  []Output      `json:"outputs"`
}

// UnmarshalJSON maps cell_type onto CellKind; unknown types become CellUnknown.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw rawCell
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch CellKind(raw.CellType) {
	case CellMarkdown, CellCode:
		c.Kind = CellKind(raw.CellType)
	default:
		c.Kind = CellUnknown
	}
	c.Source = raw.Source
	if c.Kind == CellCode {
		c.Outputs = raw.Outputs
	}
	return nil
}

type rawOutput struct {
	OutputType string                     `json:"output_type"`
	Text       MultilineText              `json:"text"`
	Data       map[string]json.RawMessage `json:"data"`
	Ename      *string                    `json:"ename"`
	Evalue     string                     `json:"evalue"`
}

// UnmarshalJSON flattens the kind-specific text of an output record.
func (o *Output) UnmarshalJSON(data []byte) error {
	var raw rawOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Kind = OutputKind(raw.OutputType)
	switch o.Kind {
	case OutputStream:
		o.Text = raw.Text.String()
		o.HasText = true
	case OutputResult, OutputDisplay:
		if plain, ok := raw.Data["text/plain"]; ok {
			var text MultilineText
			if err := json.Unmarshal(plain, &text); err != nil {
				return fmt.Errorf("text/plain output: %w", err)
			}
			o.Text = text.String()
			o.HasText = true
		}
	case OutputError:
		o.ErrorName = "Unknown"
		if raw.Ename != nil {
			o.ErrorName = *raw.Ename
		}
		o.ErrorValue = raw.Evalue
	}
	return nil
}

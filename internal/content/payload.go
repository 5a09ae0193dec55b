package content

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Payload is the typed content of an item. Exactly one implementation
// exists per ItemType.
type Payload interface {
	Type() ItemType
}

type Flashcard struct {
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
	Hint  string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

type MultipleChoice struct {
	Question    string   `json:"question" yaml:"question"`
	Choices     []string `json:"choices" yaml:"choices"`
	AnswerIndex int      `json:"answer_index" yaml:"answer_index"`
}

type GapFill struct {
	// Text marks each gap with "___".
	Text    string   `json:"text" yaml:"text"`
	Answers []string `json:"answers" yaml:"answers"`
}

type TrueFalse struct {
	Statement string `json:"statement" yaml:"statement"`
	Answer    bool   `json:"answer" yaml:"answer"`
}

func (Flashcard) Type() ItemType      { return ItemTypeFlashcard }
func (MultipleChoice) Type() ItemType { return ItemTypeMultipleChoice }
func (GapFill) Type() ItemType        { return ItemTypeGapFill }
func (TrueFalse) Type() ItemType      { return ItemTypeTrueFalse }

func newPayload(t ItemType) (Payload, error) {
	switch t {
	case ItemTypeFlashcard:
		return &Flashcard{}, nil
	case ItemTypeMultipleChoice:
		return &MultipleChoice{}, nil
	case ItemTypeGapFill:
		return &GapFill{}, nil
	case ItemTypeTrueFalse:
		return &TrueFalse{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, t)
}

// deref returns the value form so payload comparisons and type switches
// never need to handle pointers.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *Flashcard:
		return *v
	case *MultipleChoice:
		return *v
	case *GapFill:
		return *v
	case *TrueFalse:
		return *v
	}
	return p
}

// DecodePayload decodes a JSON payload of the given type. Malformed or
// invalid payloads return an error wrapping ErrInvalidPayload.
func DecodePayload(t ItemType, raw []byte) (Payload, error) {
	p, err := newPayload(t)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("%w: json.Unmarshal(%s payload) > %w", ErrInvalidPayload, t, err)
	}
	p = deref(p)
	if err := Validate(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return p, nil
}

// DecodeYAMLPayload decodes a YAML payload node of the given type.
func DecodeYAMLPayload(t ItemType, node *yaml.Node) (Payload, error) {
	p, err := newPayload(t)
	if err != nil {
		return nil, err
	}
	if err := node.Decode(p); err != nil {
		return nil, fmt.Errorf("node.Decode(%s payload) > %w", t, err)
	}
	p = deref(p)
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePayload encodes a payload as JSON for storage.
func EncodePayload(p Payload) ([]byte, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(%s payload) > %w", p.Type(), err)
	}
	return body, nil
}

// Validate checks the payload is complete enough to be studied.
func Validate(p Payload) error {
	switch v := p.(type) {
	case Flashcard:
		if v.Front == "" || v.Back == "" {
			return fmt.Errorf("flashcard needs both front and back")
		}
	case MultipleChoice:
		if v.Question == "" {
			return fmt.Errorf("multiple choice needs a question")
		}
		if len(v.Choices) < 2 {
			return fmt.Errorf("multiple choice needs at least 2 choices, got %d", len(v.Choices))
		}
		if v.AnswerIndex < 0 || v.AnswerIndex >= len(v.Choices) {
			return fmt.Errorf("multiple choice answer index %d out of range", v.AnswerIndex)
		}
	case GapFill:
		if v.Text == "" || len(v.Answers) == 0 {
			return fmt.Errorf("gap fill needs text and answers")
		}
	case TrueFalse:
		if v.Statement == "" {
			return fmt.Errorf("true/false needs a statement")
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownItemType, p)
	}
	return nil
}

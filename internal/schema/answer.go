package schema

import (
	"encoding/json"
	"fmt"
)

// AnswerKind is the closed classification of how a field type stores its
// answer. Every consumption site (condition extraction, emptiness checks,
// export hydration) switches exhaustively over this set, so adding a kind
// is a single-point, compile-checked change.
type AnswerKind string

const (
	// KindNone marks container and display-only types. They never hold an
	// answer and are skipped by validation and export.
	KindNone AnswerKind = "none"

	KindText           AnswerKind = "text"
	KindSelection      AnswerKind = "selection"
	KindMultiSelection AnswerKind = "multiSelection"
	KindMultiText      AnswerKind = "multiText"
	KindMatrix         AnswerKind = "matrix"
	KindMedia          AnswerKind = "media"
)

// Answer is a sealed interface over the closed set of answer shapes. Only
// Text, Selection, MultiSelection, MultiText, Matrix, and Media implement
// it. Answers never carry structural data, and field definitions never
// carry answer data.
type Answer interface {
	answer() // Sealed - only these types implement it
	Kind() AnswerKind
}

// Text is free text entered into a text-like field.
type Text string

func (Text) answer()          {}
func (Text) Kind() AnswerKind { return KindText }

// Selection is the ID of the single selected option.
type Selection string

func (Selection) answer()          {}
func (Selection) Kind() AnswerKind { return KindSelection }

// MultiSelection is the ordered list of selected option IDs.
type MultiSelection []string

func (MultiSelection) answer()          {}
func (MultiSelection) Kind() AnswerKind { return KindMultiSelection }

// MultiText maps option ID to the free text entered for that option.
type MultiText map[string]string

func (MultiText) answer()          {}
func (MultiText) Kind() AnswerKind { return KindMultiText }

// Matrix maps row ID to the selected column ID for that row.
type Matrix map[string]string

func (Matrix) answer()          {}
func (Matrix) Kind() AnswerKind { return KindMatrix }

// Media is a signature or diagram payload: a rendered image, captured
// stroke data, or both.
type Media struct {
	DataURI string   `json:"dataUri,omitempty"`
	Strokes []string `json:"strokes,omitempty"`
}

func (Media) answer()          {}
func (Media) Kind() AnswerKind { return KindMedia }

// answerEnvelope is the tagged wire form used when answers cross the
// process boundary (saved drafts, CLI answer files). The kind tag is
// required because several shapes share a JSON representation.
type answerEnvelope struct {
	Kind  AnswerKind      `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalAnswer encodes an answer as a tagged JSON envelope.
func MarshalAnswer(a Answer) ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	raw, err := marshalAnswerValue(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(answerEnvelope{Kind: a.Kind(), Value: raw})
}

func marshalAnswerValue(a Answer) (json.RawMessage, error) {
	switch v := a.(type) {
	case Text:
		return json.Marshal(string(v))
	case Selection:
		return json.Marshal(string(v))
	case MultiSelection:
		return json.Marshal([]string(v))
	case MultiText:
		return json.Marshal(map[string]string(v))
	case Matrix:
		return json.Marshal(map[string]string(v))
	case Media:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("unknown answer type: %T", a)
	}
}

// UnmarshalAnswer decodes a tagged JSON envelope produced by MarshalAnswer.
// A JSON null decodes to a nil answer.
func UnmarshalAnswer(data []byte) (Answer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty answer payload")
	}
	if string(data) == "null" {
		return nil, nil
	}

	var env answerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Kind {
	case KindText:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return nil, fmt.Errorf("text answer: %w", err)
		}
		return Text(s), nil

	case KindSelection:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return nil, fmt.Errorf("selection answer: %w", err)
		}
		return Selection(s), nil

	case KindMultiSelection:
		var ids []string
		if err := json.Unmarshal(env.Value, &ids); err != nil {
			return nil, fmt.Errorf("multiSelection answer: %w", err)
		}
		return MultiSelection(ids), nil

	case KindMultiText:
		var m map[string]string
		if err := json.Unmarshal(env.Value, &m); err != nil {
			return nil, fmt.Errorf("multiText answer: %w", err)
		}
		return MultiText(m), nil

	case KindMatrix:
		var m map[string]string
		if err := json.Unmarshal(env.Value, &m); err != nil {
			return nil, fmt.Errorf("matrix answer: %w", err)
		}
		return Matrix(m), nil

	case KindMedia:
		var m Media
		if err := json.Unmarshal(env.Value, &m); err != nil {
			return nil, fmt.Errorf("media answer: %w", err)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unknown answer kind: %q", env.Kind)
	}
}

// AnswerSet is the per-form answer map, keyed by field ID.
type AnswerSet map[string]Answer

// MarshalJSON encodes the set with tagged envelopes per field.
func (s AnswerSet) MarshalJSON() ([]byte, error) {
	raw := make(map[string]json.RawMessage, len(s))
	for id, a := range s {
		data, err := MarshalAnswer(a)
		if err != nil {
			return nil, fmt.Errorf("answer for %q: %w", id, err)
		}
		raw[id] = data
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes a map of tagged envelopes.
func (s *AnswerSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = make(AnswerSet, len(raw))
	for id, payload := range raw {
		a, err := UnmarshalAnswer(payload)
		if err != nil {
			return fmt.Errorf("answer for %q: %w", id, err)
		}
		if a != nil {
			(*s)[id] = a
		}
	}
	return nil
}

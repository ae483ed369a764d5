package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// NewsKey is the record key holding the analyzed text.
const NewsKey = "news"

// Fact is the value found for one group in one text.
type Fact struct {
	Group string
	Value string
	// Template names the template that produced Value; empty if none did.
	Template string
	// Sentence is the index of the deciding sentence, or -1.
	Sentence int
}

// Record is the analysis outcome of one text, with one fact per group in
// group order.
type Record struct {
	News  string
	Facts []Fact
}

// EmptyRecord returns the record reported for absent or malformed input: an
// empty text and an empty value for every group.
func EmptyRecord(groups []string) Record {
	r := Record{Facts: make([]Fact, len(groups))}
	for i, g := range groups {
		r.Facts[i] = Fact{Group: g, Sentence: -1}
	}
	return r
}

// Value returns the value of group, and false if the record has no such group.
func (r Record) Value(group string) (string, bool) {
	for _, f := range r.Facts {
		if f.Group == group {
			return f.Value, true
		}
	}
	return "", false
}

// MarshalJSON writes {"news": ..., "<group>": ..., ...} keeping group order.
// Non-ASCII text is written as is.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, NewsKey, r.News); err != nil {
		return nil, err
	}
	for _, f := range r.Facts {
		buf.WriteByte(',')
		if err := writeMember(&buf, f.Group, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a record written by MarshalJSON, keeping key order.
// Only string values are accepted. Template and Sentence are not part of the
// wire form and come back empty.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("record must be a JSON object")
	}

	out := Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record key %q: %w", key, err)
		}
		if key == NewsKey {
			out.News = value
			continue
		}
		out.Facts = append(out.Facts, Fact{Group: key, Value: value, Sentence: -1})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

func writeMember(buf *bytes.Buffer, key, value string) error {
	if err := writeString(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return writeString(buf, value)
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Config holds analysis settings.
type Config struct {
	// Workers bounds the texts analyzed concurrently by AnalyzeBatch.
	Workers int `koanf:"workers"`
}

const defaultWorkers = 4

// DefaultConfig returns the default analysis settings.
func DefaultConfig() Config {
	return Config{Workers: defaultWorkers}
}

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xtxerr/equalizer/config"
	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/series"
)

// Document is a decoded top-level JSON object. Field order is preserved.
type Document struct {
	keys   []string
	fields map[string]json.RawMessage
}

// Entry is the wire form of one timeseries element.
type Entry struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Decode reads a single JSON object from r.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.NewInputFormat("document", fmt.Sprintf("not JSON: %v", err))
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.NewInputFormat("document", "top level must be an object")
	}

	d := &Document{fields: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.NewInputFormat("document", err.Error())
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.NewInputFormat("document", fmt.Sprintf("unexpected token %v", tok))
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.NewInputFormat(key, err.Error())
		}

		if _, seen := d.fields[key]; !seen {
			d.keys = append(d.keys, key)
		}
		d.fields[key] = raw
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.NewInputFormat("document", err.Error())
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.NewInputFormat("document", "trailing data after top-level object")
	}

	return d, nil
}

// Keys returns the top-level field names in document order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Field returns the raw value of a top-level field.
func (d *Document) Field(key string) (json.RawMessage, bool) {
	raw, ok := d.fields[key]
	return raw, ok
}

// Series decodes the timeseries field into samples, in document order.
func (d *Document) Series() (series.Series, error) {
	raw, ok := d.fields[config.TimeseriesField]
	if !ok {
		return nil, errors.NewInputFormat(config.TimeseriesField, "field missing")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, errors.NewInputFormat(config.TimeseriesField, "must be an array")
	}

	out := make(series.Series, 0, len(items))
	for i, item := range items {
		e, err := parseEntry(item)
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", config.TimeseriesField, i)
		}
		out = append(out, series.FromMillis(e.Timestamp, e.Value))
	}

	return out, nil
}

func parseEntry(raw json.RawMessage) (Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return Entry{}, errors.NewInputFormat("entry", "must be an object")
	}

	for key := range obj {
		if key != "timestamp" && key != "value" {
			return Entry{}, errors.NewInputFormat(key, "unexpected field")
		}
	}

	ts, ok := obj["timestamp"].(json.Number)
	if !ok {
		return Entry{}, errors.NewInputFormat("timestamp", "must be an integer")
	}
	ms, err := ts.Int64()
	if err != nil {
		return Entry{}, errors.NewInputFormat("timestamp", fmt.Sprintf("must be an integer, got %s", ts))
	}

	val, ok := obj["value"].(json.Number)
	if !ok {
		return Entry{}, errors.NewInputFormat("value", "must be a number")
	}
	v, err := val.Float64()
	if err != nil {
		return Entry{}, errors.NewInputFormat("value", fmt.Sprintf("out of range: %s", val))
	}

	return Entry{Timestamp: ms, Value: v}, nil
}

// Entries converts points into their wire form.
func Entries(points []series.Point) []Entry {
	out := make([]Entry, len(points))
	for i, p := range points {
		out[i] = Entry{Timestamp: p.BucketStartMs(), Value: p.Value}
	}
	return out
}

// WithPoints returns a shallow copy of d whose timeseries field holds points.
// d itself is not modified.
func (d *Document) WithPoints(points []series.Point) (*Document, error) {
	raw, err := json.Marshal(Entries(points))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", config.TimeseriesField, err)
	}

	out := &Document{
		keys:   d.Keys(),
		fields: make(map[string]json.RawMessage, len(d.fields)),
	}
	for k, v := range d.fields {
		out.fields[k] = v
	}
	if _, ok := out.fields[config.TimeseriesField]; !ok {
		out.keys = append(out.keys, config.TimeseriesField)
	}
	out.fields[config.TimeseriesField] = raw

	return out, nil
}

// MarshalJSON implements json.Marshaler, keeping field order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(d.fields[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode writes d to w. A non-empty indent pretty-prints the output.
func (d *Document) Encode(w io.Writer, indent string) error {
	data, err := d.MarshalJSON()
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if indent == "" {
		err = json.Compact(&out, data)
	} else {
		err = json.Indent(&out, data, "", indent)
	}
	if err != nil {
		return fmt.Errorf("format document: %w", err)
	}
	out.WriteByte('\n')

	_, err = w.Write(out.Bytes())
	return err
}

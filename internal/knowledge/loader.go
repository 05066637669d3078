package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// loadCropsFile reads the crops topic from a JSON data file. The file holds a
// single object mapping entry keys to records; decoding goes through the token
// stream so that file order is preserved (it drives tie-breaks in Search).
func (s *Store) loadCropsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open crops data: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	entries, err := decodeTopicObject(dec)
	if err != nil {
		return fmt.Errorf("parse crops data: %w", err)
	}

	s.find("crops").entries = entries
	return nil
}

// decodeTopicObject decodes `{"key": <entry>, ...}` keeping key order.
func decodeTopicObject(dec *json.Decoder) ([]KeyedEntry, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var entries []KeyedEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected entry key, got %v", tok)
		}

		entry, err := decodeEntry(dec)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		entries = append(entries, KeyedEntry{Key: key, Entry: entry})
	}

	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return entries, nil
}

// decodeEntry decodes either a bare string or an object of scalar and
// list-valued fields in declaration order.
func decodeEntry(dec *json.Decoder) (*Entry, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case string:
		return TextEntry(v), nil
	case json.Delim:
		if v != '{' {
			return nil, fmt.Errorf("unexpected delimiter %v", v)
		}
	default:
		return TextEntry(tokenString(tok)), nil
	}

	var fields []Field
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := nameTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected field name, got %v", nameTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		if d, isDelim := valTok.(json.Delim); isDelim {
			if d != '[' {
				return nil, fmt.Errorf("field %q: nested objects are not supported", name)
			}
			list, err := decodeStringList(dec)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			fields = append(fields, Strs(name, list...))
			continue
		}

		fields = append(fields, Str(name, tokenString(valTok)))
	}

	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return NewEntry(fields...), nil
}

// decodeStringList consumes array elements up to and including the closing
// bracket (the opening bracket has already been read).
func decodeStringList(dec *json.Decoder) ([]string, error) {
	var list []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if _, isDelim := tok.(json.Delim); isDelim {
			return nil, fmt.Errorf("nested values are not supported in lists")
		}
		list = append(list, tokenString(tok))
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, err
	}
	return list, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %v, got %v", want, tok)
	}
	return nil
}

// tokenString renders a non-delimiter JSON token as a string.
func tokenString(tok json.Token) string {
	switch v := tok.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return fmt.Sprint(tok)
}

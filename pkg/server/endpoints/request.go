package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxBodySize = 1 << 20

const (
	msgRequired  = "This field is required."
	msgBlank     = "This field may not be blank."
	msgNull      = "This field may not be null."
	msgNotString = "Not a valid string."
)

// fieldErrors maps a request field to its validation messages. It is
// rendered as-is in 400 responses.
type fieldErrors map[string][]string

func (e fieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// readObject decodes a JSON object body. An empty body reads as an empty
// object. On failure the error response has already been written.
func readObject(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		respondWithDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return nil, false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]interface{}{}, true
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		respondWithDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return nil, false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		respondWithDetail(w, http.StatusBadRequest, "JSON parse error - unexpected data after top-level value")
		return nil, false
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		respondWithFieldErrors(w, fieldErrors{
			"non_field_errors": {fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", typeName(v))},
		})
		return nil, false
	}
	return obj, true
}

// typeName names a decoded JSON value the way validation messages do.
func typeName(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case string:
		return "str"
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return "int"
		}
		return "float"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "dict"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// stringField validates a trimmed, non-blank string of at most maxLen
// characters. Numbers are accepted in their literal form. An absent field is
// an error only when required.
func stringField(obj map[string]interface{}, name string, maxLen int, required bool, errs fieldErrors) (string, bool) {
	raw, present := obj[name]
	if !present {
		if required {
			errs.add(name, msgRequired)
		}
		return "", false
	}

	var s string
	switch v := raw.(type) {
	case nil:
		errs.add(name, msgNull)
		return "", false
	case string:
		s = v
	case json.Number:
		s = v.String()
	default:
		errs.add(name, msgNotString)
		return "", false
	}

	s = strings.TrimSpace(s)
	if s == "" {
		errs.add(name, msgBlank)
		return "", false
	}
	if utf8.RuneCountInString(s) > maxLen {
		errs.add(name, fmt.Sprintf("Ensure this field has no more than %d characters.", maxLen))
		return "", false
	}
	return s, true
}

// pkField validates a required primary key reference. exists is only
// consulted for well-formed keys.
func pkField(obj map[string]interface{}, name string, errs fieldErrors, exists func(uint) (bool, error)) (uint, bool, error) {
	raw, present := obj[name]
	if !present {
		errs.add(name, msgRequired)
		return 0, false, nil
	}
	if raw == nil {
		errs.add(name, msgNull)
		return 0, false, nil
	}

	id, ok := parsePK(raw)
	if !ok {
		errs.add(name, fmt.Sprintf("Incorrect type. Expected pk value, received %s.", typeName(raw)))
		return 0, false, nil
	}
	if id == 0 {
		errs.add(name, invalidPK(raw))
		return 0, false, nil
	}

	found, err := exists(id)
	if err != nil {
		return 0, false, err
	}
	if !found {
		errs.add(name, invalidPK(raw))
		return 0, false, nil
	}
	return id, true, nil
}

func invalidPK(raw interface{}) string {
	return fmt.Sprintf("Invalid pk \"%v\" - object does not exist.", raw)
}

// parsePK accepts integral JSON numbers and numeric strings. A well-formed
// key that cannot name a row parses as 0.
func parsePK(raw interface{}) (uint, bool) {
	var text string
	switch v := raw.(type) {
	case json.Number:
		if _, err := v.Int64(); err != nil {
			return 0, false
		}
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
		if _, err := strconv.ParseInt(text, 10, 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	id, err := strconv.ParseUint(text, 10, 31)
	if err != nil {
		return 0, true
	}
	return uint(id), true
}

// userIDs collects the ids of a [{"id": ...}, ...] list. Entries that are
// not objects or lack a usable id are skipped.
func userIDs(raw interface{}) []uint {
	entries, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		id, ok := parsePK(obj["id"])
		if !ok || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strings"
)

// maxPasswordBytes is the longest secret bcrypt accepts.
const maxPasswordBytes = 72

const maxBodyBytes = 1 << 20

// decodeBody decodes the JSON object in r into dst. Type mismatches are
// reported per field; a body that is not a JSON object fails as a whole.
func decodeBody(r *http.Request, dst any) []fieldError {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []fieldError{{
			Loc:  append([]any{"body"}, splitField(typeErr.Field)...),
			Msg:  "Input should be a valid " + typeName(typeErr.Type.Kind().String()),
			Type: typeName(typeErr.Type.Kind().String()) + "_type",
		}}
	}
	if errors.Is(err, io.EOF) {
		return []fieldError{{Loc: []any{"body"}, Msg: "Field required", Type: "missing"}}
	}
	return []fieldError{{Loc: []any{"body"}, Msg: "JSON decode error", Type: "json_invalid"}}
}

func splitField(field string) []any {
	parts := strings.Split(field, ".")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

func typeName(kind string) string {
	switch kind {
	case "float32", "float64":
		return "number"
	case "int", "int8", "int16", "int32", "int64":
		return "integer"
	case "bool":
		return "boolean"
	case "ptr":
		return "value"
	default:
		return kind
	}
}

func missing(field string) fieldError {
	return fieldError{Loc: []any{"body", field}, Msg: "Field required", Type: "missing"}
}

// validEmail accepts a bare addr-spec whose domain has at least one dot.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

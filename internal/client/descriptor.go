package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Param is one query key/value pair. A nil value marks the key as omitted
// from the serialized query string.
type Param struct {
	Key   string
	Value any
}

// Descriptor describes one outbound HTTP call before execution. It is built
// fresh per call and never modified by the client.
type Descriptor struct {
	Method  string
	Path    string
	Query   []Param           // serialized in insertion order, nil values dropped
	Headers map[string]string // per-call overrides, win over client defaults
	Body    any               // serialized as JSON for body-carrying methods
}

// EncodeQuery serializes params in insertion order, dropping any pair whose
// value is nil. Scalars are stringified before escaping.
func EncodeQuery(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		if p.Value == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(formatScalar(p.Value)))
	}
	return b.String()
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func carriesBody(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

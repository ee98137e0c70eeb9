package extract

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/xhad/srdx/internal/errs"
)

// FallbackMessage is the error text carried by results that did not parse.
const FallbackMessage = "Failed to parse response into JSON"

// Result holds either the fields parsed from a model response or the raw
// response that could not be parsed.
type Result struct {
	Fields map[string]any
	Raw    string
	Err    *errs.ParseError
}

// Parse strictly decodes a trimmed model response as a JSON object. Any
// failure yields a fallback result rather than an error.
func Parse(raw string) Result {
	var fields map[string]any
	err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields)
	if err == nil && fields == nil {
		err = errors.New("response is JSON null, not an object")
	}
	if err != nil {
		return Result{
			Raw: raw,
			Err: &errs.ParseError{Raw: raw, Err: err},
		}
	}
	return Result{Fields: fields, Raw: raw}
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Mapping returns the parsed fields, or the fallback record for a parse failure.
func (r Result) Mapping() map[string]any {
	if r.OK() {
		return r.Fields
	}
	return map[string]any{
		"error":        FallbackMessage,
		"raw_response": r.Raw,
	}
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Mapping())
}

// Indent renders the mapping with four-space indentation.
func (r Result) Indent() ([]byte, error) {
	return json.MarshalIndent(r.Mapping(), "", "    ")
}

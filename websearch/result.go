package websearch

import (
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Kind identifies which payload shape a Result was resolved from.
type Kind int

const (
	// RawText is a payload with no recognized fields, stringified.
	RawText Kind = iota
	// DirectAnswer is a payload with a non-empty answer field.
	DirectAnswer
	// ResultList is a payload whose first result supplied the answer.
	ResultList
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case DirectAnswer:
		return "direct_answer"
	case ResultList:
		return "result_list"
	default:
		return "raw_text"
	}
}

// Result is a web-search payload resolved into an answer and its evidence.
type Result struct {
	Kind Kind
	// Answer is the normalized answer text.
	Answer string
	// Context is the full provider payload as text, pretty-printed when structured.
	Context string
}

// Parse resolves a provider payload. It never fails: payloads that match
// no known shape become RawText.
func Parse(payload []byte) Result {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return Text(string(payload))
	}

	root := gjson.ParseBytes(trimmed)
	switch {
	case root.Type == gjson.String:
		return Text(root.String())
	case root.IsObject():
		context := prettyJSON(trimmed)
		if answer := root.Get("answer"); truthy(answer) {
			return Result{Kind: DirectAnswer, Answer: answer.String(), Context: context}
		}
		if results := root.Get("results"); results.IsArray() {
			if items := results.Array(); len(items) > 0 {
				if content := items[0].Get("content"); content.Type == gjson.String {
					return Result{Kind: ResultList, Answer: content.String(), Context: context}
				}
			}
		}
		return Result{Kind: RawText, Answer: string(pretty.Ugly(trimmed)), Context: context}
	case root.IsArray():
		return Result{Kind: RawText, Answer: string(pretty.Ugly(trimmed)), Context: prettyJSON(trimmed)}
	default:
		return Text(root.Raw)
	}
}

// Text wraps a plain-text provider response.
func Text(s string) Result {
	return Result{Kind: RawText, Answer: s, Context: s}
}

// truthy reports whether a JSON value would count as present and non-empty.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) > 0
		}
		return len(v.Map()) > 0
	default:
		return v.Exists()
	}
}

func prettyJSON(b []byte) string {
	return strings.TrimRight(string(pretty.Pretty(b)), "\n")
}

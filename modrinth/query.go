package modrinth

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
)

// EncodeQuery renders params as a URL query string with one pair per
// non-null member of its JSON form. Every value is the member's compact JSON
// text: strings keep their quotes ("sodium"), numbers and bools are bare, and
// facet groups become e.g. [["categories:'forge'"],["versions:'1.20.1'"]].
// Members that marshal to null, or are dropped by omitempty, are left out.
// Keys are sorted.
//
// params must marshal to a JSON object. Anything else is a programming
// error and EncodeQuery panics.
func EncodeQuery(params any) string {
	var data bytes.Buffer
	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(params); err != nil {
		panic(fmt.Sprintf("modrinth: encode query %T: %v", params, err))
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data.Bytes(), &members); err != nil || members == nil {
		panic(fmt.Sprintf("modrinth: encode query %T: not a JSON object", params))
	}

	// The encoder output is already compact, and RawMessage keeps it verbatim.
	values := make(url.Values, len(members))
	for key, raw := range members {
		raw = bytes.TrimSpace(raw)
		if bytes.Equal(raw, []byte("null")) {
			continue
		}
		values.Set(key, string(raw))
	}
	return values.Encode()
}

package store

import (
	jsoniter "github.com/json-iterator/go"
)

// json is the snapshot codec. It is wire compatible with encoding/json.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonRaw defers decoding of one snapshot entry.
type jsonRaw = jsoniter.RawMessage

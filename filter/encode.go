package filter

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/fastnext-lab/filterbuilder-go/internal/encoding"
)

// Token framing: a one-byte prefix selects the payload encoding,
// followed by unpadded URL-safe base64.
//
//	j  plain UTF-8 JSON
//	z  ZStandard-compressed JSON
//
// Compression is applied only when it shortens the token, so small
// trees stay cheap to produce and debug.
const (
	framePlain      = 'j'
	frameCompressed = 'z'
)

// Serialize encodes the full tree into a URL-safe textual token.
// Round-trips exactly through Deserialize. Returns an empty string on
// any internal encoding error, never an error value: a blank token is
// the recoverable "no filter" representation.
func Serialize(s *State) string {
	if s == nil || s.Root == nil {
		return ""
	}

	data, err := marshalState(s)
	if err != nil {
		return ""
	}

	if compressed, err := encoding.Compress(data); err == nil {
		if len(compressed) < len(data) {
			return string(frameCompressed) + base64.RawURLEncoding.EncodeToString(compressed)
		}
	}
	return string(framePlain) + base64.RawURLEncoding.EncodeToString(data)
}

// Deserialize is the inverse of Serialize. Returns nil on empty or
// malformed input, never an error: a corrupt token is treated as "no
// filter active". Use ParseToken when the failure reason matters.
func Deserialize(token string) *State {
	s, err := ParseToken(token)
	if err != nil {
		return nil
	}
	return s
}

// ParseToken decodes a serialized token, reporting why decoding
// failed. An empty token is an error: the absence of a filter is
// represented by the absence of a token, not by an empty tree.
func ParseToken(token string) (*State, error) {
	if token == "" {
		return nil, fmt.Errorf("filter: empty token")
	}

	frame := token[0]
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token[1:], "="))
	if err != nil {
		return nil, fmt.Errorf("filter: invalid token encoding: %w", err)
	}

	var data []byte
	switch frame {
	case framePlain:
		data = payload
	case frameCompressed:
		data, err = encoding.Decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("filter: invalid compressed token: %w", err)
		}
	default:
		return nil, fmt.Errorf("filter: unknown token frame %q", frame)
	}

	s, err := ParseState(data)
	if err != nil {
		return nil, fmt.Errorf("filter: invalid token payload: %w", err)
	}
	return s, nil
}

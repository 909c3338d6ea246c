package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
)

// NewJSONCodec creates a new codec using json encoding.
// Commands are sent as {"kind":"store","owner":"...","list":"..."} envelopes,
// responses as a json string, null / string, or array of strings.
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the ICodec interface using json encoding
type jsonCodecImpl struct {
}

// jsonEnvelope is the json representation of a command
type jsonEnvelope struct {
	Kind  common.CommandKind `json:"kind"`
	Owner string             `json:"owner,omitempty"`
	List  string             `json:"list,omitempty"`
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Name() string {
	return "json"
}

func (j jsonCodecImpl) EncodeCommand(cmd common.Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("cannot encode nil command")
	}
	owner, list := common.Fields(cmd)
	return json.Marshal(jsonEnvelope{Kind: cmd.Kind(), Owner: owner, List: list})
}

func (j jsonCodecImpl) DecodeCommand(b []byte) (common.Command, error) {
	// the kind is mandatory, a missing kind must not decode to the zero variant
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, common.NewDecodeError("%v", err)
	}
	if _, ok := raw["kind"]; !ok {
		return nil, common.NewDecodeError("missing command kind")
	}

	var env jsonEnvelope
	if err := strictUnmarshal(b, &env); err != nil {
		return nil, common.NewDecodeError("%v", err)
	}
	cmd, err := common.NewCommand(env.Kind, env.Owner, env.List)
	if err != nil {
		return nil, common.NewDecodeError("%v", err)
	}
	return cmd, nil
}

func (j jsonCodecImpl) EncodeResponse(resp common.Response) ([]byte, error) {
	switch resp.Kind {
	case common.RespText:
		return json.Marshal(resp.Text)
	case common.RespOptional:
		return json.Marshal(resp.Optional)
	case common.RespStrings:
		return json.Marshal(resp.Items)
	default:
		return nil, fmt.Errorf("unknown response kind %d", resp.Kind)
	}
}

func (j jsonCodecImpl) DecodeString(b []byte) (string, error) {
	var s *string
	if err := strictUnmarshal(b, &s); err != nil {
		return "", common.NewDecodeError("%v", err)
	}
	if s == nil {
		return "", common.NewDecodeError("expected string, got null")
	}
	return *s, nil
}

func (j jsonCodecImpl) DecodeOptionalString(b []byte) (*string, error) {
	var s *string
	if err := strictUnmarshal(b, &s); err != nil {
		return nil, common.NewDecodeError("%v", err)
	}
	return s, nil
}

func (j jsonCodecImpl) DecodeStrings(b []byte) ([]string, error) {
	var items []string
	if err := strictUnmarshal(b, &items); err != nil {
		return nil, common.NewDecodeError("%v", err)
	}
	if items == nil {
		return nil, common.NewDecodeError("expected list, got null")
	}
	return items, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// strictUnmarshal decodes exactly one json value and rejects unknown fields and trailing data
func strictUnmarshal(b []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after json value")
	}
	return nil
}

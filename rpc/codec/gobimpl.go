package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"io"
)

// NewGOBCodec creates a new codec using Go's binary gob format
func NewGOBCodec() ICodec {
	return &gobCodecImpl{}
}

// gobCodecImpl implements the ICodec interface using gob encoding
type gobCodecImpl struct {
}

// gobEnvelope is the gob representation of a command
type gobEnvelope struct {
	Kind  common.CommandKind
	Owner string
	List  string
}

// gobOptional is the gob representation of an optional string (gob cannot encode nil pointers)
type gobOptional struct {
	Set   bool
	Value string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (g gobCodecImpl) Name() string {
	return "gob"
}

func (g gobCodecImpl) EncodeCommand(cmd common.Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("cannot encode nil command")
	}
	owner, list := common.Fields(cmd)
	return gobEncode(gobEnvelope{Kind: cmd.Kind(), Owner: owner, List: list})
}

func (g gobCodecImpl) DecodeCommand(b []byte) (common.Command, error) {
	var env gobEnvelope
	if err := gobDecode(b, &env); err != nil {
		return nil, err
	}
	cmd, err := common.NewCommand(env.Kind, env.Owner, env.List)
	if err != nil {
		return nil, common.NewDecodeError("%v", err)
	}
	return cmd, nil
}

func (g gobCodecImpl) EncodeResponse(resp common.Response) ([]byte, error) {
	switch resp.Kind {
	case common.RespText:
		return gobEncode(resp.Text)
	case common.RespOptional:
		opt := gobOptional{}
		if resp.Optional != nil {
			opt.Set = true
			opt.Value = *resp.Optional
		}
		return gobEncode(opt)
	case common.RespStrings:
		return gobEncode(resp.Items)
	default:
		return nil, fmt.Errorf("unknown response kind %d", resp.Kind)
	}
}

func (g gobCodecImpl) DecodeString(b []byte) (string, error) {
	var s string
	if err := gobDecode(b, &s); err != nil {
		return "", err
	}
	return s, nil
}

func (g gobCodecImpl) DecodeOptionalString(b []byte) (*string, error) {
	var opt gobOptional
	if err := gobDecode(b, &opt); err != nil {
		return nil, err
	}
	if !opt.Set {
		return nil, nil
	}
	return &opt.Value, nil
}

func (g gobCodecImpl) DecodeStrings(b []byte) ([]string, error) {
	var items []string
	if err := gobDecode(b, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func gobEncode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// gobDecode decodes exactly one value. Gob itself recovers from internal panics
// on corrupt input, so every failure surfaces as an error.
func gobDecode(b []byte, v interface{}) error {
	buf := bytes.NewBuffer(b)
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return common.NewDecodeError("empty input")
		}
		return common.NewDecodeError("%v", err)
	}
	if buf.Len() != 0 {
		return common.NewDecodeError("%d trailing bytes", buf.Len())
	}
	return nil
}

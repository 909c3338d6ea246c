package codec

import (
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
)

// NewBinaryCodec creates a new codec using the compact binary layout of the
// legacy protocol (bincode v1, fixed width little endian integers).
//
// Layout:
//   - command:         u32 variant index, followed by the variant fields in order
//   - string:          u64 byte length, followed by the utf-8 bytes
//   - optional string: u8 tag (0 = none, 1 = some), followed by a string if set
//   - string list:     u64 element count, followed by the strings
func NewBinaryCodec() ICodec {
	return &binaryCodecImpl{}
}

// binaryCodecImpl implements ICodec using the bincode layout
type binaryCodecImpl struct {
}

const (
	variantSize = 4
	lengthSize  = 8
)

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (b binaryCodecImpl) Name() string {
	return "binary"
}

func (b binaryCodecImpl) EncodeCommand(cmd common.Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("cannot encode nil command")
	}
	owner, list := common.Fields(cmd)

	// Calculate total size needed
	size := variantSize
	switch cmd.Kind() {
	case common.CmdStore, common.CmdUpdateList:
		size += lengthSize + len(owner) + lengthSize + len(list)
	case common.CmdGet, common.CmdCreateOwner, common.CmdDeleteOwner:
		size += lengthSize + len(owner)
	}
	result := make([]byte, 0, size)

	// Write variant index
	result = binary.LittleEndian.AppendUint32(result, uint32(cmd.Kind()))

	// Write variant fields
	switch cmd.Kind() {
	case common.CmdStore, common.CmdUpdateList:
		result = appendString(result, owner)
		result = appendString(result, list)
	case common.CmdGet, common.CmdCreateOwner, common.CmdDeleteOwner:
		result = appendString(result, owner)
	}

	return result, nil
}

func (b binaryCodecImpl) DecodeCommand(data []byte) (common.Command, error) {
	r := binaryReader{data: data}

	// Read variant index
	variant, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	kind := common.CommandKind(variant)

	// Read variant fields
	var owner, list string
	switch kind {
	case common.CmdStore, common.CmdUpdateList:
		if owner, err = r.readString(); err != nil {
			return nil, err
		}
		if list, err = r.readString(); err != nil {
			return nil, err
		}
	case common.CmdGet, common.CmdCreateOwner, common.CmdDeleteOwner:
		if owner, err = r.readString(); err != nil {
			return nil, err
		}
	case common.CmdListCatalogA, common.CmdListCatalogB:
		// no fields
	default:
		return nil, common.NewDecodeError("unknown variant index %d", variant)
	}

	if err := r.done(); err != nil {
		return nil, err
	}
	return common.NewCommand(kind, owner, list)
}

func (b binaryCodecImpl) EncodeResponse(resp common.Response) ([]byte, error) {
	switch resp.Kind {
	case common.RespText:
		return appendString(make([]byte, 0, lengthSize+len(resp.Text)), resp.Text), nil
	case common.RespOptional:
		if resp.Optional == nil {
			return []byte{0}, nil
		}
		result := make([]byte, 0, 1+lengthSize+len(*resp.Optional))
		result = append(result, 1)
		return appendString(result, *resp.Optional), nil
	case common.RespStrings:
		result := binary.LittleEndian.AppendUint64(nil, uint64(len(resp.Items)))
		for _, item := range resp.Items {
			result = appendString(result, item)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unknown response kind %d", resp.Kind)
	}
}

func (b binaryCodecImpl) DecodeString(data []byte) (string, error) {
	r := binaryReader{data: data}
	s, err := r.readString()
	if err != nil {
		return "", err
	}
	return s, r.done()
}

func (b binaryCodecImpl) DecodeOptionalString(data []byte) (*string, error) {
	r := binaryReader{data: data}
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}

	var result *string
	switch tag {
	case 0:
		// none
	case 1:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		result = &s
	default:
		return nil, common.NewDecodeError("invalid option tag %d", tag)
	}
	return result, r.done()
}

func (b binaryCodecImpl) DecodeStrings(data []byte) ([]string, error) {
	r := binaryReader{data: data}
	count, err := r.readUint64()
	if err != nil {
		return nil, err
	}

	// every element needs at least its length prefix
	if count > uint64(r.remaining()/lengthSize) {
		return nil, common.NewDecodeError("list length %d exceeds available data", count)
	}

	result := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, r.done()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// appendString appends a length prefixed string to buf
func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s)))
	return append(buf, s...)
}

// binaryReader reads the primitives of the binary layout with bounds checks
type binaryReader struct {
	data []byte
	pos  int
}

func (r *binaryReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *binaryReader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, common.NewDecodeError("data too short for tag")
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *binaryReader) readUint32() (uint32, error) {
	if r.remaining() < variantSize {
		return 0, common.NewDecodeError("data too short for variant index")
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos : r.pos+variantSize])
	r.pos += variantSize
	return v, nil
}

func (r *binaryReader) readUint64() (uint64, error) {
	if r.remaining() < lengthSize {
		return 0, common.NewDecodeError("data too short for length")
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+lengthSize])
	r.pos += lengthSize
	return v, nil
}

func (r *binaryReader) readString() (string, error) {
	n, err := r.readUint64()
	if err != nil {
		return "", err
	}
	if n > uint64(r.remaining()) {
		return "", common.NewDecodeError("data too short for string of length %d", n)
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

// done fails if there are unread bytes left
func (r *binaryReader) done() error {
	if r.remaining() != 0 {
		return common.NewDecodeError("%d trailing bytes", r.remaining())
	}
	return nil
}

package bson

import (
	"encoding/binary"
	"math"
)

// endOfDocument is the 0x00 byte BSON uses both as an element type tag (it
// never is one) and as the document/array terminator; ReadBsonType reports
// it instead of silently swallowing it so callers can tell "one more
// element" from "this container is done" without peeking ahead themselves.
const endOfDocument BsonType = 0x00

// BinaryReader implements Reader by pulling elements out of an in-memory
// BSON byte slice, inverting BinaryWriter element by element. It replaces
// the teacher's decodeMap/decodeSlice recursive-descent pair (which always
// materialized a whole Map or Slice) with a pull API a caller can stop,
// skip values on, or forward straight into a Writer via Pipe without
// building an intermediate tree.
type BinaryReader struct {
	buf    []byte
	pos    int
	st     ReaderState
	stack  []binReaderFrame
	typ    BsonType
	closed bool
}

type binReaderFrame struct {
	ctxType      ContextType
	startPos     int
	declaredSize int32
}

// NewBinaryReader wraps buf, which must hold exactly one complete top-level
// BSON document.
func NewBinaryReader(buf []byte) *BinaryReader {
	return &BinaryReader{buf: buf, st: ReaderStateInitial}
}

func (r *BinaryReader) checkOpen() error {
	if r.closed {
		return invalidOp("", "reader is closed")
	}
	return nil
}

func (r *BinaryReader) top() (*binReaderFrame, bool) {
	if len(r.stack) == 0 {
		return nil, false
	}
	return &r.stack[len(r.stack)-1], true
}

func (r *BinaryReader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return serializationErr("", "unexpected end of BSON input, need %d bytes at offset %d", n, r.pos)
	}
	return nil
}

func (r *BinaryReader) readLength() (int32, int, error) {
	if err := r.need(4); err != nil {
		return 0, 0, err
	}
	start := r.pos
	n := int32(binary.LittleEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return n, start, nil
}

func (r *BinaryReader) readCstring() (string, error) {
	start := r.pos
	for r.pos < len(r.buf) && r.buf[r.pos] != 0x00 {
		r.pos++
	}
	if r.pos >= len(r.buf) {
		return "", serializationErr("", "cstring missing NUL terminator")
	}
	s := string(r.buf[start:r.pos])
	r.pos++
	return s, nil
}

func (r *BinaryReader) readString() (string, error) {
	n, _, err := r.readLength()
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", serializationErr("", "string length %d is not positive", n)
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	if r.buf[r.pos+int(n)-1] != 0x00 {
		return "", serializationErr("", "string missing NUL terminator")
	}
	s := string(r.buf[r.pos : r.pos+int(n)-1])
	r.pos += int(n)
	return s, nil
}

func (r *BinaryReader) ReadBsonType() (BsonType, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}
	if r.st != ReaderStateType {
		return 0, invalidOp("", "ReadBsonType called in state %v", r.st)
	}
	if err := r.need(1); err != nil {
		return 0, err
	}
	t := BsonType(r.buf[r.pos])
	r.pos++
	if t == endOfDocument {
		f, _ := r.top()
		if f.ctxType == ContextArray {
			r.st = ReaderStateEndOfArray
		} else {
			r.st = ReaderStateEndOfDocument
		}
		return endOfDocument, nil
	}
	r.typ = t
	r.st = ReaderStateName
	return t, nil
}

func (r *BinaryReader) ReadName() (string, error) {
	if err := r.checkOpen(); err != nil {
		return "", err
	}
	if r.st != ReaderStateName {
		return "", invalidOp("", "ReadName called in state %v", r.st)
	}
	name, err := r.readCstring()
	if err != nil {
		return "", err
	}
	r.st = ReaderStateValue
	return name, nil
}

func (r *BinaryReader) SkipName() error {
	_, err := r.ReadName()
	return err
}

func (r *BinaryReader) expectValue(t BsonType) error {
	if r.st != ReaderStateValue {
		return invalidOp("", "value read called in state %v", r.st)
	}
	if r.typ != t {
		return invalidOp("", "value read expected type %v but element is %v", t, r.typ)
	}
	return nil
}

func (r *BinaryReader) finishValue() {
	r.st = ReaderStateType
}

func (r *BinaryReader) popFrame() error {
	f := r.stack[len(r.stack)-1]
	expectedEnd := f.startPos + int(f.declaredSize)
	if r.pos != expectedEnd {
		return serializationErr("", "declared document size %d did not match %d consumed bytes", f.declaredSize, r.pos-f.startPos)
	}
	r.stack = r.stack[:len(r.stack)-1]
	if f.ctxType == ContextScopeDocument {
		outer := r.stack[len(r.stack)-1]
		expectedEnd := outer.startPos + int(outer.declaredSize)
		if r.pos != expectedEnd {
			return serializationErr("", "declared scope size %d did not match %d consumed bytes", outer.declaredSize, r.pos-outer.startPos)
		}
		r.stack = r.stack[:len(r.stack)-1]
	}
	return nil
}

func (r *BinaryReader) ReadStartDocument() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	switch r.st {
	case ReaderStateInitial:
		n, start, err := r.readLength()
		if err != nil {
			return err
		}
		r.stack = append(r.stack, binReaderFrame{ctxType: ContextDocument, startPos: start, declaredSize: n})
		r.st = ReaderStateType
		return nil
	case ReaderStateValue:
		if err := r.expectValue(TypeDocument); err != nil {
			return err
		}
		n, start, err := r.readLength()
		if err != nil {
			return err
		}
		r.stack = append(r.stack, binReaderFrame{ctxType: ContextDocument, startPos: start, declaredSize: n})
		r.st = ReaderStateType
		return nil
	case ReaderStateScopeDocument:
		n, start, err := r.readLength()
		if err != nil {
			return err
		}
		r.stack = append(r.stack, binReaderFrame{ctxType: ContextScopeDocument, startPos: start, declaredSize: n})
		r.st = ReaderStateType
		return nil
	default:
		return invalidOp("", "ReadStartDocument called in state %v", r.st)
	}
}

func (r *BinaryReader) ReadEndDocument() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	f, ok := r.top()
	if !ok || (f.ctxType != ContextDocument && f.ctxType != ContextScopeDocument) {
		return invalidOp("", "ReadEndDocument called with no open document")
	}
	if r.st != ReaderStateEndOfDocument {
		return invalidOp("", "ReadEndDocument called in state %v", r.st)
	}
	if err := r.popFrame(); err != nil {
		return err
	}
	if len(r.stack) == 0 {
		r.st = ReaderStateDone
	} else {
		r.st = ReaderStateType
	}
	return nil
}

func (r *BinaryReader) ReadStartArray() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if err := r.expectValue(TypeArray); err != nil {
		return err
	}
	n, start, err := r.readLength()
	if err != nil {
		return err
	}
	r.stack = append(r.stack, binReaderFrame{ctxType: ContextArray, startPos: start, declaredSize: n})
	r.st = ReaderStateType
	return nil
}

func (r *BinaryReader) ReadEndArray() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	f, ok := r.top()
	if !ok || f.ctxType != ContextArray {
		return invalidOp("", "ReadEndArray called with no open array")
	}
	if r.st != ReaderStateEndOfArray {
		return invalidOp("", "ReadEndArray called in state %v", r.st)
	}
	if err := r.popFrame(); err != nil {
		return err
	}
	if len(r.stack) == 0 {
		r.st = ReaderStateDone
	} else {
		r.st = ReaderStateType
	}
	return nil
}

func (r *BinaryReader) SkipValue() error {
	t := r.typ
	v, err := r.ReadValue(t)
	_ = v
	return err
}

func (r *BinaryReader) ReadDouble() (float64, error) {
	if err := r.expectValue(TypeDouble); err != nil {
		return 0, err
	}
	if err := r.need(8); err != nil {
		return 0, err
	}
	bits := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	r.finishValue()
	return math.Float64frombits(bits), nil
}

func (r *BinaryReader) ReadString() (string, error) {
	if err := r.expectValue(TypeString); err != nil {
		return "", err
	}
	s, err := r.readString()
	if err != nil {
		return "", err
	}
	r.finishValue()
	return s, nil
}

func (r *BinaryReader) ReadBinary() (Binary, error) {
	if err := r.expectValue(TypeBinary); err != nil {
		return Binary{}, err
	}
	n, _, err := r.readLength()
	if err != nil {
		return Binary{}, err
	}
	if err := r.need(1); err != nil {
		return Binary{}, err
	}
	subtype := BinarySubtype(r.buf[r.pos])
	r.pos++
	if subtype == SubtypeOldBinary {
		inner, _, err := r.readLength()
		if err != nil {
			return Binary{}, err
		}
		if inner != n-4 {
			return Binary{}, serializationErr("", "legacy binary inner length %d did not match outer length-4 %d", inner, n-4)
		}
		n = inner
	}
	if err := r.need(int(n)); err != nil {
		return Binary{}, err
	}
	data := make([]byte, n)
	copy(data, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	r.finishValue()
	return Binary{Subtype: subtype, Data: data}, nil
}

func (r *BinaryReader) ReadUndefined() error {
	if err := r.expectValue(TypeUndefined); err != nil {
		return err
	}
	r.finishValue()
	return nil
}

func (r *BinaryReader) ReadObjectId() (ObjectId, error) {
	if err := r.expectValue(TypeObjectId); err != nil {
		return ObjectId{}, err
	}
	if err := r.need(12); err != nil {
		return ObjectId{}, err
	}
	var id ObjectId
	copy(id[:], r.buf[r.pos:r.pos+12])
	r.pos += 12
	r.finishValue()
	return id, nil
}

func (r *BinaryReader) ReadBoolean() (bool, error) {
	if err := r.expectValue(TypeBoolean); err != nil {
		return false, err
	}
	if err := r.need(1); err != nil {
		return false, err
	}
	b := r.buf[r.pos]
	if b != 0x00 && b != 0x01 {
		return false, serializationErr("", "boolean byte must be 0x00 or 0x01, got 0x%02X", b)
	}
	r.pos++
	r.finishValue()
	return b == 0x01, nil
}

func (r *BinaryReader) ReadDateTime() (int64, error) {
	if err := r.expectValue(TypeDateTime); err != nil {
		return 0, err
	}
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.LittleEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	r.finishValue()
	return v, nil
}

func (r *BinaryReader) ReadNull() error {
	if err := r.expectValue(TypeNull); err != nil {
		return err
	}
	r.finishValue()
	return nil
}

func (r *BinaryReader) ReadRegularExpression() (Regex, error) {
	if err := r.expectValue(TypeRegularExpression); err != nil {
		return Regex{}, err
	}
	pattern, err := r.readCstring()
	if err != nil {
		return Regex{}, err
	}
	options, err := r.readCstring()
	if err != nil {
		return Regex{}, err
	}
	r.finishValue()
	return newRegex(pattern, options), nil
}

func (r *BinaryReader) ReadDbPointer() (DbPointer, error) {
	if err := r.expectValue(TypeDbPointer); err != nil {
		return DbPointer{}, err
	}
	ns, err := r.readString()
	if err != nil {
		return DbPointer{}, err
	}
	if err := r.need(12); err != nil {
		return DbPointer{}, err
	}
	var id ObjectId
	copy(id[:], r.buf[r.pos:r.pos+12])
	r.pos += 12
	r.finishValue()
	return DbPointer{Namespace: ns, Id: id}, nil
}

func (r *BinaryReader) ReadJavaScript() (string, error) {
	if err := r.expectValue(TypeJavaScript); err != nil {
		return "", err
	}
	s, err := r.readString()
	if err != nil {
		return "", err
	}
	r.finishValue()
	return s, nil
}

func (r *BinaryReader) ReadSymbol() (string, error) {
	if err := r.expectValue(TypeSymbol); err != nil {
		return "", err
	}
	s, err := r.readString()
	if err != nil {
		return "", err
	}
	r.finishValue()
	return s, nil
}

func (r *BinaryReader) ReadJavaScriptWithScope() (string, error) {
	if err := r.expectValue(TypeJavaScriptWithScope); err != nil {
		return "", err
	}
	_, start, err := r.readLength()
	if err != nil {
		return "", err
	}
	code, err := r.readString()
	if err != nil {
		return "", err
	}
	declared := int32(binary.LittleEndian.Uint32(r.buf[start:]))
	r.stack = append(r.stack, binReaderFrame{ctxType: ContextJavaScriptWithScope, startPos: start, declaredSize: declared})
	r.st = ReaderStateScopeDocument
	return code, nil
}

func (r *BinaryReader) ReadInt32() (int32, error) {
	if err := r.expectValue(TypeInt32); err != nil {
		return 0, err
	}
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	r.finishValue()
	return v, nil
}

func (r *BinaryReader) ReadTimestamp() (Timestamp, error) {
	if err := r.expectValue(TypeTimestamp); err != nil {
		return Timestamp{}, err
	}
	if err := r.need(8); err != nil {
		return Timestamp{}, err
	}
	packed := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	r.finishValue()
	return TimestampFromPacked(packed), nil
}

func (r *BinaryReader) ReadInt64() (int64, error) {
	if err := r.expectValue(TypeInt64); err != nil {
		return 0, err
	}
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.LittleEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	r.finishValue()
	return v, nil
}

func (r *BinaryReader) ReadDecimal128() (Decimal128, error) {
	if err := r.expectValue(TypeDecimal128); err != nil {
		return Decimal128{}, err
	}
	if err := r.need(16); err != nil {
		return Decimal128{}, err
	}
	low := binary.LittleEndian.Uint64(r.buf[r.pos:])
	high := binary.LittleEndian.Uint64(r.buf[r.pos+8:])
	r.pos += 16
	r.finishValue()
	return Decimal128{High: high, Low: low}, nil
}

func (r *BinaryReader) ReadMinKey() error {
	if err := r.expectValue(TypeMinKey); err != nil {
		return err
	}
	r.finishValue()
	return nil
}

func (r *BinaryReader) ReadMaxKey() error {
	if err := r.expectValue(TypeMaxKey); err != nil {
		return err
	}
	r.finishValue()
	return nil
}

// ReadValue reads one element's value given its already-consumed type tag,
// materializing Document/Array/JavaScriptWithScope recursively into trees.
func (r *BinaryReader) ReadValue(t BsonType) (Value, error) {
	return readValueDispatch(r, t)
}

func (r *BinaryReader) Close() error {
	r.closed = true
	return nil
}

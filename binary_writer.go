package bson

import (
	"encoding/binary"
	"math"
)

// BinaryWriter implements Writer over a growable in-memory byte buffer,
// producing the BSON wire format (spec.md §4.F, §6.1). It generalizes the
// teacher's encodeMap/encodeSlice pattern of "write a zero-length
// placeholder, append elements, backpatch the real length" from one-shot
// recursive functions into an explicit push-style state machine with its
// own context stack, so a caller can interleave writes with a Reader via
// Pipe instead of needing a whole in-memory Doc up front.
type BinaryWriter struct {
	buf      []byte
	st       WriterState
	stack    []binWriterFrame
	maxDepth int
	pending  string
	haveName bool
	closed   bool
}

type binWriterFrame struct {
	typ     ContextType
	sizePos int
	index   int // next array element index, used only for ContextArray
}

// NewBinaryWriter returns a BinaryWriter ready for a single top-level
// WriteStartDocument/.../WriteEndDocument/Close sequence.
func NewBinaryWriter() *BinaryWriter {
	return &BinaryWriter{maxDepth: DefaultMaxSerializationDepth}
}

// NewBinaryWriterDepth is like NewBinaryWriter but with a caller-chosen
// maximum nesting depth instead of DefaultMaxSerializationDepth.
func NewBinaryWriterDepth(maxDepth int) *BinaryWriter {
	return &BinaryWriter{maxDepth: maxDepth}
}

// Bytes returns the encoded document. Valid only once the writer has
// reached WriterStateDone (the top-level WriteEndDocument has been called).
func (w *BinaryWriter) Bytes() []byte { return w.buf }

func (w *BinaryWriter) state() WriterState { return w.st }

func (w *BinaryWriter) checkOpen() error {
	if w.closed {
		return invalidOp("", "writer is closed")
	}
	return nil
}

func (w *BinaryWriter) top() (*binWriterFrame, bool) {
	if len(w.stack) == 0 {
		return nil, false
	}
	return &w.stack[len(w.stack)-1], true
}

func (w *BinaryWriter) pushFrame(typ ContextType) error {
	if len(w.stack) >= w.maxDepth {
		return serializationErr("", "exceeded maximum nesting depth %d", w.maxDepth)
	}
	w.stack = append(w.stack, binWriterFrame{typ: typ, sizePos: len(w.buf)})
	w.buf = append(w.buf, 0, 0, 0, 0)
	return nil
}

// popFrame closes the innermost frame: writes the document terminator,
// backpatches its 4-byte length, and pops it. If the popped frame was a
// scope document it also pops and backpatches the enclosing
// JavaScriptWithScope frame, since that frame's length covers the scope too.
func (w *BinaryWriter) popFrame() {
	f := w.stack[len(w.stack)-1]
	w.buf = append(w.buf, 0x00)
	binary.LittleEndian.PutUint32(w.buf[f.sizePos:], uint32(len(w.buf)-f.sizePos))
	w.stack = w.stack[:len(w.stack)-1]
	if f.typ == ContextScopeDocument {
		outer := w.stack[len(w.stack)-1]
		binary.LittleEndian.PutUint32(w.buf[outer.sizePos:], uint32(len(w.buf)-outer.sizePos))
		w.stack = w.stack[:len(w.stack)-1]
	}
}

func (w *BinaryWriter) afterClose() {
	if f, ok := w.top(); ok {
		switch f.typ {
		case ContextDocument, ContextScopeDocument:
			w.st = WriterStateName
		case ContextArray:
			w.st = WriterStateValue
		}
	} else {
		w.st = WriterStateDone
	}
}

func (w *BinaryWriter) WriteStartDocument() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	switch w.st {
	case WriterStateInitial:
		if err := w.pushFrame(ContextTopLevel); err != nil {
			return err
		}
		w.stack[len(w.stack)-1].typ = ContextDocument
		w.st = WriterStateName
		return nil
	case WriterStateValue:
		if err := w.writeElementHeader(TypeDocument); err != nil {
			return err
		}
		if err := w.pushFrame(ContextDocument); err != nil {
			return err
		}
		w.st = WriterStateName
		return nil
	case WriterStateScopeDocument:
		if err := w.pushFrame(ContextScopeDocument); err != nil {
			return err
		}
		w.st = WriterStateName
		return nil
	default:
		return invalidOp("", "WriteStartDocument called in state %v", w.st)
	}
}

func (w *BinaryWriter) WriteEndDocument() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	f, ok := w.top()
	if !ok || (f.typ != ContextDocument && f.typ != ContextScopeDocument) {
		return invalidOp("", "WriteEndDocument called with no open document")
	}
	if w.st != WriterStateName {
		return invalidOp("", "WriteEndDocument called in state %v", w.st)
	}
	w.popFrame()
	w.afterClose()
	return nil
}

func (w *BinaryWriter) WriteStartArray() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if w.st != WriterStateValue {
		return invalidOp("", "WriteStartArray called in state %v", w.st)
	}
	if err := w.writeElementHeader(TypeArray); err != nil {
		return err
	}
	if err := w.pushFrame(ContextArray); err != nil {
		return err
	}
	w.st = WriterStateValue
	return nil
}

func (w *BinaryWriter) WriteEndArray() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	f, ok := w.top()
	if !ok || f.typ != ContextArray {
		return invalidOp("", "WriteEndArray called with no open array")
	}
	w.popFrame()
	w.afterClose()
	return nil
}

func (w *BinaryWriter) WriteName(name string) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if w.st != WriterStateName {
		return invalidOp("", "WriteName called in state %v", w.st)
	}
	f, ok := w.top()
	if !ok || (f.typ != ContextDocument && f.typ != ContextScopeDocument) {
		return invalidOp("", "WriteName called outside a document")
	}
	w.pending = name
	w.haveName = true
	w.st = WriterStateValue
	return nil
}

// writeElementHeader writes the pending element's type tag and name
// (generating "0", "1", ... for array elements), consuming the pending
// name, and requires WriterStateValue.
func (w *BinaryWriter) writeElementHeader(t BsonType) error {
	if w.st != WriterStateValue {
		return invalidOp("", "value write called in state %v", w.st)
	}
	f, ok := w.top()
	if !ok {
		return invalidOp("", "value write called with no open container")
	}
	var name string
	if f.typ == ContextArray {
		name = itoa(f.index)
		f.index++
	} else {
		if !w.haveName {
			return invalidOp("", "value write called without a preceding WriteName")
		}
		name = w.pending
		w.haveName = false
	}
	w.buf = append(w.buf, byte(t))
	if err := w.appendCstring(name); err != nil {
		return err
	}
	return nil
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	pos := len(b)
	for i > 0 {
		pos--
		b[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(b[pos:])
}

func (w *BinaryWriter) appendCstring(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] == 0x00 {
			return serializationErr("", "cstring %q contains an embedded NUL", s)
		}
	}
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0x00)
	return nil
}

func (w *BinaryWriter) appendString(s string) {
	length := uint32(len(s) + 1)
	var lb [4]byte
	binary.LittleEndian.PutUint32(lb[:], length)
	w.buf = append(w.buf, lb[:]...)
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0x00)
}

func (w *BinaryWriter) finishValue() {
	if f, ok := w.top(); ok && f.typ == ContextArray {
		w.st = WriterStateValue
		return
	}
	w.st = WriterStateName
}

func (w *BinaryWriter) WriteDouble(v float64) error {
	if err := w.writeElementHeader(TypeDouble); err != nil {
		return err
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteString(v string) error {
	if err := w.writeElementHeader(TypeString); err != nil {
		return err
	}
	w.appendString(v)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteBinary(v Binary) error {
	if err := w.writeElementHeader(TypeBinary); err != nil {
		return err
	}
	if v.Subtype == SubtypeOldBinary {
		// Legacy subtype 0x02 nests a second length ahead of the payload
		// (spec.md §3.1 Binary edge cases).
		var lb [4]byte
		binary.LittleEndian.PutUint32(lb[:], uint32(len(v.Data)+4))
		w.buf = append(w.buf, lb[:]...)
		w.buf = append(w.buf, byte(v.Subtype))
		binary.LittleEndian.PutUint32(lb[:], uint32(len(v.Data)))
		w.buf = append(w.buf, lb[:]...)
		w.buf = append(w.buf, v.Data...)
	} else {
		var lb [4]byte
		binary.LittleEndian.PutUint32(lb[:], uint32(len(v.Data)))
		w.buf = append(w.buf, lb[:]...)
		w.buf = append(w.buf, byte(v.Subtype))
		w.buf = append(w.buf, v.Data...)
	}
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteUndefined() error {
	if err := w.writeElementHeader(TypeUndefined); err != nil {
		return err
	}
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteObjectId(v ObjectId) error {
	if err := w.writeElementHeader(TypeObjectId); err != nil {
		return err
	}
	w.buf = append(w.buf, v[:]...)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteBoolean(v bool) error {
	if err := w.writeElementHeader(TypeBoolean); err != nil {
		return err
	}
	if v {
		w.buf = append(w.buf, 0x01)
	} else {
		w.buf = append(w.buf, 0x00)
	}
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteDateTime(millis int64) error {
	if err := w.writeElementHeader(TypeDateTime); err != nil {
		return err
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(millis))
	w.buf = append(w.buf, b[:]...)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteNull() error {
	if err := w.writeElementHeader(TypeNull); err != nil {
		return err
	}
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteRegularExpression(v Regex) error {
	if err := w.writeElementHeader(TypeRegularExpression); err != nil {
		return err
	}
	if err := w.appendCstring(v.Pattern); err != nil {
		return err
	}
	if err := w.appendCstring(v.Options); err != nil {
		return err
	}
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteDbPointer(v DbPointer) error {
	if err := w.writeElementHeader(TypeDbPointer); err != nil {
		return err
	}
	w.appendString(v.Namespace)
	w.buf = append(w.buf, v.Id[:]...)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteJavaScript(code string) error {
	if err := w.writeElementHeader(TypeJavaScript); err != nil {
		return err
	}
	w.appendString(code)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteSymbol(v string) error {
	if err := w.writeElementHeader(TypeSymbol); err != nil {
		return err
	}
	w.appendString(v)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteJavaScriptWithScope(code string) error {
	if err := w.writeElementHeader(TypeJavaScriptWithScope); err != nil {
		return err
	}
	if err := w.pushFrame(ContextJavaScriptWithScope); err != nil {
		return err
	}
	w.appendString(code)
	w.st = WriterStateScopeDocument
	return nil
}

func (w *BinaryWriter) WriteInt32(v int32) error {
	if err := w.writeElementHeader(TypeInt32); err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteTimestamp(v Timestamp) error {
	if err := w.writeElementHeader(TypeTimestamp); err != nil {
		return err
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v.Packed())
	w.buf = append(w.buf, b[:]...)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteInt64(v int64) error {
	if err := w.writeElementHeader(TypeInt64); err != nil {
		return err
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteDecimal128(v Decimal128) error {
	if err := w.writeElementHeader(TypeDecimal128); err != nil {
		return err
	}
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], v.Low)
	binary.LittleEndian.PutUint64(b[8:16], v.High)
	w.buf = append(w.buf, b[:]...)
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteMinKey() error {
	if err := w.writeElementHeader(TypeMinKey); err != nil {
		return err
	}
	w.finishValue()
	return nil
}

func (w *BinaryWriter) WriteMaxKey() error {
	if err := w.writeElementHeader(TypeMaxKey); err != nil {
		return err
	}
	w.finishValue()
	return nil
}

// WriteValue writes v under whatever name/position is currently pending,
// recursing through Document/Array/JavaScriptWithScope.
func (w *BinaryWriter) WriteValue(v Value) error {
	return writeValueDispatch(w, v)
}

func (w *BinaryWriter) Close() error {
	w.closed = true
	return nil
}

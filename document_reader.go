package bson

// DocumentReader implements Reader by walking an already-built *Document
// tree instead of wire bytes, giving Pipe a way to re-serialize a
// Document/Array tree to binary (or anywhere else a Writer can go)
// through the exact same pull contract BinaryReader exposes
// (spec.md §4.F).
type DocumentReader struct {
	st           ReaderState
	stack        []treeReaderFrame
	pendingKey   string
	pendingVal   Value
	pendingScope *Document
	closed       bool
}

type treeReaderFrame struct {
	ctxType ContextType
	doc     *Document
	keys    []string
	arr     *Array
	idx     int
}

// NewDocumentReader wraps root for a single top-level ReadStartDocument/
// .../ReadEndDocument/Close sequence.
func NewDocumentReader(root *Document) *DocumentReader {
	return &DocumentReader{st: ReaderStateInitial, pendingScope: root}
}

func (r *DocumentReader) checkOpen() error {
	if r.closed {
		return invalidOp("", "reader is closed")
	}
	return nil
}

func (r *DocumentReader) top() (*treeReaderFrame, bool) {
	if len(r.stack) == 0 {
		return nil, false
	}
	return &r.stack[len(r.stack)-1], true
}

func (r *DocumentReader) ReadStartDocument() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	switch r.st {
	case ReaderStateInitial:
		root := r.pendingScope
		r.pendingScope = nil
		r.stack = append(r.stack, treeReaderFrame{ctxType: ContextDocument, doc: root, keys: root.Keys()})
		r.st = ReaderStateType
		return nil
	case ReaderStateValue:
		d, err := r.pendingVal.AsDocument()
		if err != nil {
			return err
		}
		r.stack = append(r.stack, treeReaderFrame{ctxType: ContextDocument, doc: d, keys: d.Keys()})
		r.st = ReaderStateType
		return nil
	case ReaderStateScopeDocument:
		d := r.pendingScope
		r.pendingScope = nil
		r.stack = append(r.stack, treeReaderFrame{ctxType: ContextScopeDocument, doc: d, keys: d.Keys()})
		r.st = ReaderStateType
		return nil
	default:
		return invalidOp("", "ReadStartDocument called in state %v", r.st)
	}
}

func (r *DocumentReader) ReadBsonType() (BsonType, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}
	if r.st != ReaderStateType {
		return 0, invalidOp("", "ReadBsonType called in state %v", r.st)
	}
	f, ok := r.top()
	if !ok {
		return 0, invalidOp("", "ReadBsonType called with no open container")
	}
	if f.ctxType == ContextArray {
		if f.idx >= f.arr.Len() {
			r.st = ReaderStateEndOfArray
			return endOfDocument, nil
		}
		v, _ := f.arr.Get(f.idx)
		r.pendingKey = itoa(f.idx)
		r.pendingVal = v
	} else {
		if f.idx >= len(f.keys) {
			r.st = ReaderStateEndOfDocument
			return endOfDocument, nil
		}
		key := f.keys[f.idx]
		v, _ := f.doc.Get(key)
		r.pendingKey = key
		r.pendingVal = v
	}
	r.st = ReaderStateName
	return r.pendingVal.BsonType(), nil
}

func (r *DocumentReader) ReadName() (string, error) {
	if r.st != ReaderStateName {
		return "", invalidOp("", "ReadName called in state %v", r.st)
	}
	r.st = ReaderStateValue
	return r.pendingKey, nil
}

func (r *DocumentReader) SkipName() error {
	_, err := r.ReadName()
	return err
}

func (r *DocumentReader) SkipValue() error {
	_, err := r.ReadValue(r.pendingVal.BsonType())
	return err
}

func (r *DocumentReader) expectValue(t BsonType) error {
	if r.st != ReaderStateValue {
		return invalidOp("", "value read called in state %v", r.st)
	}
	if r.pendingVal.typ != t {
		return invalidOp("", "value read expected type %v but element is %v", t, r.pendingVal.typ)
	}
	return nil
}

func (r *DocumentReader) finishValue() {
	f, _ := r.top()
	f.idx++
	r.st = ReaderStateType
}

func (r *DocumentReader) popAndAdvanceParent() {
	if len(r.stack) == 0 {
		r.st = ReaderStateDone
		return
	}
	parent := &r.stack[len(r.stack)-1]
	parent.idx++
	r.st = ReaderStateType
}

func (r *DocumentReader) ReadEndDocument() error {
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
	wasScope := f.ctxType == ContextScopeDocument
	r.stack = r.stack[:len(r.stack)-1]
	if wasScope {
		// Pop the JavaScriptWithScope marker frame beneath the scope too;
		// the element it represents belongs to the frame below that.
		r.stack = r.stack[:len(r.stack)-1]
	}
	r.popAndAdvanceParent()
	return nil
}

func (r *DocumentReader) ReadStartArray() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if err := r.expectValue(TypeArray); err != nil {
		return err
	}
	a, err := r.pendingVal.AsArray()
	if err != nil {
		return err
	}
	r.stack = append(r.stack, treeReaderFrame{ctxType: ContextArray, arr: a})
	r.st = ReaderStateType
	return nil
}

func (r *DocumentReader) ReadEndArray() error {
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
	r.stack = r.stack[:len(r.stack)-1]
	r.popAndAdvanceParent()
	return nil
}

func (r *DocumentReader) ReadDouble() (float64, error) {
	if err := r.expectValue(TypeDouble); err != nil {
		return 0, err
	}
	v, _ := r.pendingVal.AsDouble()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadString() (string, error) {
	if err := r.expectValue(TypeString); err != nil {
		return "", err
	}
	v, _ := r.pendingVal.AsString()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadBinary() (Binary, error) {
	if err := r.expectValue(TypeBinary); err != nil {
		return Binary{}, err
	}
	v, _ := r.pendingVal.AsBinary()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadUndefined() error {
	if err := r.expectValue(TypeUndefined); err != nil {
		return err
	}
	r.finishValue()
	return nil
}

func (r *DocumentReader) ReadObjectId() (ObjectId, error) {
	if err := r.expectValue(TypeObjectId); err != nil {
		return ObjectId{}, err
	}
	v, _ := r.pendingVal.AsObjectId()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadBoolean() (bool, error) {
	if err := r.expectValue(TypeBoolean); err != nil {
		return false, err
	}
	v, _ := r.pendingVal.AsBoolean()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadDateTime() (int64, error) {
	if err := r.expectValue(TypeDateTime); err != nil {
		return 0, err
	}
	v, _ := r.pendingVal.AsDateTime()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadNull() error {
	if err := r.expectValue(TypeNull); err != nil {
		return err
	}
	r.finishValue()
	return nil
}

func (r *DocumentReader) ReadRegularExpression() (Regex, error) {
	if err := r.expectValue(TypeRegularExpression); err != nil {
		return Regex{}, err
	}
	v, _ := r.pendingVal.AsRegularExpression()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadDbPointer() (DbPointer, error) {
	if err := r.expectValue(TypeDbPointer); err != nil {
		return DbPointer{}, err
	}
	v, _ := r.pendingVal.AsDbPointer()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadJavaScript() (string, error) {
	if err := r.expectValue(TypeJavaScript); err != nil {
		return "", err
	}
	v, _ := r.pendingVal.AsJavaScript()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadSymbol() (string, error) {
	if err := r.expectValue(TypeSymbol); err != nil {
		return "", err
	}
	v, _ := r.pendingVal.AsSymbol()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadJavaScriptWithScope() (string, error) {
	if err := r.expectValue(TypeJavaScriptWithScope); err != nil {
		return "", err
	}
	j, _ := r.pendingVal.AsJavaScriptWithScope()
	r.stack = append(r.stack, treeReaderFrame{ctxType: ContextJavaScriptWithScope})
	r.pendingScope = j.Scope
	r.st = ReaderStateScopeDocument
	return j.Code, nil
}

func (r *DocumentReader) ReadInt32() (int32, error) {
	if err := r.expectValue(TypeInt32); err != nil {
		return 0, err
	}
	v, _ := r.pendingVal.AsInt32()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadTimestamp() (Timestamp, error) {
	if err := r.expectValue(TypeTimestamp); err != nil {
		return Timestamp{}, err
	}
	v, _ := r.pendingVal.AsTimestamp()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadInt64() (int64, error) {
	if err := r.expectValue(TypeInt64); err != nil {
		return 0, err
	}
	v, _ := r.pendingVal.AsInt64()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadDecimal128() (Decimal128, error) {
	if err := r.expectValue(TypeDecimal128); err != nil {
		return Decimal128{}, err
	}
	v, _ := r.pendingVal.AsDecimal128()
	r.finishValue()
	return v, nil
}

func (r *DocumentReader) ReadMinKey() error {
	if err := r.expectValue(TypeMinKey); err != nil {
		return err
	}
	r.finishValue()
	return nil
}

func (r *DocumentReader) ReadMaxKey() error {
	if err := r.expectValue(TypeMaxKey); err != nil {
		return err
	}
	r.finishValue()
	return nil
}

func (r *DocumentReader) ReadValue(t BsonType) (Value, error) {
	return readValueDispatch(r, t)
}

func (r *DocumentReader) Close() error {
	r.closed = true
	return nil
}

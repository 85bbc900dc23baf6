package bson

// DocumentWriter implements Writer by building a *Document/*Array tree
// instead of wire bytes, so the same WriteStartDocument/WriteName/WriteXxx
// call sequence a caller uses against BinaryWriter also works to
// materialize a Value tree — and, combined with Pipe, lets a BinaryReader
// decode straight into a *Document without a separate "decode to tree"
// code path (spec.md §4.F).
type DocumentWriter struct {
	st       WriterState
	stack    []treeWriterFrame
	result   *Document
	pending  string
	haveName bool
	closed   bool
	maxDepth int
}

type treeWriterFrame struct {
	typ        ContextType
	doc        *Document
	arr        *Array
	jsCode     string
	keyInParent string
}

// NewDocumentWriter returns a DocumentWriter ready for a single top-level
// WriteStartDocument/.../WriteEndDocument/Close sequence. Call Result after
// Close to retrieve the built Document.
func NewDocumentWriter() *DocumentWriter {
	return &DocumentWriter{maxDepth: DefaultMaxSerializationDepth}
}

// NewDocumentWriterDepth is like NewDocumentWriter but with a caller-chosen
// maximum nesting depth instead of DefaultMaxSerializationDepth. A mutable
// Document/Array tree can contain cycles a plain tree-walk would recurse
// into forever, so this limit is DocumentWriter's only defense against one —
// the same role it plays for BinaryWriter.pushFrame.
func NewDocumentWriterDepth(maxDepth int) *DocumentWriter {
	return &DocumentWriter{maxDepth: maxDepth}
}

func (w *DocumentWriter) pushFrame(f treeWriterFrame) error {
	if len(w.stack) >= w.maxDepth {
		return serializationErr("", "exceeded maximum nesting depth %d", w.maxDepth)
	}
	w.stack = append(w.stack, f)
	return nil
}

// Result returns the completed top-level Document. It is nil until the
// writer has reached WriterStateDone.
func (w *DocumentWriter) Result() *Document { return w.result }

func (w *DocumentWriter) state() WriterState { return w.st }

func (w *DocumentWriter) checkOpen() error {
	if w.closed {
		return invalidOp("", "writer is closed")
	}
	return nil
}

func (w *DocumentWriter) top() (*treeWriterFrame, bool) {
	if len(w.stack) == 0 {
		return nil, false
	}
	return &w.stack[len(w.stack)-1], true
}

func (w *DocumentWriter) WriteStartDocument() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	switch w.st {
	case WriterStateInitial:
		if err := w.pushFrame(treeWriterFrame{typ: ContextDocument, doc: NewDocument()}); err != nil {
			return err
		}
		w.st = WriterStateName
		return nil
	case WriterStateValue:
		key := w.pending
		w.haveName = false
		if err := w.pushFrame(treeWriterFrame{typ: ContextDocument, doc: NewDocument(), keyInParent: key}); err != nil {
			return err
		}
		w.st = WriterStateName
		return nil
	case WriterStateScopeDocument:
		if err := w.pushFrame(treeWriterFrame{typ: ContextScopeDocument, doc: NewDocument()}); err != nil {
			return err
		}
		w.st = WriterStateName
		return nil
	default:
		return invalidOp("", "WriteStartDocument called in state %v", w.st)
	}
}

// attach delivers a fully-built container Value to the frame now on top of
// the stack (the container's parent), using the Array/Document attach rule
// each parent type implies.
func (w *DocumentWriter) attach(key string, v Value) {
	parent, ok := w.top()
	if !ok {
		return
	}
	if parent.typ == ContextArray {
		parent.arr.Append(v)
	} else {
		parent.doc.Append(key, v)
	}
}

func (w *DocumentWriter) afterAttach() {
	if parent, ok := w.top(); ok {
		if parent.typ == ContextArray {
			w.st = WriterStateValue
		} else {
			w.st = WriterStateName
		}
	} else {
		w.st = WriterStateDone
	}
}

func (w *DocumentWriter) WriteEndDocument() error {
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
	w.stack = w.stack[:len(w.stack)-1]
	if f.typ == ContextScopeDocument {
		jsFrame := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		w.attach(jsFrame.keyInParent, NewJavaScriptWithScope(jsFrame.jsCode, f.doc))
		w.afterAttach()
		return nil
	}
	if len(w.stack) == 0 {
		w.result = f.doc
		w.st = WriterStateDone
		return nil
	}
	w.attach(f.keyInParent, DocumentValue(f.doc))
	w.afterAttach()
	return nil
}

func (w *DocumentWriter) WriteStartArray() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if w.st != WriterStateValue {
		return invalidOp("", "WriteStartArray called in state %v", w.st)
	}
	key := w.pending
	w.haveName = false
	if err := w.pushFrame(treeWriterFrame{typ: ContextArray, arr: NewArray(), keyInParent: key}); err != nil {
		return err
	}
	w.st = WriterStateValue
	return nil
}

func (w *DocumentWriter) WriteEndArray() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	f, ok := w.top()
	if !ok || f.typ != ContextArray {
		return invalidOp("", "WriteEndArray called with no open array")
	}
	w.stack = w.stack[:len(w.stack)-1]
	w.attach(f.keyInParent, ArrayValue(f.arr))
	w.afterAttach()
	return nil
}

func (w *DocumentWriter) WriteName(name string) error {
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

func (w *DocumentWriter) attachValue(v Value) error {
	if w.st != WriterStateValue {
		return invalidOp("", "value write called in state %v", w.st)
	}
	f, ok := w.top()
	if !ok {
		return invalidOp("", "value write called with no open container")
	}
	if f.typ == ContextArray {
		f.arr.Append(v)
		w.st = WriterStateValue
		return nil
	}
	if !w.haveName {
		return invalidOp("", "value write called without a preceding WriteName")
	}
	f.doc.Append(w.pending, v)
	w.haveName = false
	w.st = WriterStateName
	return nil
}

func (w *DocumentWriter) WriteDouble(v float64) error { return w.attachValue(NewDouble(v)) }
func (w *DocumentWriter) WriteString(v string) error  { return w.attachValue(NewString(v)) }
func (w *DocumentWriter) WriteBinary(v Binary) error {
	return w.attachValue(Value{typ: TypeBinary, raw: v})
}
func (w *DocumentWriter) WriteUndefined() error { return w.attachValue(NewUndefined()) }
func (w *DocumentWriter) WriteObjectId(v ObjectId) error {
	return w.attachValue(NewObjectIdValue(v))
}
func (w *DocumentWriter) WriteBoolean(v bool) error { return w.attachValue(NewBoolean(v)) }
func (w *DocumentWriter) WriteDateTime(millis int64) error {
	return w.attachValue(NewDateTime(millis))
}
func (w *DocumentWriter) WriteNull() error { return w.attachValue(NewNull()) }
func (w *DocumentWriter) WriteRegularExpression(v Regex) error {
	return w.attachValue(Value{typ: TypeRegularExpression, raw: v})
}
func (w *DocumentWriter) WriteDbPointer(v DbPointer) error {
	return w.attachValue(Value{typ: TypeDbPointer, raw: v})
}
func (w *DocumentWriter) WriteJavaScript(code string) error {
	return w.attachValue(NewJavaScript(code))
}
func (w *DocumentWriter) WriteSymbol(v string) error { return w.attachValue(NewSymbol(v)) }

func (w *DocumentWriter) WriteJavaScriptWithScope(code string) error {
	if w.st != WriterStateValue {
		return invalidOp("", "WriteJavaScriptWithScope called in state %v", w.st)
	}
	f, ok := w.top()
	if !ok {
		return invalidOp("", "WriteJavaScriptWithScope called with no open container")
	}
	var key string
	if f.typ == ContextDocument {
		if !w.haveName {
			return invalidOp("", "WriteJavaScriptWithScope called without a preceding WriteName")
		}
		key = w.pending
		w.haveName = false
	}
	if err := w.pushFrame(treeWriterFrame{typ: ContextJavaScriptWithScope, jsCode: code, keyInParent: key}); err != nil {
		return err
	}
	w.st = WriterStateScopeDocument
	return nil
}

func (w *DocumentWriter) WriteInt32(v int32) error { return w.attachValue(NewInt32(v)) }
func (w *DocumentWriter) WriteTimestamp(v Timestamp) error {
	return w.attachValue(Value{typ: TypeTimestamp, raw: v})
}
func (w *DocumentWriter) WriteInt64(v int64) error { return w.attachValue(NewInt64(v)) }
func (w *DocumentWriter) WriteDecimal128(v Decimal128) error {
	return w.attachValue(NewDecimal128Value(v))
}
func (w *DocumentWriter) WriteMinKey() error { return w.attachValue(NewMinKey()) }
func (w *DocumentWriter) WriteMaxKey() error { return w.attachValue(NewMaxKey()) }

func (w *DocumentWriter) WriteValue(v Value) error {
	return writeValueDispatch(w, v)
}

func (w *DocumentWriter) Close() error {
	w.closed = true
	return nil
}

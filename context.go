package bson

// ContextType tags a frame on a reader or writer's context stack
// (spec.md §4.F "Context and state"), replacing the teacher's implicit
// reliance on Go's own call stack (encodeMap/encodeSlice/encodeEmbeddedDocument
// recursing into each other) with an explicit stack so state can be
// inspected and validated between calls instead of only between recursive
// invocations.
type ContextType int

const (
	ContextTopLevel ContextType = iota
	ContextDocument
	ContextArray
	ContextJavaScriptWithScope
	ContextScopeDocument
)

// ReaderState is one of the pull-reader states spec.md §4.F names.
type ReaderState int

const (
	ReaderStateInitial ReaderState = iota
	ReaderStateType
	ReaderStateName
	ReaderStateValue
	ReaderStateScopeDocument
	ReaderStateEndOfDocument
	ReaderStateEndOfArray
	ReaderStateDone
	ReaderStateClosed
)

// WriterState is one of the push-writer states spec.md §4.F names.
type WriterState int

const (
	WriterStateInitial WriterState = iota
	WriterStateName
	WriterStateValue
	WriterStateScopeDocument
	WriterStateDone
	WriterStateClosed
)

// DefaultMaxSerializationDepth is the writer's default maximum nesting
// depth (spec.md §4.F): the only defence against cycles in user-provided
// container structures, since Document/Array are the only mutable,
// potentially self-referential variants.
const DefaultMaxSerializationDepth = 1024

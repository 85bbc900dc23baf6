package bson

import "time"

// now is the ambient clock capability spec.md §1 calls out as an external
// collaborator ("date/time acquisition, obtained through a now() capability").
// It is a package variable rather than a hard dependency on time.Now so
// tests can substitute a fixed clock without threading a clock argument
// through every constructor — the same shape as the teacher's NewObjectId
// (misc.go), which called time.Now() directly, generalized just enough to
// be swappable.
var now = time.Now

func nowSeconds() int64 {
	return now().Unix()
}

func nowMillis() int64 {
	return now().UnixMilli()
}

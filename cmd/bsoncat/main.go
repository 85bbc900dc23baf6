// Command bsoncat converts between BSON and canonical Extended JSON on
// stdin/stdout, exercising the library's public encode/decode API as one
// runnable artifact.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nilsbr/bson"
)

func main() {
	decode := flag.Bool("d", false, "decode EJSON from stdin and write BSON to stdout")
	flag.BoolVar(decode, "decode", false, "alias for -d")
	flag.Parse()

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal(err)
	}

	if *decode {
		doc, err := bson.UnmarshalEJSONDocument(input)
		if err != nil {
			fatal(err)
		}
		out, err := bson.Marshal(doc)
		if err != nil {
			fatal(err)
		}
		os.Stdout.Write(out)
		return
	}

	doc, err := bson.Unmarshal(input)
	if err != nil {
		fatal(err)
	}
	out, err := bson.MarshalEJSONDocument(doc)
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "bsoncat:", err)
	os.Exit(1)
}

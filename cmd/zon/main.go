// zon - ZON codec CLI tool
//
// Usage:
//
//	zon encode [file]     Convert JSON to ZON ClearText
//	zon decode [file]     Convert ZON ClearText to JSON
//	zon stats [file]      Show size comparison for a JSON input
//	zon version           Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/zon-format/zon-go/zon"
)

const (
	libVersion  = "1.0.0"
	specVersion = "8.0-cleartext"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var input io.Reader = os.Stdin

	fileArg := ""
	for _, arg := range os.Args[2:] {
		if arg != "-" {
			fileArg = arg
		}
	}
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "encode", "from-json":
		cmdEncode(input)
	case "decode", "to-json":
		cmdDecode(input)
	case "stats":
		cmdStats(input)
	case "version", "-v", "--version":
		fmt.Printf("zon %s (spec %s)\n", libVersion, specVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `zon - ZON codec CLI tool

Usage:
  zon encode [file]     Convert JSON to ZON ClearText
  zon decode [file]     Convert ZON ClearText to JSON
  zon stats [file]      Show size comparison for a JSON input
  zon version           Print version info

If no file is given, reads from stdin.

Examples:
  echo '{"meta":"x","items":[{"id":1},{"id":2}]}' | zon encode
  # Output:
  # meta: x
  #
  # @items(2): id
  # 1
  # _

  cat data.json | zon encode > data.zon
  zon decode data.zon > data.json
`)
}

// cmdEncode: JSON -> ZON ClearText
func cmdEncode(r io.Reader) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	v, err := zon.FromJSON(data)
	if err != nil {
		fatal("parse JSON: %v", err)
	}

	fmt.Println(zon.Encode(v))
}

// cmdDecode: ZON ClearText -> JSON
func cmdDecode(r io.Reader) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	v, err := zon.Decode(string(data))
	if err != nil {
		fatal("decode ZON: %v", err)
	}

	out, err := zon.ToJSON(v)
	if err != nil {
		fatal("render JSON: %v", err)
	}
	fmt.Println(string(out))
}

// cmdStats: size comparison for one JSON input
func cmdStats(r io.Reader) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	v, err := zon.FromJSON(data)
	if err != nil {
		fatal("parse JSON: %v", err)
	}

	encoded := zon.Encode(v)

	compact, err := zon.ToJSON(v)
	if err != nil {
		fatal("render JSON: %v", err)
	}

	decoded, err := zon.Decode(encoded)
	if err != nil {
		fatal("round-trip decode: %v", err)
	}
	status := "ok"
	if !decoded.Equal(v) {
		status = "MISMATCH"
	}

	saved := len(compact) - len(encoded)
	pct := 0.0
	if len(compact) > 0 {
		pct = float64(saved) / float64(len(compact)) * 100
	}

	fmt.Printf("json bytes:  %d\n", len(compact))
	fmt.Printf("zon bytes:   %d\n", len(encoded))
	fmt.Printf("saved:       %d (%.1f%%)\n", saved, pct)
	fmt.Printf("round-trip:  %s\n", status)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "zon: "+format+"\n", args...)
	os.Exit(1)
}

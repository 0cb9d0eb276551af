// bench - ZON benchmark runner
//
// Compares ZON ClearText against JSON (minified), YAML and MessagePack over
// a JSON corpus:
//   - Bytes on wire, raw and gzip'd
//   - Round-trip verification for every case
//
// Output: CSV and a stdout summary
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/zon-format/zon-go/zon"
)

type CaseResult struct {
	Name         string
	JSONBytes    int
	YAMLBytes    int
	MsgpackBytes int
	ZONBytes     int
	JSONGzip     int
	ZONGzip      int
	BytesPct     float64
	RoundTrip    bool
}

type Manifest struct {
	Version     string `json:"version"`
	Description string `json:"description"`
	Cases       []struct {
		Name string `json:"name"`
		File string `json:"file"`
	} `json:"cases"`
}

func main() {
	testdataDir := findTestdata()
	if testdataDir == "" {
		fmt.Fprintln(os.Stderr, "Cannot find testdata/corpus directory")
		os.Exit(1)
	}

	manifestData, err := os.ReadFile(filepath.Join(testdataDir, "manifest.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read manifest: %v\n", err)
		os.Exit(1)
	}

	var manifest Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot parse manifest: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "ZON Benchmark Runner\n")
	fmt.Fprintf(os.Stderr, "====================\n")
	fmt.Fprintf(os.Stderr, "Corpus: %s (%d cases)\n\n", manifest.Version, len(manifest.Cases))

	var results []CaseResult
	var totalJSON, totalZON int
	failures := 0

	for _, c := range manifest.Cases {
		jsonData, err := os.ReadFile(filepath.Join(testdataDir, c.File))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", c.Name, err)
			continue
		}

		v, err := zon.FromJSON(jsonData)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: parse error: %v\n", c.Name, err)
			continue
		}

		encoded := zon.Encode(v)

		// Round-trip verification: every corpus case must decode back to a
		// value structurally equal to its input.
		ok := false
		if decoded, err := zon.Decode(encoded); err == nil {
			ok = decoded.Equal(v)
		}
		if !ok {
			failures++
			fmt.Fprintf(os.Stderr, "Round-trip FAILED: %s\n", c.Name)
		}

		jsonMin, err := zon.ToJSON(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: JSON render error: %v\n", c.Name, err)
			continue
		}

		var generic interface{}
		if err := json.Unmarshal(jsonData, &generic); err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: unmarshal error: %v\n", c.Name, err)
			continue
		}
		yamlData, err := yaml.Marshal(generic)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: yaml error: %v\n", c.Name, err)
			continue
		}
		mpData, err := msgpack.Marshal(generic)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: msgpack error: %v\n", c.Name, err)
			continue
		}

		bytesPct := 0.0
		if len(jsonMin) > 0 {
			bytesPct = float64(len(jsonMin)-len(encoded)) / float64(len(jsonMin)) * 100.0
		}

		results = append(results, CaseResult{
			Name:         c.Name,
			JSONBytes:    len(jsonMin),
			YAMLBytes:    len(yamlData),
			MsgpackBytes: len(mpData),
			ZONBytes:     len(encoded),
			JSONGzip:     gzipSize(jsonMin),
			ZONGzip:      gzipSize([]byte(encoded)),
			BytesPct:     bytesPct,
			RoundTrip:    ok,
		})

		totalJSON += len(jsonMin)
		totalZON += len(encoded)
	}

	if csvFile, err := os.Create("bench_results.csv"); err == nil {
		writeCSV(csvFile, results)
		csvFile.Close()
		fmt.Fprintln(os.Stderr, "CSV written to: bench_results.csv")
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Cases:       %d\n", len(results))
	fmt.Printf("JSON total:  %d bytes\n", totalJSON)
	fmt.Printf("ZON total:   %d bytes\n", totalZON)
	if totalJSON > 0 {
		fmt.Printf("Saved:       %d (%.1f%%)\n", totalJSON-totalZON,
			float64(totalJSON-totalZON)/float64(totalJSON)*100)
	}
	fmt.Printf("Round-trip:  %d/%d ok\n", len(results)-failures, len(results))

	if failures > 0 {
		os.Exit(1)
	}
}

// gzipSize returns the gzip'd length of data at default compression.
func gzipSize(data []byte) int {
	var n countWriter
	zw := gzip.NewWriter(&n)
	if _, err := zw.Write(data); err != nil {
		return 0
	}
	if err := zw.Close(); err != nil {
		return 0
	}
	return int(n)
}

type countWriter int

func (c *countWriter) Write(p []byte) (int, error) {
	*c += countWriter(len(p))
	return len(p), nil
}

func findTestdata() string {
	paths := []string{
		"testdata/corpus",
		"../testdata/corpus",
		"../../testdata/corpus",
	}
	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(p, "manifest.json")); err == nil {
			return p
		}
	}
	return ""
}

func writeCSV(w io.Writer, results []CaseResult) {
	fmt.Fprintln(w, "name,json_bytes,yaml_bytes,msgpack_bytes,zon_bytes,json_gzip,zon_gzip,bytes_pct,round_trip")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%d,%d,%d,%d,%d,%d,%.1f,%t\n",
			r.Name, r.JSONBytes, r.YAMLBytes, r.MsgpackBytes, r.ZONBytes,
			r.JSONGzip, r.ZONGzip, r.BytesPct, r.RoundTrip)
	}
}

//go:build mage

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// skipDirs are never walked by Stats.
var skipDirs = map[string]bool{
	".git":      true,
	"vendor":    true,
	"_examples": true,
	"magefiles": true,
	binaryDir:   true,
}

// Stats prints one JSON line with Go line counts per top-level directory
// and the word count of the Markdown docs.
func Stats() error {
	record := map[string]int{}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		lines := bytes.Count(data, []byte("\n"))

		kind := "go_loc_prod"
		if strings.HasSuffix(path, "_test.go") {
			kind = "go_loc_test"
		}
		record[kind] += lines
		record["go_loc"] += lines
		record["go_loc_"+strings.SplitN(filepath.ToSlash(path), "/", 2)[0]] += lines
		return nil
	})
	if err != nil {
		return err
	}

	docs, err := filepath.Glob("*.md")
	if err != nil {
		return err
	}
	for _, path := range docs {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		record["doc_wc"] += len(strings.Fields(string(data)))
	}

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

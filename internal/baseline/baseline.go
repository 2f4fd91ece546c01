// Package baseline is the straightforward sequential reader the parallel
// engine is measured and checked against.
package baseline

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/dhartunian/1brcgo/internal/aggregate"
	"github.com/dhartunian/1brcgo/internal/scan"
	"github.com/dhartunian/1brcgo/internal/table"
)

// Read reads r line by line. It skips the same malformed records the parallel
// engine does and, like the engine, has no limit on line length.
func Read(r io.Reader) (aggregate.Result, error) {
	temps := table.New(0)
	var records uint64

	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimSuffix(line, []byte{'\n'})
			if observe(temps, line) {
				records++
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return aggregate.Result{}, fmt.Errorf("read measurements: %w", err)
		}
	}
	return aggregate.Result{Table: temps, Records: records}, nil
}

// observe adds one line to temps. A trailing "\r" is kept, so "\r\n" lines
// are rejected here just as the engine rejects them.
func observe(temps *table.Table, line []byte) bool {
	city, temp, ok := bytes.Cut(line, []byte{';'})
	if !ok || len(city) == 0 || len(temp) == 0 || !utf8.Valid(city) {
		return false
	}
	v, ok := scan.ParseValue(temp)
	if !ok {
		return false
	}
	temps.Observe(city, v)
	return true
}

// ReadFile opens the named file and reads it with Read.
func ReadFile(path string) (_ aggregate.Result, err error) {
	f, err := os.Open(path)
	if err != nil {
		return aggregate.Result{}, fmt.Errorf("open measurements: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Read(f)
}

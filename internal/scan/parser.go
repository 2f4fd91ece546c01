package scan

import "bytes"

// Parser splits records off the front of a byte slice.
//
// Next examines the record at the start of data and returns its key and value
// spans along with the number of bytes it occupies, terminator included. ok is
// false for a malformed record; n still covers the record so the caller can
// skip it. n is positive whenever data is non-empty.
type Parser interface {
	Next(data []byte) (key, value []byte, n int, ok bool)
	Terminator() byte
}

// Delimited parses records of the form key<Delim>value<Term>.
type Delimited struct {
	Delim byte
	Term  byte
}

// Default parses measurement lines like "Hamburg;12.0\n".
var Default = Delimited{Delim: ';', Term: '\n'}

func (d Delimited) Terminator() byte { return d.Term }

// Next splits the first record off data at the first Term byte.
func (d Delimited) Next(data []byte) (key, value []byte, n int, ok bool) {
	line := data
	n = len(data)
	if end := bytes.IndexByte(data, d.Term); end >= 0 {
		line = data[:end]
		n = end + 1
	}
	sep := bytes.IndexByte(line, d.Delim)
	if sep <= 0 || sep == len(line)-1 {
		// no delimiter, empty key or empty value
		return nil, nil, n, false
	}
	return line[:sep], line[sep+1:], n, true
}

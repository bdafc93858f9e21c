package storage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/cristianoliveira/hnreader/internal/story"
)

// ParseSkipFile reads the count-prefixed skip file format: a count followed
// by that many whitespace separated ids. Reading stops at the first malformed
// token; the ids read so far are returned along with the error.
func ParseSkipFile(r io.Reader) (story.IDSet, error) {
	ids := story.NewIDSet()

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	if !sc.Scan() {
		return ids, sc.Err()
	}
	count, err := strconv.ParseUint(sc.Text(), 10, 64)
	if err != nil {
		return ids, fmt.Errorf("skip file: bad count %q: %w", sc.Text(), err)
	}

	for n := uint64(0); n < count; n++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return ids, fmt.Errorf("skip file: read: %w", err)
			}
			return ids, fmt.Errorf("skip file: truncated after %d of %d ids", n, count)
		}
		id, err := strconv.ParseUint(sc.Text(), 10, 64)
		if err != nil {
			return ids, fmt.Errorf("skip file: bad id %q: %w", sc.Text(), err)
		}
		ids.Add(id)
	}
	return ids, nil
}

// WriteSkipFile writes ids in ascending order in the count-prefixed format.
func WriteSkipFile(w io.Writer, ids story.IDSet) error {
	sorted := ids.Sorted()
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strconv.Itoa(len(sorted))); err != nil {
		return err
	}
	for _, id := range sorted {
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatUint(id, 10))
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

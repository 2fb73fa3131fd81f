package runlog

import "os"

// Cursor tracks one subscriber's progress through a log: how many decoded
// records it has been handed, and the byte size of the file at the last
// delivery. Offsets count records, not lines and not bytes, so malformed
// lines never open gaps in what a subscriber sees.
type Cursor struct {
	Offset int
	Size   int64
}

// Poll reports the records appended since cur was taken, with the advanced
// cursor. Growth detection is a size comparison; only a changed size pays
// for a re-read. The file is always re-decoded from the start because byte
// positions do not line up with record boundaries across partial writes.
//
// A missing file reports nothing and leaves the cursor untouched. A file
// that shrank or was replaced resets the offset to the newly decoded count
// instead of failing; the next poll proceeds normally from there.
func (s *Store) Poll(h Handle, cur Cursor) ([]Record, Cursor) {
	fi, err := os.Stat(h.path)
	if err != nil {
		return nil, cur
	}
	size := fi.Size()
	if size == cur.Size {
		return nil, cur
	}

	records := s.ReadAll(h)
	next := Cursor{Offset: len(records), Size: size}
	if len(records) <= cur.Offset {
		return nil, next
	}
	return records[cur.Offset:], next
}

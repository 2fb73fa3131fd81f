package runlog

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Sentinel failures for archived-log resolution. Both surface to clients as
// a plain not-found; the distinction only matters to logging.
var (
	// ErrNotFound means the name was valid but no such file exists.
	ErrNotFound = errors.New("log not found")
	// ErrInvalidName means the name failed the extension or containment check.
	ErrInvalidName = errors.New("invalid log name")
)

// Naming conventions of the external run loop.
const (
	DefaultCurrentName   = "current-run.jsonl"
	DefaultArchivePrefix = "ralph_"
	DefaultArchiveExt    = ".jsonl"
)

// Scanner sizing: records are single lines but can carry large embedded
// payloads (tool output, diffs).
const (
	scanBufSize = 64 * 1024
	maxLineSize = 1024 * 1024
)

// Handle identifies one log file underneath the store directory.
type Handle struct {
	path string
}

// Path returns the file path the handle resolves to.
func (h Handle) Path() string { return h.path }

// Name returns the file name portion of the handle.
func (h Handle) Name() string { return filepath.Base(h.path) }

// ArchiveInfo is the listing view of one archived log. It is derived from a
// fresh stat on every listing, never cached.
type ArchiveInfo struct {
	Name     string
	Size     int64
	Modified time.Time
}

// Options configure a Store. Zero fields fall back to the run loop's
// conventions.
type Options struct {
	Dir           string
	CurrentName   string
	ArchivePrefix string
	ArchiveExt    string
}

// Store reads one run-log directory. The directory is owned by the external
// run loop: the store never creates, writes, or locks anything in it, and a
// directory that does not exist yet simply reads as empty.
type Store struct {
	dir           string
	currentName   string
	archivePrefix string
	archiveExt    string
}

// NewStore creates a Store over the directory in opts.Dir.
func NewStore(opts Options) *Store {
	if opts.CurrentName == "" {
		opts.CurrentName = DefaultCurrentName
	}
	if opts.ArchivePrefix == "" {
		opts.ArchivePrefix = DefaultArchivePrefix
	}
	if opts.ArchiveExt == "" {
		opts.ArchiveExt = DefaultArchiveExt
	}
	return &Store{
		dir:           opts.Dir,
		currentName:   opts.CurrentName,
		archivePrefix: opts.ArchivePrefix,
		archiveExt:    opts.ArchiveExt,
	}
}

// Dir returns the log directory path.
func (s *Store) Dir() string { return s.dir }

// Current resolves the handle of the mutable, actively written log. The file
// may not exist yet; readers treat that as an empty log.
func (s *Store) Current() Handle {
	return Handle{path: filepath.Join(s.dir, s.currentName)}
}

// ResolveArchived validates name against the archive naming convention and
// returns a handle for it. The name must carry the archive extension and
// must join to a path still inside the store directory; nothing outside the
// directory is ever stat'ed.
func (s *Store) ResolveArchived(name string) (Handle, error) {
	if !strings.HasSuffix(name, s.archiveExt) {
		return Handle{}, ErrInvalidName
	}
	path := filepath.Join(s.dir, name)
	if name != filepath.Base(name) || filepath.Dir(path) != filepath.Clean(s.dir) {
		return Handle{}, ErrInvalidName
	}
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return Handle{}, ErrNotFound
	}
	return Handle{path: path}, nil
}

// ListArchived enumerates archived logs, newest-looking name first. Archive
// names carry a sortable timestamp-bearing prefix, so descending byte-wise
// name order is the listing contract. A missing or empty directory yields an
// empty listing.
func (s *Store) ListArchived() []ArchiveInfo {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	infos := make([]ArchiveInfo, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, s.archivePrefix) || !strings.HasSuffix(name, s.archiveExt) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, ArchiveInfo{Name: name, Size: fi.Size(), Modified: fi.ModTime()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name > infos[j].Name })
	return infos
}

// ReadAll decodes every line of the log in file order. A missing file reads
// as an empty log, and a file that disappears or turns unreadable mid-scan
// yields whatever decoded cleanly before the failure.
func (s *Store) ReadAll(h Handle) []Record {
	f, err := os.Open(h.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, scanBufSize), maxLineSize)
	for sc.Scan() {
		if rec, ok := DecodeLine(sc.Bytes()); ok {
			records = append(records, rec)
		}
	}
	return records
}

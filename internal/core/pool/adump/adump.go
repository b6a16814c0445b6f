package adump

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/fenilsonani/adump/internal/core/chunk"
	"github.com/fenilsonani/adump/internal/core/oid"
	"github.com/fenilsonani/adump/internal/core/pool"
)

// DefaultLimit is the size ceiling for a single pool-data file when the
// pool is created without an explicit limit.
const DefaultLimit = 640 * 1024 * 1024

var poolFileRe = regexp.MustCompile(`^pool-data-(\d{4})\.data$`)

// Pool is a directory-backed chunk store: framed chunks appended to
// serial-numbered pool-data files, each with a sorted sibling index. A
// pool directory is owned by a single writer at a time.
type Pool struct {
	base    string
	uuid    uuid.UUID
	newfile bool
	limit   uint32
	dirty   bool
	files   []*chunkFile
	next    int
}

// Builder carries pool parameters before creation.
type Builder struct {
	dir     string
	newfile bool
	limit   uint32
}

// NewBuilder starts building a pool at dir with default parameters.
func NewBuilder(dir string) *Builder {
	return &Builder{
		dir:     dir,
		newfile: false,
		limit:   DefaultLimit,
	}
}

// SetNewFile changes the pool's newfile flag. When true, every write
// session starts a fresh pool-data file instead of appending, producing
// more, smaller files, which can make synchronization easier.
func (b *Builder) SetNewFile(newfile bool) *Builder {
	b.newfile = newfile
	return b
}

// SetLimit changes the size ceiling for individual pool-data files. The
// value must stay within a positive int32 for compatibility with legacy
// readers of the format.
func (b *Builder) SetLimit(limit uint32) *Builder {
	b.limit = limit
	return b
}

// Create materializes the pool directory. The target must be either a
// path where a directory can be created, or an existing empty directory.
func (b *Builder) Create() error {
	if err := ensureDir(b.dir); err != nil {
		return err
	}
	meta := filepath.Join(b.dir, "metadata")
	seen := filepath.Join(b.dir, "seen")

	if err := os.Mkdir(meta, 0755); err != nil {
		return errors.Wrap(err, "create metadata dir")
	}
	if err := os.Mkdir(seen, 0755); err != nil {
		return errors.Wrap(err, "create seen dir")
	}

	props := fmt.Sprintf("uuid=%s\nnewfile=%t\nlimit=%d\n", uuid.New(), b.newfile, b.limit)
	if err := os.WriteFile(filepath.Join(meta, "props.txt"), []byte(props), 0644); err != nil {
		return errors.Wrap(err, "write props")
	}

	backups, err := os.Create(filepath.Join(meta, "backups.txt"))
	if err != nil {
		return errors.Wrap(err, "create backups marker")
	}
	return backups.Close()
}

// ensureDir requires base to be an empty directory, creating it if it
// does not exist.
func ensureDir(base string) error {
	fi, err := os.Stat(base)
	switch {
	case err == nil && fi.IsDir():
		ents, err := os.ReadDir(base)
		if err != nil {
			return errors.Wrap(err, "read pool dir")
		}
		if len(ents) > 0 {
			return &pool.PathError{Msg: fmt.Sprintf("directory is not empty: %s", base)}
		}
		return nil
	case err == nil:
		return &pool.PathError{Msg: fmt.Sprintf("not a directory: %s", base)}
	default:
		return errors.Wrap(os.Mkdir(base, 0755), "create pool dir")
	}
}

// Open opens an existing pool directory, reading its properties and
// every pool-data file's index.
func Open(dir string) (*Pool, error) {
	f, err := os.Open(filepath.Join(dir, "metadata", "props.txt"))
	if err != nil {
		return nil, errors.Wrap(err, "open props")
	}
	props, err := parseProps(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	id, err := propUUID(props)
	if err != nil {
		return nil, err
	}
	newfile, err := propBool(props, "newfile")
	if err != nil {
		return nil, err
	}
	limit, err := propU32(props, "limit")
	if err != nil {
		return nil, err
	}

	names, next, err := scanPoolFiles(dir)
	if err != nil {
		return nil, err
	}

	files := make([]*chunkFile, 0, len(names))
	for _, name := range names {
		cf, err := openChunkFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, cf)
	}

	return &Pool{
		base:    dir,
		uuid:    id,
		newfile: newfile,
		limit:   limit,
		files:   files,
		next:    next,
	}, nil
}

// scanPoolFiles lists pool-data file names in ascending serial order and
// computes the next unused serial.
func scanPoolFiles(dir string) ([]string, int, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, errors.Wrap(err, "read pool dir")
	}

	var names []string
	next := 0
	for _, ent := range ents {
		m := poolFileRe.FindStringSubmatch(ent.Name())
		if m == nil {
			continue
		}
		serial, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		names = append(names, ent.Name())
		if serial+1 > next {
			next = serial + 1
		}
	}
	sort.Strings(names)
	return names, next, nil
}

func propUUID(props map[string]string) (uuid.UUID, error) {
	text, ok := props["uuid"]
	if !ok {
		return uuid.UUID{}, &pool.PropertyError{Msg: "missing key: uuid"}
	}
	id, err := uuid.Parse(text)
	if err != nil {
		return uuid.UUID{}, &pool.PropertyError{Msg: fmt.Sprintf("bad uuid %q: %v", text, err)}
	}
	return id, nil
}

func propBool(props map[string]string, key string) (bool, error) {
	text, ok := props[key]
	if !ok {
		return false, &pool.PropertyError{Msg: "missing key: " + key}
	}
	v, err := strconv.ParseBool(text)
	if err != nil {
		return false, &pool.PropertyError{Msg: fmt.Sprintf("bad %s %q: %v", key, text, err)}
	}
	return v, nil
}

func propU32(props map[string]string, key string) (uint32, error) {
	text, ok := props[key]
	if !ok {
		return 0, &pool.PropertyError{Msg: "missing key: " + key}
	}
	v, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, &pool.PropertyError{Msg: fmt.Sprintf("bad %s %q: %v", key, text, err)}
	}
	return uint32(v), nil
}

// Find scans the pool files in order and returns the first match.
func (p *Pool) Find(id oid.Oid) (*chunk.Chunk, error) {
	for _, cf := range p.files {
		if cf.containsKey(id) {
			return cf.find(id)
		}
	}
	return nil, pool.ErrMissingChunk
}

// ContainsKey reports whether any pool file holds the oid.
func (p *Pool) ContainsKey(id oid.Oid) (bool, error) {
	for _, cf := range p.files {
		if cf.containsKey(id) {
			return true, nil
		}
	}
	return false, nil
}

// UUID returns the pool identity assigned at creation.
func (p *Pool) UUID() uuid.UUID {
	return p.uuid
}

// Backups collects the oids of all backup-root chunks across the pool.
func (p *Pool) Backups() ([]oid.Oid, error) {
	var result []oid.Oid
	for _, cf := range p.files {
		result = cf.appendBackups(result)
	}
	return result, nil
}

// BeginWriting is a no-op for this layout; it exists so pool variants
// backed by transactional stores can open a transaction.
func (p *Pool) BeginWriting() error {
	return nil
}

// Add appends the chunk to the last pool file, starting a new file when
// there is none, when the newfile flag asks for one file per session, or
// when the append would push the file past the size limit.
func (p *Pool) Add(c *chunk.Chunk) error {
	need := frameSize(c)

	rollover := false
	switch {
	case len(p.files) == 0:
		rollover = true
	case p.newfile && !p.dirty:
		rollover = true
	case p.files[len(p.files)-1].size+need > p.limit:
		rollover = true
	}

	if rollover {
		name := fmt.Sprintf("pool-data-%04d.data", p.next)
		cf, err := createChunkFile(filepath.Join(p.base, name))
		if err != nil {
			return err
		}
		p.next++
		p.files = append(p.files, cf)
	}

	if err := p.files[len(p.files)-1].add(c); err != nil {
		return err
	}
	p.dirty = true
	return nil
}

// Flush writes out the index of every file with pending entries.
func (p *Pool) Flush() error {
	for _, cf := range p.files {
		if err := cf.flush(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and releases every file descriptor.
func (p *Pool) Close() error {
	if err := p.Flush(); err != nil {
		return err
	}
	var first error
	for _, cf := range p.files {
		if err := cf.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

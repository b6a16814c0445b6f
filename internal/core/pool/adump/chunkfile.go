package adump

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/fenilsonani/adump/internal/core/chunk"
	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/oid"
	"github.com/fenilsonani/adump/internal/core/pool"
)

// maxFileSize is the largest permitted pool-file, kept within a positive
// int32 for compatibility with legacy readers of this format.
const maxFileSize = 1<<31 - 1

// descriptor state of a chunkFile.
type fileMode int

const (
	modeClosed fileMode = iota
	modeReading
	modeWriting
)

// chunkFile is one append-only pool-data file together with its index.
// The file descriptor is opened lazily: read-only on the first read, and
// read-write append only once a write happens. Buffered reads and writes
// never interleave; the mode flips drain one side before switching.
type chunkFile struct {
	path     string
	index    *pairIndex
	fd       *os.File
	reader   *bufio.Reader
	writer   *bufio.Writer
	mode     fileMode
	writable bool
	size     uint32
}

// indexPath returns the sibling .idx path for a .data path.
func indexPath(dataPath string) string {
	ext := ".data"
	if len(dataPath) > len(ext) && dataPath[len(dataPath)-len(ext):] == ext {
		return dataPath[:len(dataPath)-len(ext)] + ".idx"
	}
	return dataPath + ".idx"
}

// openChunkFile opens an existing pool-data file, loading its index
// against the current file size. An InvalidIndexError propagates so the
// caller can decide to rebuild; any other index failure is wrapped as
// one.
func openChunkFile(path string) (*chunkFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat pool file %s", path)
	}
	if !fi.Mode().IsRegular() {
		return nil, &pool.CorruptPoolError{Msg: fmt.Sprintf("pool file is not regular: %s", path)}
	}
	if fi.Size() > maxFileSize {
		return nil, &pool.CorruptPoolError{Msg: fmt.Sprintf("pool file too large: %s", path)}
	}
	size := uint32(fi.Size())

	idx, err := loadPairIndex(indexPath(path), size)
	if err != nil {
		var invalid *InvalidIndexError
		if !errors.As(err, &invalid) {
			err = &InvalidIndexError{Msg: "index load failed", Err: err}
		}
		return nil, err
	}

	return &chunkFile{
		path:  path,
		index: idx,
		mode:  modeClosed,
		size:  size,
	}, nil
}

// createChunkFile creates a fresh pool-data file. The path must not
// already exist. The descriptor starts in write mode.
func createChunkFile(path string) (*chunkFile, error) {
	fd, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "create pool file %s", path)
	}
	return &chunkFile{
		path:     path,
		index:    emptyPairIndex(),
		fd:       fd,
		writer:   bufio.NewWriter(fd),
		mode:     modeWriting,
		writable: true,
		size:     0,
	}, nil
}

// read readies the descriptor for seeking reads. A buffered writer is
// drained first; if that flush fails the descriptor state is no longer
// trustworthy, so the file is closed and the failure surfaced as pool
// corruption.
func (cf *chunkFile) read() error {
	switch cf.mode {
	case modeReading:
		return nil
	case modeClosed:
		fd, err := os.Open(cf.path)
		if err != nil {
			return errors.Wrapf(err, "open pool file %s", cf.path)
		}
		cf.fd = fd
		cf.reader = bufio.NewReader(fd)
		cf.mode = modeReading
		return nil
	default: // modeWriting
		if err := cf.writer.Flush(); err != nil {
			cf.fd.Close()
			cf.fd = nil
			cf.writer = nil
			cf.mode = modeClosed
			return &pool.CorruptPoolError{Msg: fmt.Sprintf("error flushing buffer: %v", err)}
		}
		cf.writer = nil
		if cf.reader == nil {
			cf.reader = bufio.NewReader(cf.fd)
		}
		cf.mode = modeReading
		return nil
	}
}

// write readies the descriptor for appending. A descriptor that was
// opened read-only is reopened in read-write append mode.
func (cf *chunkFile) write() error {
	switch cf.mode {
	case modeWriting:
		return nil
	case modeReading:
		if !cf.writable {
			cf.fd.Close()
			fd, err := os.OpenFile(cf.path, os.O_RDWR|os.O_APPEND, 0644)
			if err != nil {
				cf.fd = nil
				cf.reader = nil
				cf.mode = modeClosed
				return errors.Wrapf(err, "reopen pool file for append %s", cf.path)
			}
			cf.fd = fd
			cf.writable = true
		}
		cf.reader = nil
		cf.writer = bufio.NewWriter(cf.fd)
		cf.mode = modeWriting
		return nil
	default: // modeClosed
		fd, err := os.OpenFile(cf.path, os.O_RDWR|os.O_APPEND, 0644)
		if err != nil {
			return errors.Wrapf(err, "open pool file for append %s", cf.path)
		}
		cf.fd = fd
		cf.writer = bufio.NewWriter(fd)
		cf.writable = true
		cf.mode = modeWriting
		return nil
	}
}

// close releases the descriptor, draining any buffered writes first.
func (cf *chunkFile) close() error {
	if cf.mode == modeWriting {
		if err := cf.writer.Flush(); err != nil {
			cf.fd.Close()
			cf.resetDescriptor()
			return err
		}
	}
	var err error
	if cf.fd != nil {
		err = cf.fd.Close()
	}
	cf.resetDescriptor()
	return err
}

func (cf *chunkFile) resetDescriptor() {
	cf.fd = nil
	cf.reader = nil
	cf.writer = nil
	cf.mode = modeClosed
}

// containsKey reports whether this file holds the oid.
func (cf *chunkFile) containsKey(key oid.Oid) bool {
	return cf.index.containsKey(key)
}

// find looks the oid up in the index and decodes its frame.
func (cf *chunkFile) find(key oid.Oid) (*chunk.Chunk, error) {
	info, ok := cf.index.get(key)
	if !ok {
		return nil, pool.ErrMissingChunk
	}
	if err := cf.read(); err != nil {
		return nil, err
	}
	if _, err := cf.fd.Seek(int64(info.offset), io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "seek in pool file %s", cf.path)
	}
	cf.reader.Reset(cf.fd)

	c, err := readChunk(cf.reader)
	if err != nil {
		return nil, err
	}
	if c.Oid() != key {
		return nil, &chunk.CorruptChunkError{
			Msg: fmt.Sprintf("chunk at offset %d has oid %s, expected %s", info.offset, c.Oid(), key),
		}
	}
	return c, nil
}

// add appends the chunk's frame and records it in the ram index layer.
func (cf *chunkFile) add(c *chunk.Chunk) error {
	if err := cf.write(); err != nil {
		return err
	}
	pos := cf.size
	if err := writeChunk(cf.writer, c); err != nil {
		return err
	}
	cf.index.insert(c.Oid(), pos, c.Kind())
	cf.size = pos + frameSize(c)
	return nil
}

// flush drains buffered writes and, if the session added chunks, installs
// a fresh index file atomically and reloads it so later reads go through
// the on-disk form.
func (cf *chunkFile) flush() error {
	if cf.mode == modeWriting {
		if err := cf.writer.Flush(); err != nil {
			return err
		}
	}
	if !cf.index.isDirty() {
		return nil
	}
	ipath := indexPath(cf.path)
	if err := cf.index.save(ipath, cf.size); err != nil {
		return err
	}
	idx, err := loadPairIndex(ipath, cf.size)
	if err != nil {
		return err
	}
	cf.index = idx
	return nil
}

// appendBackups collects the oids of all backup-root entries in this
// file's index.
func (cf *chunkFile) appendBackups(dst []oid.Oid) []oid.Oid {
	for _, ent := range cf.index.appendEntries(nil) {
		if ent.kind == kind.Back {
			dst = append(dst, ent.oid)
		}
	}
	return dst
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/adump/internal/core/chunk"
	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/pkg/cas"
)

// chunkSize is how much file data goes into one blob chunk.
const chunkSize = 256 * 1024

func newStoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store <pool> <dir>",
		Short: "Walk a directory tree and store its file data as chunks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := cas.Open(args[0])
			if err != nil {
				return err
			}

			w := newWalker(pool)
			if err := w.walk(args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"stored %d files in %d dirs: %d chunks (%s), %d duplicate chunks (%s)\n",
				w.files, w.dirs,
				w.chunks, humanize.Bytes(w.bytes),
				w.dupChunks, humanize.Bytes(w.dupBytes))
			return nil
		},
	}
	return cmd
}

// walker chops every regular file under a root into blob chunks and
// writes them to the pool, deduplicating against what is already there.
type walker struct {
	pool cas.ChunkSource

	files     uint64
	dirs      uint64
	chunks    uint64
	bytes     uint64
	dupChunks uint64
	dupBytes  uint64
}

func newWalker(pool cas.ChunkSource) *walker {
	return &walker{pool: pool}
}

func (w *walker) walk(root string) error {
	if err := w.pool.BeginWriting(); err != nil {
		return err
	}
	if err := w.walkDir(root); err != nil {
		return err
	}
	return w.pool.Flush()
}

func (w *walker) walkDir(dir string) error {
	log.Debugf("dir %s", dir)

	ents, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var dirs, files []string
	for _, ent := range ents {
		path := filepath.Join(dir, ent.Name())
		switch {
		case ent.IsDir():
			dirs = append(dirs, path)
		case ent.Type().IsRegular():
			files = append(files, path)
		}
		// Skip other node types.
	}
	sort.Strings(dirs)
	sort.Strings(files)

	// Walk deeply first.
	for _, sub := range dirs {
		if err := w.walkDir(sub); err != nil {
			return err
		}
	}
	for _, file := range files {
		if err := w.encodeFile(file); err != nil {
			return err
		}
	}

	w.dirs++
	return nil
}

func (w *walker) encodeFile(name string) error {
	log.Debugf("file %s", name)

	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		buf := make([]byte, chunkSize)
		count, err := io.ReadFull(f, buf)
		if err == io.EOF {
			break
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return err
		}

		ch := chunk.NewPlain(kind.Blob, buf[:count])
		present, err := w.pool.ContainsKey(ch.Oid())
		if err != nil {
			return err
		}
		if present {
			w.dupChunks++
			w.dupBytes += uint64(count)
		} else {
			if err := w.pool.Add(ch); err != nil {
				return err
			}
			w.chunks++
			w.bytes += uint64(count)
		}

		if count < chunkSize {
			break
		}
	}

	w.files++
	return nil
}

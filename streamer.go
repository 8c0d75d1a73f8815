// Copyright (c) 2023 wetrycode
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultChunkSize bytes moved per write when streaming a file
const DefaultChunkSize = 4096

// FileResolver maps a request path onto a servable file
type FileResolver interface {
	// Resolve returns the file name to stream and its size in bytes.
	// Missing files yield an error wrapping ErrFileNotFound.
	Resolve(requestPath string) (string, int64, error)
}

// FileStreamer transmits a resolved file in bounded chunks
type FileStreamer interface {
	Stream(w io.Writer, name string) (int64, error)
}

// DocumentRoot resolves and streams files of a directory tree
type DocumentRoot struct {
	fs        afero.Fs
	index     string
	chunkSize int
	chunkPool *sync.Pool
}

// DocumentRootOption NewDocumentRoot 可选参数
type DocumentRootOption func(d *DocumentRoot)

var fileLog *logrus.Entry = GetLogger("file")

// DocumentRootWithIndex file served for directories and the root path
func DocumentRootWithIndex(index string) DocumentRootOption {
	return func(d *DocumentRoot) {
		d.index = index
	}
}

// DocumentRootWithChunkSize bytes per streamed chunk
func DocumentRootWithChunkSize(chunkSize int) DocumentRootOption {
	return func(d *DocumentRoot) {
		if chunkSize > 0 {
			d.chunkSize = chunkSize
		}
	}
}

// NewDocumentRoot serves the files of fs, whose root is the document root
func NewDocumentRoot(fs afero.Fs, opts ...DocumentRootOption) *DocumentRoot {
	d := &DocumentRoot{
		fs:        fs,
		index:     "index.html",
		chunkSize: DefaultChunkSize,
	}
	for _, o := range opts {
		o(d)
	}
	size := d.chunkSize
	d.chunkPool = &sync.Pool{
		New: func() interface{} {
			buf := make([]byte, size)
			return &buf
		},
	}
	return d
}

// NewOsDocumentRoot serves the directory root of the local disk
func NewOsDocumentRoot(root string, opts ...DocumentRootOption) *DocumentRoot {
	return NewDocumentRoot(afero.NewBasePathFs(afero.NewOsFs(), root), opts...)
}

func (d *DocumentRoot) stat(name string) (os.FileInfo, error) {
	info, err := d.fs.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, err
	}
	return info, nil
}

// Resolve cleans requestPath inside the root. The empty path and directories
// resolve to the index file.
func (d *DocumentRoot) Resolve(requestPath string) (string, int64, error) {
	name := path.Clean("/" + requestPath)
	if name == "/" {
		name = path.Join(name, d.index)
	}
	info, err := d.stat(name)
	if err != nil {
		return "", 0, err
	}
	if info.IsDir() {
		name = path.Join(name, d.index)
		info, err = d.stat(name)
		if err != nil {
			return "", 0, err
		}
	}
	if !info.Mode().IsRegular() {
		return "", 0, fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, name)
	}
	return name, info.Size(), nil
}

// Stream copies the file to w chunkSize bytes at a time
func (d *DocumentRoot) Stream(w io.Writer, name string) (int64, error) {
	f, err := d.fs.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	buf := d.chunkPool.Get().(*[]byte)
	defer d.chunkPool.Put(buf)
	n, err := io.CopyBuffer(w, f, *buf)
	if err != nil {
		return n, fmt.Errorf("stream %s error %w", name, err)
	}
	fileLog.Debugf("file %s sent, %s", name, humanize.Bytes(uint64(n)))
	return n, nil
}

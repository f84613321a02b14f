package models

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrIsDirectory is returned when a directory is opened as a single file
var ErrIsDirectory = errors.New("path is a directory")

// AllowedExtensions are the file types the gallery accepts
var AllowedExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif",
	".mp4", ".avi", ".mov",
	".pdf", ".doc", ".docx", ".txt",
}

// IsAllowedFile reports whether the gallery accepts a file with this name
func IsAllowedFile(name string) bool {
	return slices.Contains(AllowedExtensions, strings.ToLower(filepath.Ext(name)))
}

// FileHandle is a reference to a raw local file selected for upload
type FileHandle interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadCloser, error)
}

// FileKind groups content types the way the gallery displays them
type FileKind string

const (
	KindImage    FileKind = "image"
	KindVideo    FileKind = "video"
	KindDocument FileKind = "document"
)

// KindOf classifies a content type
func KindOf(contentType string) FileKind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo
	default:
		return KindDocument
	}
}

// LocalFile is a FileHandle backed by a path on disk.
// Name, size and content type are captured when the file is selected.
type LocalFile struct {
	Path        string `json:"path"`
	FileName    string `json:"name"`
	FileSize    int64  `json:"size"`
	ContentKind string `json:"content_type"`
}

// NewLocalFile stats the file at path and captures its metadata
func NewLocalFile(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	contentType, err := detectContentType(path)
	if err != nil {
		return nil, err
	}

	return &LocalFile{
		Path:        path,
		FileName:    filepath.Base(path),
		FileSize:    info.Size(),
		ContentKind: contentType,
	}, nil
}

func (f *LocalFile) Name() string        { return f.FileName }
func (f *LocalFile) Size() int64         { return f.FileSize }
func (f *LocalFile) ContentType() string { return f.ContentKind }

// Open opens the file for reading
func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// ExpandPaths turns command line arguments into local files.
// Directories expand to the accepted regular files below them in lexical
// order, skipping hidden entries; argument order is preserved otherwise.
// A file named explicitly is always kept, whatever its type.
func ExpandPaths(paths []string) ([]*LocalFile, error) {
	var files []*LocalFile

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}

		if !info.IsDir() {
			file, err := NewLocalFile(path)
			if err != nil {
				return nil, err
			}
			files = append(files, file)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// Skip hidden directories
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") || !IsAllowedFile(d.Name()) {
				return nil
			}
			file, err := NewLocalFile(p)
			if err != nil {
				return err
			}
			files = append(files, file)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
	}

	return files, nil
}

// detectContentType resolves the content type from the extension,
// falling back to sniffing the file header
func detectContentType(path string) (string, error) {
	if contentType := contentTypeFromFilename(path); contentType != "" {
		return contentType, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header := make([]byte, 512)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading %s: %w", path, err)
	}

	return http.DetectContentType(header[:n]), nil
}

// contentTypeFromFilename returns the content type based on the file extension
func contentTypeFromFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".avi":
		return "video/x-msvideo"
	case ".mov":
		return "video/quicktime"
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	if contentType := mime.TypeByExtension(ext); contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			return mediaType
		}
	}

	return ""
}

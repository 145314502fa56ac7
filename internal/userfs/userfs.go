// Package userfs resolves a session's requested path against its
// current directory and rejects anything that escapes the user's
// jailed root, and provides the plain file operations (directory
// listing, file create/read) the transfer handlers need once a path
// has cleared the sandbox.
package userfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/telebroad/ftpd/internal/wire"
)

// Jail confines path resolution to one user's home directory under the
// server's users root.
type Jail struct {
	root string // canonical absolute path, no trailing separator
}

// NewJail canonicalizes usersRoot/username and returns a Jail rooted
// there. The directory must already exist (users.Load creates it).
func NewJail(usersRoot, username string) (*Jail, error) {
	root := filepath.Join(usersRoot, username)
	canon, err := canonicalize(root)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing user root: %w", err)
	}
	return &Jail{root: canon}, nil
}

// Root returns the jail's canonical root directory.
func (j *Jail) Root() string {
	return j.root
}

// canonicalize resolves ".", "..", and symlinks in p, which must exist.
func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// contains reports whether candidate is the jail root or a descendant
// of it, compared component-wise (not by raw string prefix, which
// would wrongly accept a sibling like "/Users/alice2" against root
// "/Users/alice").
func (j *Jail) contains(candidate string) bool {
	if candidate == j.root {
		return true
	}
	return strings.HasPrefix(candidate, j.root+string(filepath.Separator))
}

// ResolveDir resolves requested (a CWD argument, absolute or relative)
// against currentDir and returns the canonical directory path. It
// fails if the result does not exist, is not a directory, or escapes
// the jail.
func (j *Jail) ResolveDir(currentDir, requested string) (string, error) {
	var candidate string
	if filepath.IsAbs(requested) {
		candidate = filepath.Join(j.root, requested)
	} else {
		candidate = filepath.Join(currentDir, requested)
	}

	info, err := os.Stat(candidate)
	if err != nil {
		return "", fmt.Errorf("no such file or directory")
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory")
	}

	canon, err := canonicalize(candidate)
	if err != nil {
		return "", fmt.Errorf("no such file or directory")
	}
	if !j.contains(canon) {
		return "", fmt.Errorf("no such file or directory")
	}
	return canon, nil
}

// Relative returns dir with the jail root stripped, FTP-style
// ("/" for the root itself, "/sub/dir" otherwise).
func (j *Jail) Relative(dir string) string {
	rel := strings.TrimPrefix(dir, j.root)
	if rel == "" {
		return "/"
	}
	return filepath.ToSlash(rel)
}

// ValidateFilename rejects STOR/RETR arguments that are empty or
// contain a path separator: transfer targets always live in the
// session's current directory.
func ValidateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("missing filename")
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, '\\') {
		return fmt.Errorf("filename must not contain a path separator")
	}
	return nil
}

// ListNames returns the entries of dir, skipping "." and "..". All
// other dot-files are included.
func ListNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// CreateFile writes all bytes from r into "<dir>/<name>", truncating
// any existing file, and returns the number of bytes written. name
// must already have passed ValidateFilename.
func CreateFile(dir, name string, r io.Reader) (int64, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return wire.CopyChunked(f, r)
}

// OpenRegularFile opens "<dir>/<name>" for reading, failing if it does
// not exist or is not a regular file.
func OpenRegularFile(dir, name string) (*os.File, error) {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("no such file")
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file")
	}
	return os.Open(path)
}

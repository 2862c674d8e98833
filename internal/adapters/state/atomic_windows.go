//go:build windows

package state

import "os"

// atomicWriteFile writes data to a file.
// On Windows, renameio cannot guarantee atomicity, so we fall back to a
// write-then-rename via a temp file in the same directory.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCategoryFolders verifies that no category folder name inside root is
// taken by something other than a writable directory. Folders that do not
// exist yet pass; they are created on first use.
func CheckCategoryFolders(root string, folders []string) Result {
	const name = "Category folders"
	var blocked []string
	for _, folder := range folders {
		path := filepath.Join(root, folder)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil || !info.IsDir() {
			blocked = append(blocked, folder)
			continue
		}
		if unix.Access(path, unix.W_OK|unix.X_OK) != nil {
			blocked = append(blocked, folder)
		}
	}
	if len(blocked) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("not usable as folders: %v", blocked)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d folders ok", len(folders))}
}

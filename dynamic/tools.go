package dynamic

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZenLiuCN/fn"
)

// CopyFile from src to dest with optional src file info
func CopyFile(src string, dest string, si fs.FileInfo) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(sf)
	df, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(df)
	_, err = io.Copy(df, sf)
	if err == nil {
		if si == nil {
			si, err = os.Stat(src)
			if err != nil {
				return
			}
		}
		err = os.Chmod(dest, si.Mode())
	}
	return
}

// Install copies a built module into the module directory of l under identifier name, returns the installed path.
func (s *Loader) Install(src, name string) (dest string, err error) {
	if err = os.MkdirAll(s.Dir, 0o755); err != nil {
		return
	}
	dest = s.ModulePath(name)
	if abs, e := filepath.Abs(src); e == nil {
		if d, e := filepath.Abs(dest); e == nil && d == abs {
			return
		}
	}
	err = CopyFile(src, dest, nil)
	return
}

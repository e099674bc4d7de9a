//go:build !unix

package diskusage

import (
	"os"
)

// Stat returns size and time metadata for path. Platforms without block
// counts report the apparent size as actual usage and the modification time
// as the access time.
func Stat(path string) (Info, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Actual:     fi.Size(),
		Apparent:   fi.Size(),
		ModTime:    fi.ModTime(),
		AccessTime: fi.ModTime(),
		IsDir:      fi.IsDir(),
		IsRegular:  fi.Mode().IsRegular(),
	}, nil
}

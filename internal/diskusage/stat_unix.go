//go:build unix

package diskusage

import (
	"time"

	"golang.org/x/sys/unix"
)

// blockUnit is the size of the units st_blocks is counted in.
const blockUnit = 512

// Stat returns size and time metadata for path without following symlinks.
func Stat(path string) (Info, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return Info{}, err
	}
	mode := uint32(st.Mode) & unix.S_IFMT
	return Info{
		Actual:     int64(st.Blocks) * blockUnit,
		Apparent:   int64(st.Size),
		ModTime:    time.Unix(st.Mtim.Unix()),
		AccessTime: time.Unix(st.Atim.Unix()),
		IsDir:      mode == unix.S_IFDIR,
		IsRegular:  mode == unix.S_IFREG,
	}, nil
}

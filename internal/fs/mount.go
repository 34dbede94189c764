package fs

import (
	"errors"
	"path/filepath"

	"github.com/moby/sys/mountinfo"
)

// MountPoint returns the deepest mount point that contains path
func MountPoint(path string) (string, error) {
	mounts, err := mountinfo.GetMounts(mountinfo.ParentsFilter(filepath.Clean(path)))
	if err != nil {
		return "", err
	}

	var best string
	for _, m := range mounts {
		if len(m.Mountpoint) > len(best) {
			best = m.Mountpoint
		}
	}
	if best == "" {
		return "", errors.New("no mount point found")
	}
	return best, nil
}

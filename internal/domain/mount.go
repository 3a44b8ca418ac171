package domain

import "fmt"

// MountKind is the kind of filesystem attachment.
type MountKind string

const (
	MountBind   MountKind = "bind"
	MountVolume MountKind = "volume"
	MountTmpfs  MountKind = "tmpfs"
)

// AccessMode is the permission a container has on a mount.
type AccessMode string

const (
	ReadWrite AccessMode = "rw"
	ReadOnly  AccessMode = "ro"
)

// ParseAccessMode accepts "rw", "ro" and the empty string (read-write).
func ParseAccessMode(raw string) (AccessMode, error) {
	switch AccessMode(raw) {
	case "", ReadWrite:
		return ReadWrite, nil
	case ReadOnly:
		return ReadOnly, nil
	default:
		return "", fmt.Errorf("unknown access mode %q (want rw or ro)", raw)
	}
}

// Mount is one entry of a container's mount set.
// Source is a host path for binds, a volume name for volumes and empty for tmpfs.
type Mount struct {
	Kind        MountKind
	Source      string
	Destination string
	AccessMode  AccessMode
}

// ReadOnly reports whether the mount is read-only.
func (m Mount) ReadOnly() bool {
	return m.AccessMode == ReadOnly
}

func (m Mount) String() string {
	if m.Kind == MountTmpfs {
		return fmt.Sprintf("tmpfs:%s:%s", m.Destination, m.AccessMode)
	}
	return fmt.Sprintf("%s:%s:%s:%s", m.Kind, m.Source, m.Destination, m.AccessMode)
}

// NetworkAttachment connects a container to a network under optional aliases.
type NetworkAttachment struct {
	Network string
	Aliases []string
}

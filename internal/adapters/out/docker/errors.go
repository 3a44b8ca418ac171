package docker

import (
	"regexp"
	"strconv"
	"strings"

	cerrdefs "github.com/containerd/errdefs"

	"github.com/bnema/ephemera/internal/domain"
)

// portInUse matches the host port in "Bind for 0.0.0.0:8080 failed: port is
// already allocated" and "listen tcp4 0.0.0.0:8080: bind: address already in use".
var portInUse = regexp.MustCompile(`listen (tcp|udp|sctp)\d? [^ ]*:(\d+): bind|:(\d+) failed: port is already allocated`)

// asPortConflict converts a start error caused by a taken host port.
func asPortConflict(err error) (*domain.PortConflictError, bool) {
	msg := err.Error()
	if !strings.Contains(msg, "port is already allocated") && !strings.Contains(msg, "address already in use") {
		return nil, false
	}

	conflict := &domain.PortConflictError{Protocol: domain.ProtocolTCP, Err: err}
	if m := portInUse.FindStringSubmatch(msg); m != nil {
		if m[1] != "" {
			conflict.Protocol = domain.Protocol(m[1])
		}
		raw := m[2]
		if raw == "" {
			raw = m[3]
		}
		conflict.HostPort, _ = strconv.Atoi(raw)
	}
	return conflict, true
}

// asMountError converts a create error caused by one of mounts.
func asMountError(err error, mounts []domain.Mount) (*domain.MountAttachmentError, bool) {
	msg := err.Error()
	if !strings.Contains(msg, "mount") && !strings.Contains(msg, "bind source path") {
		return nil, false
	}

	for _, m := range mounts {
		if (m.Source != "" && strings.Contains(msg, m.Source)) || strings.Contains(msg, m.Destination) {
			return &domain.MountAttachmentError{Mount: m, Err: err}, true
		}
	}
	if cerrdefs.IsInvalidArgument(err) && len(mounts) > 0 {
		return &domain.MountAttachmentError{Mount: mounts[0], Err: err}, true
	}
	return nil, false
}

// isGone reports errors meaning the container no longer needs stopping or removing.
func isGone(err error) bool {
	if cerrdefs.IsNotFound(err) || cerrdefs.IsNotModified(err) {
		return true
	}
	return cerrdefs.IsConflict(err) && strings.Contains(err.Error(), "already in progress")
}

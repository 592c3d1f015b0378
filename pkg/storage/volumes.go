// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
	"gitlab.com/tozd/go/errors"
)

// DefaultSysfsRoot is where the kernel exposes block device attributes
const DefaultSysfsRoot = "/sys"

// 🖥️ SystemVolumes lists mounts with gopsutil and reads the media kind and
// removable flag of each backing block device from sysfs. Where sysfs is
// absent (non-Linux hosts, pseudo filesystems) the kind stays Unknown.
type SystemVolumes struct {
	SysfsRoot  string
	Partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
}

// 🏭 NewSystemVolumes creates a volume source for the running host
func NewSystemVolumes() *SystemVolumes {
	return &SystemVolumes{
		SysfsRoot:  DefaultSysfsRoot,
		Partitions: disk.PartitionsWithContext,
	}
}

// Volumes implements VolumeSource
func (s *SystemVolumes) Volumes(ctx context.Context) ([]Volume, error) {
	parts, err := s.Partitions(ctx, false)
	if err != nil {
		return nil, errors.Errorf("listing partitions: %w", err)
	}

	volumes := make([]Volume, 0, len(parts))
	for _, p := range parts {
		kind, removable := s.blockAttributes(p.Device)
		volumes = append(volumes, Volume{
			Mountpoint: p.Mountpoint,
			Device:     p.Device,
			Removable:  removable,
			Kind:       kind,
		})
	}
	return volumes, nil
}

// blockAttributes finds the sysfs entry for device. Partitions carry no
// queue directory of their own, so the parent disk is consulted for them.
func (s *SystemVolumes) blockAttributes(device string) (Class, bool) {
	if !strings.HasPrefix(device, "/dev/") {
		return Unknown, false
	}

	// /dev/mapper/* and /dev/disk/by-* are symlinks to the real node
	if resolved, err := filepath.EvalSymlinks(device); err == nil {
		device = resolved
	}

	entry := filepath.Join(s.SysfsRoot, "class", "block", filepath.Base(device))
	dir, err := filepath.EvalSymlinks(entry)
	if err != nil {
		return Unknown, false
	}

	if _, err := os.Stat(filepath.Join(dir, "queue", "rotational")); err != nil {
		dir = filepath.Dir(dir)
	}

	kind := Unknown
	switch readAttr(filepath.Join(dir, "queue", "rotational")) {
	case "0":
		kind = SolidState
	case "1":
		kind = Rotating
	}

	return kind, readAttr(filepath.Join(dir, "removable")) == "1"
}

func readAttr(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

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
	"runtime"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"
)

// PlanThreads picks the worker count for a copy between the two classes.
// A positive override is used as is; zero defers to the table below.
//
//	SSD  x SSD  -> 2 x cpus
//	SSD  x any  -> cpus
//	HDD  x HDD  -> cpus / 2
//	otherwise   -> cpus
//
// The result is never less than one.
func PlanThreads(src, dst Class, override, cpus int) int {
	if override > 0 {
		return override
	}

	var n int
	switch {
	case src == SolidState && dst == SolidState:
		n = 2 * cpus
	case src == SolidState || dst == SolidState:
		n = cpus
	case src == Rotating && dst == Rotating:
		n = cpus / 2
	default:
		n = cpus
	}

	if n < 1 {
		return 1
	}
	return n
}

// LogicalCPUs returns the number of logical processors
func LogicalCPUs(ctx context.Context) int {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil || n < 1 {
		zerolog.Ctx(ctx).Debug().Err(err).Int("fallback", runtime.NumCPU()).Msg("counting logical cpus")
		return runtime.NumCPU()
	}
	return n
}

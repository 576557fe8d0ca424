// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import "github.com/cpmech/gosl/io"

// logf prints a progress message the way fem.FEM reports stage progress,
// gated by k.Verbose exactly as fem.FEM gates its messages on ShowMsg.
func (k *Kernel) logf(format string, args ...interface{}) {
	if k.Verbose {
		io.Pf(format, args...)
	}
}

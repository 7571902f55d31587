// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import "fmt"

// Call is one recorded driver call.
type Call struct {
	Op   string
	Args string
}

func (c Call) String() string {
	if c.Args == "" {
		return c.Op
	}
	return c.Op + " " + c.Args
}

// recorder keeps the ordered call log and per-operation counters.
type recorder struct {
	calls  []Call
	counts map[string]int
}

func (r *recorder) record(op, format string, args ...any) {
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[op]++
	c := Call{Op: op}
	if format != "" {
		c.Args = fmt.Sprintf(format, args...)
	}
	r.calls = append(r.calls, c)
}

// Calls returns a copy of the call log.
func (r *recorder) Calls() []Call {
	return append([]Call(nil), r.calls...)
}

// Count returns how many times op was called, e.g. Count("UseProgram").
func (r *recorder) Count(op string) int {
	return r.counts[op]
}

// ResetCalls clears the call log and the counters. Driver state is kept.
func (r *recorder) ResetCalls() {
	r.calls = nil
	r.counts = nil
}

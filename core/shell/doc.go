// Package shell is the line-processing core of dsh.
//
// A raw line is split on '|' into segments, each segment is tokenized into a
// Command, and the resulting Pipeline is either handed to a built-in (when
// the line is a single built-in command) or run by the Executor as one OS
// process per stage joined by pipes.
//
// The core never prints user-facing messages for parse failures; it returns
// a Result whose Status the read loop turns into text.
package shell

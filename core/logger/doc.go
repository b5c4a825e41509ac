// Package logger builds the diagnostic logger used by dsh. Diagnostics go to
// stderr so they never mix with the output of commands the shell runs.
package logger

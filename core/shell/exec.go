package shell

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog"
)

// Exit statuses recorded for stages whose program never ran, matching the
// conventions of POSIX shells.
const (
	ExitNotExecutable = 126
	ExitNotFound      = 127

	exitSignalBase = 128
)

// StageStatus is how one stage of a pipeline ended.
type StageStatus struct {
	Name string
	Pid  int
	// ExitCode is the process exit code, 128+signal when Signaled, or one of
	// ExitNotFound/ExitNotExecutable when ExecFailed.
	ExitCode int
	Signaled bool
	Signal   syscall.Signal
	// ExecFailed is set when the program could not be found or executed.
	ExecFailed bool
	// Err is the exec failure or a failure waiting on the process.
	Err error
}

// OK reports whether the stage exited normally with status 0.
func (s StageStatus) OK() bool {
	return !s.ExecFailed && !s.Signaled && s.Err == nil && s.ExitCode == 0
}

// Outcome is the result of running a pipeline.
type Outcome struct {
	// Stages holds one status per command, in pipeline order.
	Stages []StageStatus
	// Pipes is the number of pipes that connected the stages.
	Pipes int
}

// FirstFailure returns the index of the leftmost stage that didn't succeed.
func (o *Outcome) FirstFailure() (int, bool) {
	for i, stage := range o.Stages {
		if !stage.OK() {
			return i, true
		}
	}
	return -1, false
}

// OK reports whether every stage succeeded.
func (o *Outcome) OK() bool {
	_, failed := o.FirstFailure()
	return !failed
}

// ExitCode is the aggregate status: 0 when every stage succeeded, otherwise
// the status of the leftmost failing stage.
func (o *Outcome) ExitCode() int {
	i, failed := o.FirstFailure()
	if !failed {
		return 0
	}
	if code := o.Stages[i].ExitCode; code != 0 {
		return code
	}
	return 1
}

// Executor runs pipelines as one OS process per stage.
type Executor struct {
	// Stdin feeds the first stage, nil means the null device.
	Stdin io.Reader
	// Stdout receives the last stage's output, nil means the null device.
	Stdout io.Writer
	// Stderr is shared by every stage and receives exec failures.
	Stderr io.Writer
	// WorkDir is where each stage starts, nil means the shell's own cwd.
	WorkDir WorkDir
	// Env is the stage environment, nil inherits the shell's.
	Env []string

	Log zerolog.Logger

	// pipe and start are swapped by tests to simulate resource failures.
	pipe  func() (*os.File, *os.File, error)
	start func(*exec.Cmd) error
}

type spawnKind int

const (
	// spawnStarted: the stage is running and cmd must be waited on.
	spawnStarted spawnKind = iota
	// spawnExecFailed: the program couldn't be run, the stage is finished
	// with status already recorded.
	spawnExecFailed
	// spawnFailed: process creation failed, the pipeline must be torn down.
	spawnFailed
)

type spawnResult struct {
	kind   spawnKind
	cmd    *exec.Cmd
	status StageStatus
	err    error
}

// Run executes every stage of p concurrently, connected by len(p)-1 pipes,
// and waits for all of them.
//
// A stage whose program is missing or not executable doesn't stop the
// pipeline: its status is recorded and its neighbours see EOF or a broken
// pipe. A failure to create a pipe or a process returns *ExecError after
// closing every pipe and killing and reaping the stages already started.
func (e *Executor) Run(p *Pipeline) (*Outcome, error) {
	n := p.Len()
	if n == 0 {
		return nil, ErrNoCommands
	}

	dir, err := e.dir()
	if err != nil {
		return nil, &ExecError{Stage: -1, Err: err}
	}

	pipes, err := openPipes(n-1, e.pipeFunc())
	if err != nil {
		return nil, &ExecError{Stage: -1, Err: err}
	}
	defer pipes.closeAll()

	pathList := pathFromEnv(e.Env)
	outcome := &Outcome{Stages: make([]StageStatus, n), Pipes: len(pipes)}
	started := make([]*exec.Cmd, n)

	for i, command := range p.Commands {
		res := e.spawn(i, command, pipes, dir, pathList)
		switch res.kind {
		case spawnStarted:
			started[i] = res.cmd
			e.Log.Debug().Int("stage", i).Int("pid", res.cmd.Process.Pid).Strs("argv", command.Argv()).Msg("spawned stage")

		case spawnExecFailed:
			outcome.Stages[i] = res.status
			e.reportExecFailure(res.status)
			e.Log.Debug().Int("stage", i).Err(res.status.Err).Msg("stage could not be executed")

		case spawnFailed:
			e.Log.Debug().Int("stage", i).Err(res.err).Msg("process creation failed, tearing down pipeline")
			pipes.closeAll()
			e.reap(started[:i], outcome, true)
			return nil, &ExecError{Stage: i, Name: command.Name(), Err: res.err}
		}
	}

	// Any write end still held here would keep readers from seeing EOF.
	pipes.closeAll()
	e.reap(started, outcome, false)

	return outcome, nil
}

// spawn starts stage i. It is the only place a process is created and its
// result says which of the three outcomes happened.
func (e *Executor) spawn(i int, command *Command, pipes pipeSet, dir, pathList string) spawnResult {
	name := command.Name()
	path, err := lookPath(dir, pathList, name)
	if err != nil {
		return spawnResult{kind: spawnExecFailed, status: execFailure(name, err)}
	}

	cmd := &exec.Cmd{
		Path:   path,
		Args:   command.Argv(),
		Dir:    dir,
		Env:    e.Env,
		Stdin:  e.Stdin,
		Stdout: e.Stdout,
		Stderr: e.Stderr,
	}
	if i > 0 {
		cmd.Stdin = pipes[i-1].r
	}
	if i < len(pipes) {
		cmd.Stdout = pipes[i].w
	}

	if err := e.startFunc()(cmd); err != nil {
		if isExecFailure(err) {
			return spawnResult{kind: spawnExecFailed, status: execFailure(name, err)}
		}
		return spawnResult{kind: spawnFailed, err: err}
	}
	return spawnResult{kind: spawnStarted, cmd: cmd}
}

// reap waits for every started stage, killing each first when kill is set.
func (e *Executor) reap(started []*exec.Cmd, outcome *Outcome, kill bool) {
	for i, cmd := range started {
		if cmd == nil {
			continue
		}
		if kill {
			_ = cmd.Process.Kill()
		}
		outcome.Stages[i] = waitStage(cmd)
		e.Log.Debug().Int("stage", i).Int("exit_code", outcome.Stages[i].ExitCode).Msg("stage exited")
	}
}

func waitStage(cmd *exec.Cmd) StageStatus {
	err := cmd.Wait()

	status := StageStatus{
		Name: cmd.Args[0],
		Pid:  cmd.Process.Pid,
	}
	if state := cmd.ProcessState; state != nil {
		status.ExitCode = state.ExitCode()
		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			status.Signaled = true
			status.Signal = ws.Signal()
			status.ExitCode = exitSignalBase + int(ws.Signal())
		}
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		status.Err = err
	}
	return status
}

func (e *Executor) reportExecFailure(status StageStatus) {
	if e.Stderr == nil {
		return
	}
	reason := "permission denied"
	if status.ExitCode == ExitNotFound {
		reason = "command not found"
	}
	fmt.Fprintf(e.Stderr, "dsh: %s: %s\n", status.Name, reason)
}

func execFailure(name string, err error) StageStatus {
	code := ExitNotExecutable
	if errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		code = ExitNotFound
	}
	return StageStatus{
		Name:       name,
		ExitCode:   code,
		ExecFailed: true,
		Err:        err,
	}
}

// isExecFailure separates "this program can't run" from "no process could
// be created".
func isExecFailure(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOEXEC)
}

func (e *Executor) dir() (string, error) {
	if e.WorkDir == nil {
		return "", nil
	}
	return e.WorkDir.Getwd()
}

func (e *Executor) pipeFunc() func() (*os.File, *os.File, error) {
	if e.pipe != nil {
		return e.pipe
	}
	return os.Pipe
}

func (e *Executor) startFunc() func(*exec.Cmd) error {
	if e.start != nil {
		return e.start
	}
	return (*exec.Cmd).Start
}

type pipePair struct {
	r, w *os.File
}

// pipeSet holds the pipes between stages, pipes[i] connects stage i to i+1.
type pipeSet []*pipePair

func openPipes(n int, mk func() (*os.File, *os.File, error)) (pipeSet, error) {
	pipes := make(pipeSet, 0, n)
	for i := 0; i < n; i++ {
		r, w, err := mk()
		if err != nil {
			pipes.closeAll()
			return nil, err
		}
		pipes = append(pipes, &pipePair{r: r, w: w})
	}
	return pipes, nil
}

// closeAll closes every end still open, it is safe to call repeatedly.
func (ps pipeSet) closeAll() {
	for _, p := range ps {
		if p.r != nil {
			p.r.Close()
			p.r = nil
		}
		if p.w != nil {
			p.w.Close()
			p.w = nil
		}
	}
}

// open counts the pipe ends the parent still holds.
func (ps pipeSet) open() int {
	count := 0
	for _, p := range ps {
		if p.r != nil {
			count++
		}
		if p.w != nil {
			count++
		}
	}
	return count
}

package tmux

import (
	"io"
	"os/exec"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// Pane is the geometry of a tmux pane in cells.
type Pane struct {
	ID     string
	Left   int
	Top    int
	Width  int
	Height int
	Active bool
	Last   bool
}

var (
	newTmux = func(socketPath string) (tmuxClient, error) {
		clientMu.Lock()
		defer clientMu.Unlock()
		if cachedClient != nil && cachedSocket == socketPath {
			return cachedClient, nil
		}
		var (
			client *gotmux.Tmux
			err    error
		)
		if socketPath != "" {
			client, err = gotmux.NewTmux(socketPath)
		} else {
			client, err = gotmux.DefaultTmux()
		}
		if err != nil {
			return nil, err
		}
		if cachedClient != nil {
			cachedClient.Close()
		}
		cachedClient = client
		cachedSocket = socketPath
		return client, nil
	}

	runExecCommand = func(name string, args ...string) commander {
		return &realCommander{cmd: exec.Command(name, args...)}
	}
)

type tmuxClient interface {
	Command(args ...string) (string, error)
	DisplayMessage(target, format string) (string, error)
	ListClients() ([]*gotmux.Client, error)
	Close() error
}

type commander interface {
	Run() error
	Output() ([]byte, error)
	Start() error
	Wait() error
	SetStdin(io.Reader)
}

type realCommander struct {
	cmd *exec.Cmd
}

func (r *realCommander) Run() error {
	return r.cmd.Run()
}

func (r *realCommander) Output() ([]byte, error) {
	return r.cmd.Output()
}

func (r *realCommander) Start() error {
	return r.cmd.Start()
}

func (r *realCommander) Wait() error {
	return r.cmd.Wait()
}

func (r *realCommander) SetStdin(in io.Reader) {
	r.cmd.Stdin = in
}

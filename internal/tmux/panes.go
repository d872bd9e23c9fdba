package tmux

import (
	"fmt"
	"strconv"
	"strings"
)

const paneFormat = "#{pane_id} #{pane_left} #{pane_top} #{pane_width} #{pane_height} #{pane_active} #{pane_last}"

// ListPanes returns the panes of the window that contains target.
func ListPanes(socketPath, target string) ([]Pane, error) {
	client, err := newTmux(socketPath)
	if err != nil {
		return nil, err
	}
	args := []string{"list-panes", "-F", paneFormat}
	if strings.TrimSpace(target) != "" {
		args = append(args, "-t", target)
	}
	out, err := client.Command(args...)
	if err != nil {
		return nil, err
	}
	var panes []Pane
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := parsePaneLine(line)
		if err != nil {
			return nil, err
		}
		panes = append(panes, p)
	}
	return panes, nil
}

func parsePaneLine(line string) (Pane, error) {
	fields := strings.Fields(line)
	if len(fields) != 7 {
		return Pane{}, fmt.Errorf("unexpected pane line %q", line)
	}
	nums := make([]int, 4)
	for i := range nums {
		n, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return Pane{}, fmt.Errorf("pane line %q: %w", line, err)
		}
		nums[i] = n
	}
	return Pane{
		ID:     fields[0],
		Left:   nums[0],
		Top:    nums[1],
		Width:  nums[2],
		Height: nums[3],
		Active: fields[5] == "1",
		Last:   fields[6] == "1",
	}, nil
}

// PaneOrigin is the top-left cell of pane on the client's screen. A status
// line at the top pushes every pane down by its height.
func PaneOrigin(socketPath, pane string) (int, int, error) {
	client, err := newTmux(socketPath)
	if err != nil {
		return 0, 0, err
	}
	out, err := client.DisplayMessage(pane, "#{pane_left} #{pane_top} #{status} #{status-position}")
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("unexpected pane geometry %q", out)
	}
	left, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("pane geometry %q: %w", out, err)
	}
	top, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("pane geometry %q: %w", out, err)
	}
	if len(fields) >= 4 && fields[3] == "top" {
		top += statusLines(fields[2])
	}
	return left, top, nil
}

func statusLines(v string) int {
	switch v {
	case "off", "0", "":
		return 0
	case "on":
		return 1
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return 0
}

// DeliveryTarget picks the pane that should receive pasted text when the
// request comes from exclude (the bar). It is the active pane of exclude's
// window, or the previously active one when exclude itself has focus.
func DeliveryTarget(socketPath, exclude string) (string, error) {
	panes, err := ListPanes(socketPath, exclude)
	if err != nil {
		return "", err
	}
	var fallback string
	for _, p := range panes {
		if p.ID == exclude {
			continue
		}
		if p.Active {
			return p.ID, nil
		}
		if p.Last {
			fallback = p.ID
		}
		if fallback == "" {
			fallback = p.ID
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("no pane besides %s to deliver to", exclude)
	}
	return fallback, nil
}

// PaneAlive reports whether pane still exists.
func PaneAlive(socketPath, pane string) bool {
	client, err := newTmux(socketPath)
	if err != nil {
		return false
	}
	out, err := client.DisplayMessage(pane, "#{pane_id}")
	return err == nil && strings.TrimSpace(out) == pane
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/example/pixelsuite/internal/session"
)

// batchCmd runs one tool over directories and list files. Flags after the
// batch flags belong to that tool.
type batchCmd struct {
	command
	tool string
	list string
	next runnable
}

func parseBatchCmd(args []string, r *root) (*batchCmd, error) {
	c := &batchCmd{command: newCommand(r, "batch")}
	c.fs.Usage = usageFunc(c)
	c.fs.StringVar(&c.tool, "tool", "", "tool to apply: crop, watermark or mask")
	c.fs.StringVar(&c.list, "list", "", "file listing one input path per line")
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	rest := c.fs.Args()
	if c.list != "" {
		paths, err := readList(c.list)
		if err != nil {
			return nil, err
		}
		rest = append(rest, paths...)
	}
	tool, ok := session.ParseTool(c.tool)
	if !ok && c.tool != "" {
		return nil, usageErrorf(c, "unknown tool %q", c.tool)
	}
	var err error
	switch tool {
	case session.ToolCrop:
		c.next, err = parseCropCmd(rest, r)
	case session.ToolWatermark:
		c.next, err = parseWatermarkCmd(rest, r)
	case session.ToolMask:
		c.next, err = parseMaskCmd(rest, r)
	default:
		return nil, usageErrorf(c, "-tool is required")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *batchCmd) Run() error {
	return c.next.Run()
}

// readList returns the non-empty, non-comment lines of path.
func readList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read list: %w", err)
	}
	return out, nil
}

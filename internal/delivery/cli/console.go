package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/golang/glog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"signaldesk/internal/domain"
)

// Console draws the dashboard on a terminal.
// Output goes to out; the status badge and counters go to status so that
// stdout stays pipeable JSON.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	status io.Writer
	format string

	statusKnown bool
	statusOK    bool
	countsKnown bool
	assets      int
	signals     int
}

// NewConsole creates a console; format is json or table
func NewConsole(out, status io.Writer, format string) *Console {
	return &Console{out: out, status: status, format: format}
}

// ShowOutput prints v as indented JSON, or as a field table for objects in table mode
func (c *Console) ShowOutput(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.format == outputTable && c.renderObject(v) {
		return
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(c.out, "%v\n", v)
		return
	}
	fmt.Fprintln(c.out, string(b))
}

// ClearOutput prints the placeholder
func (c *Console) ClearOutput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, domain.OutputPlaceholder)
}

func (c *Console) SetStatus(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusKnown = true
	c.statusOK = ok
}

func (c *Console) SetCounts(assets, signals int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.countsKnown = true
	c.assets = assets
	c.signals = signals
}

// ResetForm has nothing to clear on a terminal
func (c *Console) ResetForm(formID string) {
	glog.V(2).Infof("[CLI] form %s done", formID)
}

// RenderStatus prints the badge and counters if a refresh ran
func (c *Console) RenderStatus() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.statusKnown {
		return
	}

	badge := text.FgRed.Sprint(domain.StatusTextError)
	if c.statusOK {
		badge = text.FgGreen.Sprint(domain.StatusTextOK)
	}
	assets, signals := "-", "-"
	if c.countsKnown {
		assets = fmt.Sprint(c.assets)
		signals = fmt.Sprint(c.signals)
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.status)
	t.AppendHeader(table.Row{"status", "assets", "signals"})
	t.AppendRow(table.Row{badge, assets, signals})
	t.Render()
}

// renderObject prints a JSON object as field/value rows.
// It returns false for anything that is not an object.
func (c *Console) renderObject(v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		return false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil || obj == nil {
		return false
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.AppendHeader(table.Row{"field", "value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, cell(obj[k])})
	}
	t.Render()
	return true
}

// cell shows strings bare and everything else as compact JSON
func cell(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

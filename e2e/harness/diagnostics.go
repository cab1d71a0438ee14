package harness

import (
	"fmt"
	"log/slog"

	"github.com/arelle/uiprobe/e2e/automation"
)

// DumpStats summarizes a DumpTree call.
type DumpStats struct {
	Nodes  int
	Errors int
}

// DumpTree logs every descendant of root, depth first. Failures on one
// element are logged and skipped; DumpTree itself never fails.
func DumpTree(logger *slog.Logger, root automation.Node) DumpStats {
	var stats DumpStats
	if root == nil {
		logger.Warn("no element tree to dump")
		return stats
	}
	dumpChildren(logger, root, 1, &stats)
	logger.Debug("element tree dumped", "nodes", stats.Nodes, "errors", stats.Errors)
	return stats
}

func dumpChildren(logger *slog.Logger, parent automation.Node, depth int, stats *DumpStats) {
	children, err := parent.Children()
	if err != nil {
		stats.Errors++
		attrs := []any{"depth", depth - 1}
		if name, nerr := parent.Name(); nerr == nil {
			attrs = append(attrs, "name", name)
		}
		logger.Error("error dumping element tree", append(attrs, "error", fmt.Errorf("children: %w", err))...)
		return
	}
	for _, child := range children {
		stats.Nodes++
		if attrs, err := describe(child); err != nil {
			stats.Errors++
			logger.Error("error dumping element tree", "depth", depth, "error", err)
		} else {
			logger.Debug("element", append([]any{"depth", depth}, attrs...)...)
		}
		dumpChildren(logger, child, depth+1, stats)
	}
}

func describe(n automation.Node) ([]any, error) {
	name, err := n.Name()
	if err != nil {
		return nil, &automation.PropertyAccessError{Property: "Name", Err: err}
	}
	class, err := n.Class()
	if err != nil {
		return nil, &automation.PropertyAccessError{Property: "ControlType", Err: err}
	}
	attrs := []any{"name", name, "type", string(class)}
	if class == automation.ClassWindow {
		modal, ok, err := n.Property(automation.PropIsModal)
		if err != nil {
			return nil, &automation.PropertyAccessError{Property: automation.PropIsModal, Err: err}
		}
		if !ok {
			modal = "false"
		}
		attrs = append(attrs, "modal", modal)
	}
	return attrs, nil
}

package scene

import (
	"encoding/json"

	"github.com/inamate/whiteboard/internal/geom"
)

// DrawCommand describes one drawable node for the host to composite.
// The host owns the actual drawing; it receives these in painter's order.
type DrawCommand struct {
	Op        string      `json:"op"`                 // Node kind: "element", "handle", "marquee"
	NodeID    string      `json:"nodeId,omitempty"`   // Element id for element nodes
	Label     string      `json:"label,omitempty"`    // Stable label for overlay nodes
	Transform []float64   `json:"transform"`          // [a, b, c, d, e, f] content → screen
	Content   geom.Bounds `json:"content"`            // Box in content space
	Bounds    geom.Bounds `json:"bounds"`             // Axis-aligned screen box
	Overlay   bool        `json:"overlay,omitempty"`  // Lives in the transform overlay
}

// CompileDrawCommands generates a draw command buffer from a node tree.
// Commands are in painter's order (back to front).
func CompileDrawCommands(root *Node) []DrawCommand {
	if root == nil {
		return nil
	}

	var commands []DrawCommand
	compileNode(root, false, &commands)
	return commands
}

// compileNode recursively generates draw commands for a node and its children.
func compileNode(node *Node, overlay bool, commands *[]DrawCommand) {
	if node == nil || !node.Visible {
		return
	}
	if node.Label == OverlayLabel {
		overlay = true
	}

	if node.Drawable {
		m := node.ContentWorldTransform()
		*commands = append(*commands, DrawCommand{
			Op:        string(node.Kind),
			NodeID:    node.ID,
			Label:     node.Label,
			Transform: m.ToSlice(),
			Content:   node.Content,
			Bounds:    m.TransformBounds(node.Content),
			Overlay:   overlay,
		})
	}

	for _, child := range node.sortedChildren() {
		compileNode(child, overlay, commands)
	}
}

// OverlayLabel is the label of the transform overlay container.
const OverlayLabel = "transform-overlay"

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

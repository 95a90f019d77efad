// Package trackingid generates the human-facing tracking identifiers shared
// by a parcel and its tracking log.
package trackingid

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Prefix starts every tracking ID.
const Prefix = "PCL-"

// Generator produces unique, roughly time-ordered tracking IDs.
type Generator struct {
	node *snowflake.Node
}

// NewGenerator creates a Generator for nodeID, which must be unique per
// running instance (0 to 1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// NewTrackingID returns a fresh tracking ID such as PCL-1580427651215609856.
func (g *Generator) NewTrackingID() string {
	return Prefix + g.node.Generate().String()
}

// Valid reports whether id has the shape produced by a Generator.
func Valid(id string) bool {
	rest, ok := strings.CutPrefix(id, Prefix)
	if !ok || rest == "" {
		return false
	}
	_, err := snowflake.ParseString(rest)
	return err == nil
}

package externalapi

// ChainEntry is a read-only view of a block in the chain. It is walked
// strictly backwards through Parent, which returns nil past the oldest
// known entry.
type ChainEntry interface {
	Height() uint32
	Timestamp() int64
	Bits() uint32
	Parent() ChainEntry
}

// HeaderNode is an in-memory ChainEntry backed by a block header
type HeaderNode struct {
	header *BlockHeader
	parent *HeaderNode
}

// NewHeaderNode creates a HeaderNode on top of the given parent. parent may
// be nil for the oldest node of the view.
func NewHeaderNode(header *BlockHeader, parent *HeaderNode) *HeaderNode {
	return &HeaderNode{
		header: header.Clone(),
		parent: parent,
	}
}

// Header returns a copy of the node's header
func (node *HeaderNode) Header() *BlockHeader {
	return node.header.Clone()
}

// Height implements ChainEntry
func (node *HeaderNode) Height() uint32 {
	return node.header.Height
}

// Timestamp implements ChainEntry
func (node *HeaderNode) Timestamp() int64 {
	return node.header.BlockTime()
}

// Bits implements ChainEntry
func (node *HeaderNode) Bits() uint32 {
	return node.header.Bits
}

// Parent implements ChainEntry
func (node *HeaderNode) Parent() ChainEntry {
	// Returning node.parent directly would produce a non-nil interface
	// holding a nil pointer.
	if node.parent == nil {
		return nil
	}
	return node.parent
}

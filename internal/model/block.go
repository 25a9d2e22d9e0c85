package model

// BlockType tags the kind of content a block renders.
type BlockType string

const (
	BlockText        BlockType = "text"
	BlockHeading     BlockType = "heading"
	BlockImage       BlockType = "image"
	BlockButton      BlockType = "button"
	BlockSpacer      BlockType = "spacer"
	BlockVideo       BlockType = "video"
	BlockForm        BlockType = "form"
	BlockPricing     BlockType = "pricing"
	BlockTestimonial BlockType = "testimonial"
	BlockAccordion   BlockType = "accordion"
	BlockCode        BlockType = "code"
)

// DefaultBlockType replaces unknown block types.
const DefaultBlockType = BlockText

var blockTypes = map[BlockType]struct{}{
	BlockText:        {},
	BlockHeading:     {},
	BlockImage:       {},
	BlockButton:      {},
	BlockSpacer:      {},
	BlockVideo:       {},
	BlockForm:        {},
	BlockPricing:     {},
	BlockTestimonial: {},
	BlockAccordion:   {},
	BlockCode:        {},
}

// BlockTypes returns the closed set of block types in sidebar order.
func BlockTypes() []BlockType {
	return []BlockType{
		BlockText, BlockHeading, BlockImage, BlockButton, BlockSpacer, BlockVideo,
		BlockForm, BlockPricing, BlockTestimonial, BlockAccordion, BlockCode,
	}
}

// ParseBlockType reports whether s names a known block type.
func ParseBlockType(s string) (BlockType, bool) {
	t := BlockType(s)
	_, ok := blockTypes[t]
	return t, ok
}

// Valid reports whether t is a member of the closed set.
func (t BlockType) Valid() bool {
	_, ok := blockTypes[t]
	return ok
}

// Block is one content unit on a board. Data holds type-specific attributes.
type Block struct {
	ID   string         `json:"id"`
	Type BlockType      `json:"type"`
	Data map[string]any `json:"data"`
}

// BlockPatch holds the fields merged into a block by an update.
type BlockPatch struct {
	Type *BlockType     `json:"type,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// Apply returns a copy of b with the patch merged in.
func (p BlockPatch) Apply(b Block) Block {
	out := b
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Data != nil {
		out.Data = p.Data
	}
	return out
}

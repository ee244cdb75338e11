package blocks

// Limits applied by Sanitize. They sit comfortably under the Notion API
// ceilings (100 children per append, 2000 characters per rich text span)
// so a sanitized document is always accepted by the remote side.
const (
	// MaxBlocks is the maximum number of top-level blocks per document.
	MaxBlocks = 50
	// MaxTotalTextLength is the maximum cumulative rich text length
	// across a whole document, nested children included.
	MaxTotalTextLength = 2000
)

// Type identifies a block shape. Only the types listed in AllowedTypes
// are accepted by Sanitize.
type Type string

const (
	TypeParagraph        Type = "paragraph"
	TypeHeading1         Type = "heading_1"
	TypeHeading2         Type = "heading_2"
	TypeHeading3         Type = "heading_3"
	TypeBulletedListItem Type = "bulleted_list_item"
	TypeNumberedListItem Type = "numbered_list_item"
	TypeToDo             Type = "to_do"
	TypeToggle           Type = "toggle"
	TypeCallout          Type = "callout"
	TypeQuote            Type = "quote"
	TypeCode             Type = "code"
)

// AllowedTypes is the fixed allow-list of block types.
var AllowedTypes = map[Type]bool{
	TypeParagraph:        true,
	TypeHeading1:         true,
	TypeHeading2:         true,
	TypeHeading3:         true,
	TypeBulletedListItem: true,
	TypeNumberedListItem: true,
	TypeToDo:             true,
	TypeToggle:           true,
	TypeCallout:          true,
	TypeQuote:            true,
	TypeCode:             true,
}

// Link is an optional URL attached to a rich text span.
type Link struct {
	URL string `json:"url"`
}

// TextContent is the text payload of a rich text span.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// RichText is a single run of text inside a block.
type RichText struct {
	Type string      `json:"type"`
	Text TextContent `json:"text"`
}

// Icon decorates a callout block. Only emoji icons are supported.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// RichTextBody is the payload shared by paragraph, heading, list item
// and quote blocks.
type RichTextBody struct {
	RichText []RichText `json:"rich_text"`
}

// ToDoBody is the payload of a to_do block.
type ToDoBody struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

// ToggleBody is the payload of a toggle block. Children is omitted
// entirely when empty; the remote API treats key presence as meaningful.
type ToggleBody struct {
	RichText []RichText `json:"rich_text"`
	Children []Block    `json:"children,omitempty"`
}

// CalloutBody is the payload of a callout block.
type CalloutBody struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
}

// CodeBody is the payload of a code block.
type CodeBody struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

// Block is one typed unit of document content. Exactly one payload
// field is set, matching Type. The zero value is not a valid block;
// use the builder functions.
type Block struct {
	Object string `json:"object,omitempty"`
	Type   Type   `json:"type"`

	Paragraph        *RichTextBody `json:"paragraph,omitempty"`
	Heading1         *RichTextBody `json:"heading_1,omitempty"`
	Heading2         *RichTextBody `json:"heading_2,omitempty"`
	Heading3         *RichTextBody `json:"heading_3,omitempty"`
	BulletedListItem *RichTextBody `json:"bulleted_list_item,omitempty"`
	NumberedListItem *RichTextBody `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoBody     `json:"to_do,omitempty"`
	Toggle           *ToggleBody   `json:"toggle,omitempty"`
	Callout          *CalloutBody  `json:"callout,omitempty"`
	Quote            *RichTextBody `json:"quote,omitempty"`
	Code             *CodeBody     `json:"code,omitempty"`
}

// textSpan builds the single-span rich text sequence used by all builders.
func textSpan(text string) []RichText {
	return []RichText{{Type: "text", Text: TextContent{Content: text}}}
}

// Paragraph builds a paragraph block.
func Paragraph(text string) Block {
	return Block{Object: "block", Type: TypeParagraph, Paragraph: &RichTextBody{RichText: textSpan(text)}}
}

// Heading1 builds a level-1 heading block.
func Heading1(text string) Block {
	return Block{Object: "block", Type: TypeHeading1, Heading1: &RichTextBody{RichText: textSpan(text)}}
}

// Heading2 builds a level-2 heading block.
func Heading2(text string) Block {
	return Block{Object: "block", Type: TypeHeading2, Heading2: &RichTextBody{RichText: textSpan(text)}}
}

// Heading3 builds a level-3 heading block.
func Heading3(text string) Block {
	return Block{Object: "block", Type: TypeHeading3, Heading3: &RichTextBody{RichText: textSpan(text)}}
}

// BulletedListItem builds a bulleted list item block.
func BulletedListItem(text string) Block {
	return Block{Object: "block", Type: TypeBulletedListItem, BulletedListItem: &RichTextBody{RichText: textSpan(text)}}
}

// NumberedListItem builds a numbered list item block. The rendered
// number comes from document order, not from the block itself.
func NumberedListItem(text string) Block {
	return Block{Object: "block", Type: TypeNumberedListItem, NumberedListItem: &RichTextBody{RichText: textSpan(text)}}
}

// ToDo builds a to_do block with the given checked state.
func ToDo(text string, checked bool) Block {
	return Block{Object: "block", Type: TypeToDo, ToDo: &ToDoBody{RichText: textSpan(text), Checked: checked}}
}

// Toggle builds a toggle block with optional nested children.
func Toggle(text string, children ...Block) Block {
	body := &ToggleBody{RichText: textSpan(text)}
	if len(children) > 0 {
		body.Children = children
	}
	return Block{Object: "block", Type: TypeToggle, Toggle: body}
}

// Callout builds a callout block. An empty emoji leaves the icon unset.
func Callout(text, emoji string) Block {
	body := &CalloutBody{RichText: textSpan(text)}
	if emoji != "" {
		body.Icon = &Icon{Type: "emoji", Emoji: emoji}
	}
	return Block{Object: "block", Type: TypeCallout, Callout: body}
}

// Quote builds a quote block.
func Quote(text string) Block {
	return Block{Object: "block", Type: TypeQuote, Quote: &RichTextBody{RichText: textSpan(text)}}
}

// Code builds a code block. An empty language is preserved as-is.
func Code(text, language string) Block {
	return Block{Object: "block", Type: TypeCode, Code: &CodeBody{RichText: textSpan(text), Language: language}}
}

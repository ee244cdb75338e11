package blocks

import "fmt"

// ConfigurationError indicates an invalid document or request shape. It
// is always raised before any network call and is never retried.
type ConfigurationError struct {
	Message string
}

func (e ConfigurationError) Error() string { return e.Message }

// configErrorf builds a ConfigurationError from a format string.
func configErrorf(format string, args ...interface{}) error {
	return ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// Sanitize validates a document and returns a canonical copy of it.
//
// It rejects blocks whose type is outside the allow-list, documents with
// more than MaxBlocks top-level blocks, and documents whose cumulative
// rich text length (summed recursively through nested children) exceeds
// MaxTotalTextLength. Any link attached to a rich text span is stripped;
// converted text and caller-supplied payloads are treated the same way.
// The input is left untouched.
func Sanitize(in []Block) ([]Block, error) {
	if len(in) > MaxBlocks {
		return nil, configErrorf("too many blocks: %d exceeds the limit of %d", len(in), MaxBlocks)
	}

	total := 0
	out, err := sanitizeList(in, &total)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// sanitizeList walks one level of blocks, threading the shared running
// text total through nested children so the document-wide budget cannot
// be bypassed by nesting.
func sanitizeList(in []Block, total *int) ([]Block, error) {
	out := make([]Block, 0, len(in))
	for i, b := range in {
		clean, err := sanitizeBlock(b, total)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, clean)
	}
	return out, nil
}

func sanitizeBlock(b Block, total *int) (Block, error) {
	if !AllowedTypes[b.Type] {
		return Block{}, configErrorf("unsupported block type %q", b.Type)
	}

	clean := Block{Object: "block", Type: b.Type}

	switch b.Type {
	case TypeParagraph:
		body, err := sanitizeRichTextBody(b.Paragraph, b.Type, total)
		if err != nil {
			return Block{}, err
		}
		clean.Paragraph = body
	case TypeHeading1:
		body, err := sanitizeRichTextBody(b.Heading1, b.Type, total)
		if err != nil {
			return Block{}, err
		}
		clean.Heading1 = body
	case TypeHeading2:
		body, err := sanitizeRichTextBody(b.Heading2, b.Type, total)
		if err != nil {
			return Block{}, err
		}
		clean.Heading2 = body
	case TypeHeading3:
		body, err := sanitizeRichTextBody(b.Heading3, b.Type, total)
		if err != nil {
			return Block{}, err
		}
		clean.Heading3 = body
	case TypeBulletedListItem:
		body, err := sanitizeRichTextBody(b.BulletedListItem, b.Type, total)
		if err != nil {
			return Block{}, err
		}
		clean.BulletedListItem = body
	case TypeNumberedListItem:
		body, err := sanitizeRichTextBody(b.NumberedListItem, b.Type, total)
		if err != nil {
			return Block{}, err
		}
		clean.NumberedListItem = body
	case TypeToDo:
		if b.ToDo == nil {
			return Block{}, configErrorf("missing %q payload", b.Type)
		}
		spans, err := sanitizeRichText(b.ToDo.RichText, total)
		if err != nil {
			return Block{}, err
		}
		clean.ToDo = &ToDoBody{RichText: spans, Checked: b.ToDo.Checked}
	case TypeToggle:
		if b.Toggle == nil {
			return Block{}, configErrorf("missing %q payload", b.Type)
		}
		spans, err := sanitizeRichText(b.Toggle.RichText, total)
		if err != nil {
			return Block{}, err
		}
		body := &ToggleBody{RichText: spans}
		if len(b.Toggle.Children) > 0 {
			children, err := sanitizeList(b.Toggle.Children, total)
			if err != nil {
				return Block{}, err
			}
			body.Children = children
		}
		clean.Toggle = body
	case TypeCallout:
		if b.Callout == nil {
			return Block{}, configErrorf("missing %q payload", b.Type)
		}
		spans, err := sanitizeRichText(b.Callout.RichText, total)
		if err != nil {
			return Block{}, err
		}
		body := &CalloutBody{RichText: spans}
		if b.Callout.Icon != nil {
			icon := *b.Callout.Icon
			body.Icon = &icon
		}
		clean.Callout = body
	case TypeQuote:
		body, err := sanitizeRichTextBody(b.Quote, b.Type, total)
		if err != nil {
			return Block{}, err
		}
		clean.Quote = body
	case TypeCode:
		if b.Code == nil {
			return Block{}, configErrorf("missing %q payload", b.Type)
		}
		spans, err := sanitizeRichText(b.Code.RichText, total)
		if err != nil {
			return Block{}, err
		}
		clean.Code = &CodeBody{RichText: spans, Language: b.Code.Language}
	}

	return clean, nil
}

func sanitizeRichTextBody(body *RichTextBody, typ Type, total *int) (*RichTextBody, error) {
	if body == nil {
		return nil, configErrorf("missing %q payload", typ)
	}
	spans, err := sanitizeRichText(body.RichText, total)
	if err != nil {
		return nil, err
	}
	return &RichTextBody{RichText: spans}, nil
}

// sanitizeRichText copies spans, dropping any link and charging their
// content against the document-wide length budget.
func sanitizeRichText(spans []RichText, total *int) ([]RichText, error) {
	out := make([]RichText, 0, len(spans))
	for _, span := range spans {
		*total += len([]rune(span.Text.Content))
		if *total > MaxTotalTextLength {
			return nil, configErrorf("total text length exceeds the limit of %d characters", MaxTotalTextLength)
		}
		clean := span
		if clean.Type == "" {
			clean.Type = "text"
		}
		clean.Text.Link = nil
		out = append(out, clean)
	}
	return out, nil
}

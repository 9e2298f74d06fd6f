package imports

// Locate finds the import block at the top of the document and the line where a
// new statement belongs.
//
// Blank lines, comments and directive prologues ('use strict') are transparent.
// Import statements, including skipped multi-line ones, extend the block, and the
// first other line ends it. When the document begins with code there is no block
// and CanInsert is false. The same holds once an import statement is found whose
// end cannot be determined. A document with no code at all accepts new
// statements after its leading comments.
//
// text: The full document.
func Locate(text string) Block {
	entries := classify(SplitLines(text))

	b := Block{Start: -1, End: -1}
	preamble := 0
	sawCode := false
	unterminated := false

	var all []Import
	for _, e := range entries {
		if e.kind == kindImport {
			all = append(all, e.imp)
		}
	}
	b.Style.Quote = QuoteStyle(all)
	if len(all) > 0 {
		b.Style.Semicolon = all[0].Semicolon
	}

scan:
	for _, e := range entries {
		switch e.kind {
		case kindBlank:
		case kindComment, kindDirective:
			if b.Start < 0 {
				preamble = e.end
			}
		case kindImport:
			b.extend(e)
			b.Imports = append(b.Imports, e.imp)
		case kindSkipped:
			b.extend(e)
			b.Skipped = append(b.Skipped, e.skipped)
			if e.skipped.Unterminated {
				unterminated = true
				break scan
			}
		case kindCode:
			sawCode = true
			break scan
		}
	}

	switch {
	case unterminated:
		b.InsertionLine = b.End
		b.CanInsert = false
	case b.Start >= 0:
		b.InsertionLine = b.End
		b.CanInsert = true
	case sawCode:
		b.Start, b.End, b.InsertionLine = 0, 0, 0
		b.CanInsert = false
	default:
		b.Start, b.End, b.InsertionLine = preamble, preamble, preamble
		b.CanInsert = true
	}
	return b
}

func (b *Block) extend(e entry) {
	if b.Start < 0 {
		b.Start = e.start
	}
	b.End = e.end
}

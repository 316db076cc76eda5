package gifsource

// Block introducers and labels needed to step over a block sequence the
// decoder gave up on.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C

	eGraphicControl = 0xF9

	fColorTable     = 1 << 7
	fColorTableSize = 7
)

// nextBlock returns the offset just past the blocks a single ReadBlock call
// consumes when started at pos: any graphic control extensions followed by
// an image, or one other extension. image reports whether the sequence
// ended in an image descriptor. A trailer, an unknown introducer or a cut
// chain ends the stream.
func nextBlock(data []byte, pos int) (next int, image bool) {
	for pos < len(data) {
		switch data[pos] {
		case sExtension:
			if pos+1 >= len(data) {
				return len(data), false
			}
			label := data[pos+1]
			pos = skipSubBlocks(data, pos+2)
			if label != eGraphicControl {
				return pos, false
			}

		case sImageDescriptor:
			pos += 10
			if pos > len(data) {
				return len(data), true
			}
			if flags := data[pos-1]; flags&fColorTable != 0 {
				pos += 3 * (1 << (1 + uint(flags&fColorTableSize)))
			}
			// LZW minimum code size.
			pos++
			if pos > len(data) {
				return len(data), true
			}
			return skipSubBlocks(data, pos), true

		default:
			return len(data), false
		}
	}
	return len(data), false
}

// skipSubBlocks walks the (n, n bytes) chain starting at pos and returns
// the position after its zero terminator.
func skipSubBlocks(data []byte, pos int) int {
	for pos < len(data) {
		n := int(data[pos])
		pos++
		if n == 0 {
			return pos
		}
		pos += n
	}
	return len(data)
}

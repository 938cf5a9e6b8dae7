package msoffice

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// File Information Block constants.
const (
	fibIdent        = 0xA5EC
	fibFlagsOffset  = 0x0A
	fibEncrypted    = 0x0100
	fibWhichTable   = 0x0200
	fibBaseSize     = 32
	ccpTextIndex    = 3 // in FibRgLw97
	ccpFtnIndex     = 4
	ccpHddIndex     = 5
	clxPairIndex    = 33 // fcClx/lcbClx in FibRgFcLcb97
	compressedFlag  = 0x40000000
	fcMask          = 0x3FFFFFFF
	clxPrc          = 0x01
	clxPcdt         = 0x02
	pcdSize         = 8
	maxCharacterPos = 1 << 28
)

// fib holds the File Information Block fields used for text extraction.
type fib struct {
	encrypted  bool
	whichTable int
	ccpText    int
	ccpFtn     int
	ccpHdd     int
	fcClx      uint32
	lcbClx     uint32
}

// parseFIB reads the File Information Block at the start of the
// WordDocument stream.
func parseFIB(word []byte) (*fib, error) {
	if len(word) < fibBaseSize+2 || binary.LittleEndian.Uint16(word) != fibIdent {
		return nil, fmt.Errorf("%w: not a Word document", domain.ErrCorruptInput)
	}

	flags := binary.LittleEndian.Uint16(word[fibFlagsOffset:])
	f := &fib{encrypted: flags&fibEncrypted != 0}
	if flags&fibWhichTable != 0 {
		f.whichTable = 1
	}

	off := fibBaseSize
	u16 := func() (int, bool) {
		if off+2 > len(word) {
			return 0, false
		}
		v := int(binary.LittleEndian.Uint16(word[off:]))
		off += 2
		return v, true
	}

	csw, ok := u16()
	if !ok {
		return nil, fmt.Errorf("%w: truncated FIB", domain.ErrCorruptInput)
	}
	off += csw * 2

	cslw, ok := u16()
	if !ok || cslw <= ccpHddIndex || off+cslw*4 > len(word) {
		return nil, fmt.Errorf("%w: truncated FIB", domain.ErrCorruptInput)
	}
	rgLw := word[off : off+cslw*4]
	f.ccpText = int(int32(binary.LittleEndian.Uint32(rgLw[ccpTextIndex*4:])))
	f.ccpFtn = int(int32(binary.LittleEndian.Uint32(rgLw[ccpFtnIndex*4:])))
	f.ccpHdd = int(int32(binary.LittleEndian.Uint32(rgLw[ccpHddIndex*4:])))
	off += cslw * 4

	cbRgFcLcb, ok := u16()
	if !ok || cbRgFcLcb <= clxPairIndex || off+cbRgFcLcb*8 > len(word) {
		return nil, fmt.Errorf("%w: truncated FIB", domain.ErrCorruptInput)
	}
	pair := word[off+clxPairIndex*8:]
	f.fcClx = binary.LittleEndian.Uint32(pair)
	f.lcbClx = binary.LittleEndian.Uint32(pair[4:])

	for _, n := range []int{f.ccpText, f.ccpFtn, f.ccpHdd} {
		if n < 0 || n > maxCharacterPos {
			return nil, fmt.Errorf("%w: character count %d out of range", domain.ErrCorruptInput, n)
		}
	}
	return f, nil
}

// readPieces decodes the piece table in the table stream and returns the
// document as UTF-16 code units indexed by character position.
func readPieces(word, table []byte, f *fib) ([]uint16, error) {
	end := uint64(f.fcClx) + uint64(f.lcbClx)
	if f.lcbClx == 0 || end > uint64(len(table)) {
		return nil, fmt.Errorf("%w: piece table out of range", domain.ErrCorruptInput)
	}
	clx := table[f.fcClx:end]

	// Skip Prc entries (property modifiers) until the Pcdt.
	for len(clx) > 0 && clx[0] == clxPrc {
		if len(clx) < 3 {
			return nil, fmt.Errorf("%w: truncated Clx", domain.ErrCorruptInput)
		}
		size := int(int16(binary.LittleEndian.Uint16(clx[1:])))
		if size < 0 || 3+size > len(clx) {
			return nil, fmt.Errorf("%w: bad Prc size", domain.ErrCorruptInput)
		}
		clx = clx[3+size:]
	}
	if len(clx) < 5 || clx[0] != clxPcdt {
		return nil, fmt.Errorf("%w: piece table not found", domain.ErrCorruptInput)
	}
	lcb := int(binary.LittleEndian.Uint32(clx[1:]))
	plc := clx[5:]
	if lcb < 4 || lcb > len(plc) || (lcb-4)%(4+pcdSize) != 0 {
		return nil, fmt.Errorf("%w: bad piece table size", domain.ErrCorruptInput)
	}

	n := (lcb - 4) / (4 + pcdSize)
	cps := plc[:4*(n+1)]
	pcds := plc[4*(n+1):]
	total := f.ccpText + f.ccpFtn + f.ccpHdd

	var units []uint16
	for i := 0; i < n && len(units) < total; i++ {
		cpStart := binary.LittleEndian.Uint32(cps[4*i:])
		cpEnd := binary.LittleEndian.Uint32(cps[4*(i+1):])
		if cpEnd < cpStart || cpEnd-cpStart > maxCharacterPos {
			return nil, fmt.Errorf("%w: bad piece bounds", domain.ErrCorruptInput)
		}
		count := int(cpEnd - cpStart)
		fc := binary.LittleEndian.Uint32(pcds[pcdSize*i+2:])

		if fc&compressedFlag != 0 {
			pos := int(fc&fcMask) / 2
			if pos+count > len(word) {
				return nil, fmt.Errorf("%w: piece %d out of range", domain.ErrCorruptInput, i)
			}
			for _, b := range word[pos : pos+count] {
				units = append(units, uint16(charmap.Windows1252.DecodeByte(b)))
			}
			continue
		}

		pos := int(fc & fcMask)
		if pos+2*count > len(word) {
			return nil, fmt.Errorf("%w: piece %d out of range", domain.ErrCorruptInput, i)
		}
		for j := 0; j < count; j++ {
			units = append(units, binary.LittleEndian.Uint16(word[pos+2*j:]))
		}
	}
	return units, nil
}

// Word control characters.
const (
	chCellMark      = 0x07
	chTab           = 0x09
	chLineBreak     = 0x0B
	chPageBreak     = 0x0C
	chParagraph     = 0x0D
	chColumnBreak   = 0x0E
	chFieldBegin    = 0x13
	chFieldSep      = 0x14
	chFieldEnd      = 0x15
	chNonBreakHyph  = 0x1E
	chOptionalHyph  = 0x1F
	chNonBreakSpace = 0xA0
)

// renderText maps Word's control characters to plain text.
// Paragraph, line, page and column breaks become newlines and cell marks
// become tabs. Field codes are dropped while field results are kept.
func renderText(units []uint16) string {
	var (
		out []uint16
		// Each open field records whether it is still in its code part.
		fields []bool
	)
	inCode := func() bool {
		for _, code := range fields {
			if code {
				return true
			}
		}
		return false
	}

	for _, u := range units {
		switch u {
		case chFieldBegin:
			fields = append(fields, true)
			continue
		case chFieldSep:
			if len(fields) > 0 {
				fields[len(fields)-1] = false
			}
			continue
		case chFieldEnd:
			if len(fields) > 0 {
				fields = fields[:len(fields)-1]
			}
			continue
		}
		if inCode() {
			continue
		}

		switch {
		case u == chParagraph, u == chLineBreak, u == chPageBreak, u == chColumnBreak:
			out = append(out, '\n')
		case u == chCellMark, u == chTab:
			out = append(out, '\t')
		case u == chNonBreakHyph:
			out = append(out, '-')
		case u == chNonBreakSpace:
			out = append(out, ' ')
		case u == chOptionalHyph, u < 0x20:
			// Object anchors, footnote references and other markers.
		default:
			out = append(out, u)
		}
	}
	return string(utf16.Decode(out))
}

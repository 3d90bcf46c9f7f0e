// Package ebcdic implements byte-for-byte translation between ASCII and
// the EBCDIC code page used on the wire by NJE (IBM code page 500,
// EBCDIC-CP-BE). Only the printable ASCII range (0x20-0x7E) has a
// dedicated EBCDIC assignment; every other byte maps to itself in each
// table. Those identity entries can coincide with the EBCDIC code of a
// printable character (0xC1 is also 'A'), so bytes outside the printable
// range do not necessarily survive a round trip.
package ebcdic

// Space is the EBCDIC encoding of the ASCII space character. Name fields
// are right-padded with this byte.
const Space byte = 0x40

var toEBCDIC [256]byte
var fromEBCDIC [256]byte

func init() {
	for i := range toEBCDIC {
		toEBCDIC[i] = byte(i)
		fromEBCDIC[i] = byte(i)
	}
	for ascii, ebc := range asciiToEBCDICPrintable {
		toEBCDIC[ascii] = ebc
		fromEBCDIC[ebc] = byte(ascii)
	}
}

// asciiToEBCDICPrintable holds the printable ASCII (0x20-0x7E) to
// EBCDIC-CP-BE mapping. Control codes are left as identity translations
// since the wire protocol never runs framing/control bytes through this
// table; only name fields, message text and JCL/job text do.
var asciiToEBCDICPrintable = map[int]byte{
	' ': 0x40, '!': 0x4F, '"': 0x7F, '#': 0x7B, '$': 0x5B, '%': 0x6C,
	'&': 0x50, '\'': 0x7D, '(': 0x4D, ')': 0x5D, '*': 0x5C, '+': 0x4E,
	',': 0x6B, '-': 0x60, '.': 0x4B, '/': 0x61,
	'0': 0xF0, '1': 0xF1, '2': 0xF2, '3': 0xF3, '4': 0xF4,
	'5': 0xF5, '6': 0xF6, '7': 0xF7, '8': 0xF8, '9': 0xF9,
	':': 0x7A, ';': 0x5E, '<': 0x4C, '=': 0x7E, '>': 0x6E, '?': 0x6F,
	'@': 0x7C,
	'A': 0xC1, 'B': 0xC2, 'C': 0xC3, 'D': 0xC4, 'E': 0xC5, 'F': 0xC6,
	'G': 0xC7, 'H': 0xC8, 'I': 0xC9, 'J': 0xD1, 'K': 0xD2, 'L': 0xD3,
	'M': 0xD4, 'N': 0xD5, 'O': 0xD6, 'P': 0xD7, 'Q': 0xD8, 'R': 0xD9,
	'S': 0xE2, 'T': 0xE3, 'U': 0xE4, 'V': 0xE5, 'W': 0xE6, 'X': 0xE7,
	'Y': 0xE8, 'Z': 0xE9,
	'[': 0x4A, '\\': 0xE0, ']': 0x5A, '^': 0x5F, '_': 0x6D, '`': 0x79,
	'a': 0x81, 'b': 0x82, 'c': 0x83, 'd': 0x84, 'e': 0x85, 'f': 0x86,
	'g': 0x87, 'h': 0x88, 'i': 0x89, 'j': 0x91, 'k': 0x92, 'l': 0x93,
	'm': 0x94, 'n': 0x95, 'o': 0x96, 'p': 0x97, 'q': 0x98, 'r': 0x99,
	's': 0xA2, 't': 0xA3, 'u': 0xA4, 'v': 0xA5, 'w': 0xA6, 'x': 0xA7,
	'y': 0xA8, 'z': 0xA9,
	'{': 0xC0, '|': 0xBB, '}': 0xD0, '~': 0xA1,
}

// ToASCII translates an EBCDIC-CP-BE byte string to ASCII.
func ToASCII(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = fromEBCDIC[c]
	}
	return out
}

// ToEBCDIC translates an ASCII byte string to EBCDIC-CP-BE.
func ToEBCDIC(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = toEBCDIC[c]
	}
	return out
}

// ToASCIIString is ToASCII for a string result. It does not trim
// padding; callers that need trailing spaces stripped (e.g. fixed-width
// name fields) use UnpadName instead.
func ToASCIIString(b []byte) string {
	return string(ToASCII(b))
}

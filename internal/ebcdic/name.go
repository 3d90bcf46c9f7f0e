package ebcdic

import "strings"

// NameFieldLen is the fixed width of NJE node/user/password name fields.
const NameFieldLen = 8

// PadName uppercases s, translates it to EBCDIC, and right-pads it with
// EBCDIC space to NameFieldLen bytes. Longer input is truncated to
// NameFieldLen bytes before padding (which is a no-op in that case).
func PadName(s string) [NameFieldLen]byte {
	var out [NameFieldLen]byte
	upper := ToEBCDIC([]byte(strings.ToUpper(s)))
	n := copy(out[:], upper)
	for i := n; i < NameFieldLen; i++ {
		out[i] = Space
	}
	return out
}

// UnpadName is the inverse of PadName: translate to ASCII and trim
// trailing spaces introduced by the padding.
func UnpadName(b []byte) string {
	return strings.TrimRight(ToASCIIString(b), " ")
}

package wire

// ebcdicSpace is the wire-level byte value (0x40) that an SCB encoder
// looks for to trigger space-run compression. It is EBCDIC space, but
// SCB itself is byte-value-agnostic: this is just the constant the NJE
// spec singles out for the space-run encoding.
const ebcdicSpace byte = 0x40

// scbSegmentBudget is the maximum number of *input* bytes a single SCB
// segment may account for before the encoder must stop and let the
// caller start a new RCB/SRCB record for the remainder.
const scbSegmentBudget = 253

// scbMaxLiteralRun is the largest single 0xC0|n literal group.
const scbMaxLiteralRun = 63

// scbMaxRun is the largest count representable by a space or repeat run.
const scbMaxRun = 31

// SCBCompress runs String Control Byte compression over buf, stopping
// after at most scbSegmentBudget input bytes have been accounted for (or
// sooner, if the whole input is shorter). It returns the compressed
// segment, terminated by a 0x00 byte, and the number of input bytes not
// yet consumed (to be compressed into a follow-on RCB/SRCB tuple by the
// caller).
func SCBCompress(buf []byte) (segment []byte, remaining int) {
	var out []byte
	var pending []byte
	processed := 0
	i := 0

	flush := func() {
		for len(pending) > 0 {
			n := len(pending)
			if n > scbMaxLiteralRun {
				n = scbMaxLiteralRun
			}
			out = append(out, 0xC0|byte(n))
			out = append(out, pending[:n]...)
			pending = pending[n:]
		}
	}

	for i < len(buf) && processed < scbSegmentBudget {
		budget := scbSegmentBudget - processed

		if budget >= 2 && i+1 < len(buf) && buf[i] == ebcdicSpace && buf[i+1] == ebcdicSpace {
			flush()
			n := 1
			for i+n < len(buf) && n < scbMaxRun && n < budget && buf[i+n] == ebcdicSpace {
				n++
			}
			out = append(out, 0x80|byte(n))
			i += n
			processed += n
			continue
		}

		if budget >= 2 && i+2 < len(buf) && buf[i] == buf[i+1] && buf[i] == buf[i+2] {
			flush()
			n := 2
			for i+n < len(buf) && n < scbMaxRun && n < budget && buf[i+n] == buf[i] {
				n++
			}
			out = append(out, 0xA0|byte(n), buf[i])
			i += n
			processed += n
			continue
		}

		if len(pending) == scbMaxLiteralRun {
			flush()
		}
		pending = append(pending, buf[i])
		i++
		processed++
	}
	flush()
	out = append(out, 0x00)
	return out, len(buf) - i
}

// SCBDecompress reads SCB-encoded bytes until the 0x00 terminator and
// returns the decompressed bytes along with the number of input bytes
// consumed, including the terminator.
func SCBDecompress(data []byte) (decompressed []byte, consumed int) {
	var out []byte
	i := 0
	for i < len(data) {
		b := data[i]
		i++
		switch {
		case b&0xC0 == 0x00:
			return out, i
		case b&0xC0 == 0xC0:
			n := int(b & 0x3F)
			end := i + n
			if end > len(data) {
				end = len(data)
			}
			out = append(out, data[i:end]...)
			i = end
		default: // 0x80 group: space run or repeat run
			if b&0xE0 == 0xA0 {
				n := int(b & 0x1F)
				if i >= len(data) {
					return out, i
				}
				x := data[i]
				i++
				for k := 0; k < n; k++ {
					out = append(out, x)
				}
			} else {
				n := int(b & 0x1F)
				for k := 0; k < n; k++ {
					out = append(out, ebcdicSpace)
				}
			}
		}
	}
	return out, i
}

// Compressed reports whether records of the given RCB are SCB-compressed
// on the wire: the NMR record type (0x9A) and any SYSIN/SYSOUT record
// (low nibble 0x08 or 0x09).
func Compressed(rcb byte) bool {
	if rcb == 0x9A {
		return true
	}
	low := rcb & 0x0F
	return low == 0x08 || low == 0x09
}

package njeclient

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hasplink/njeclient/internal/ebcdic"
	"github.com/hasplink/njeclient/internal/headers"
	"github.com/hasplink/njeclient/internal/record"
)

var (
	accountingRE  = regexp.MustCompile(`\(([^)]*)\)`)
	programmerRE  = regexp.MustCompile(`'([^']*)'`)
)

// ReadJCLFile reads a file's lines verbatim; this lives outside the
// core dispatch path since JCL file parsing is not the session
// engine's job, only the caller's.
func ReadJCLFile(path string) ([]string, error) {
	return readLines(path)
}

// parseJobCard extracts job name, accounting and programmer fields
// from the first non-continuation JOB card in lines, per the original
// client's submission convention: job name is columns 2-10, accounting
// is the text inside the first parentheses, programmer is the text
// inside the first quotes.
func parseJobCard(lines []string) (jobName, accounting, programmer string) {
	for _, line := range lines {
		if !strings.HasPrefix(line, "//") {
			continue
		}
		if len(line) > 2 && line[2] == ' ' {
			continue // continuation card
		}
		rest := line[2:]
		fields := strings.SplitN(rest, " ", 2)
		jobName = strings.TrimSpace(fields[0])
		if len(jobName) > 8 {
			jobName = jobName[:8]
		}
		if m := accountingRE.FindStringSubmatch(line); m != nil {
			accounting = m[1]
		}
		if m := programmerRE.FindStringSubmatch(line); m != nil {
			programmer = m[1]
		}
		break
	}
	return jobName, accounting, programmer
}

// SendJCL submits a job: builds the header/JES2/scheduling/accounting/
// security sections, splits the header at byte 253 into the standard
// two-record NJH sequence, opens a SYSIN stream, sends the batched
// frame (header, every JCL line, trailer), closes the stream, then
// drains inbound frames until at least one SYSOUT record has been
// collected, and signs off.
func (s *Session) SendJCL(lines []string, userid, group string) error {
	if s.state != stateSignedOn {
		return ErrNotSignedOn
	}

	jobName, accounting, programmer := parseJobCard(lines)

	sub := headers.JobSubmission{
		JobNumber:    1,
		LineCount:    int32(len(lines)),
		JobClass:     "A",
		MessageClass: "A",
		JobName:      jobName,
		Accounting:   accounting,
		Programmer:   programmer,
		UserID:       userid,
		Group:        group,
		RHOST:        ebcdic.PadName(s.localName),
		OHOST:        ebcdic.PadName(s.remoteName),
		TargetNode:   s.remoteNode,
		OwnNode:      s.localNode,
	}

	first, second := headers.BuildJobHeaderParts(sub)
	trailer := headers.BuildJobTrailer()

	if err := s.requestStream(); err != nil {
		return err
	}
	if err := s.awaitStreamPermission(); err != nil {
		return err
	}

	tuples := []record.Tuple{
		{RCB: 0x98, SRCB: 0xC0, Data: first, Compress: true},
		{RCB: 0x98, SRCB: 0xC0, Data: second, Compress: true},
	}
	for _, line := range lines {
		tuples = append(tuples, record.Tuple{
			RCB: 0x98, SRCB: 0x80, Data: headers.EncodeJCLLine(line), Compress: true,
		})
	}
	tuples = append(tuples, record.Tuple{RCB: 0x98, SRCB: 0xD0, Data: trailer, Compress: true})

	if err := s.sendRecord(tuples...); err != nil {
		return err
	}

	if err := s.sendRecord(record.Tuple{RCB: 0x98, SRCB: 0x00, Data: []byte{0x00, 0x00}}); err != nil {
		return err
	}

	if err := s.drainUntilSYSOUT(); err != nil {
		return err
	}

	return s.Signoff()
}

func (s *Session) requestStream() error {
	return s.sendRecord(record.Tuple{RCB: 0x90, SRCB: 0x98, Data: []byte{0x00, 0x00}})
}

// awaitStreamPermission reads blocks until the 0xA0 permission record
// is dispatched, per dispatchTuple setting streamOpen.
func (s *Session) awaitStreamPermission() error {
	for !s.streamOpen {
		block, err := s.readBlock()
		if err != nil {
			return err
		}
		if _, err := s.dispatchBlock(block); err != nil {
			return err
		}
	}
	return nil
}

// drainUntilSYSOUT reads and dispatches blocks until at least one
// SYSOUT record has been collected, matching the submission flow's
// final step before signoff.
func (s *Session) drainUntilSYSOUT() error {
	for {
		block, err := s.readBlock()
		if err != nil {
			return err
		}
		result, err := s.dispatchBlock(block)
		if err != nil {
			return err
		}
		if result.gotSYSOUT {
			return nil
		}
		if result.signedOff {
			return ErrNoSYSOUT
		}
	}
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("njeclient: reading JCL file: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return lines, nil
}

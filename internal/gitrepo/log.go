package gitrepo

import (
	"strings"
	"time"
)

const (
	logFieldSeparatorConstant = "\x1f"
	logFieldCountConstant     = 5
)

// LogFormat is the --pretty format understood by ParseLog.
// Fields are separated by the ASCII unit separator so subjects may contain any printable character.
const LogFormat = "%H%x1f%h%x1f%s%x1f%an%x1f%aI"

// CommitRecord describes one commit reported by `git log`.
type CommitRecord struct {
	Hash      string
	ShortHash string
	Subject   string
	Author    string
	Timestamp time.Time
}

// ParseLog converts output produced with LogFormat into records, dropping lines with the wrong field count.
func ParseLog(output string) []CommitRecord {
	records := make([]CommitRecord, 0)
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		line = strings.TrimSuffix(line, carriageReturnConstant)
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		fields := strings.Split(line, logFieldSeparatorConstant)
		if len(fields) != logFieldCountConstant {
			continue
		}
		timestamp, _ := time.Parse(time.RFC3339, strings.TrimSpace(fields[4]))
		records = append(records, CommitRecord{
			Hash:      fields[0],
			ShortHash: fields[1],
			Subject:   fields[2],
			Author:    fields[3],
			Timestamp: timestamp,
		})
	}
	return records
}

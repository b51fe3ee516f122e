package gitrepo

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	grepSeparatorLineConstant = "--"
	grepNullDelimiterConstant = "\x00"
	grepContextMarkerConstant = "-"
)

var (
	grepMatchPattern    = regexp.MustCompile(`^(.+?):(\d+):(.*)$`)
	grepContextPattern  = regexp.MustCompile(`^(.+?)-(\d+)-(.*)$`)
	grepNullLinePattern = regexp.MustCompile(`^(\d+)([:-])(.*)$`)
)

// SearchHit is one line reported by `git grep -n`.
type SearchHit struct {
	File    string
	Line    int
	Text    string
	Context bool
}

// FileHits groups the hits reported for a single file.
type FileHits struct {
	File string
	Hits []SearchHit
}

// ParseGrep converts `git grep -n` output into hits, dropping lines that do not match `file:line:text`.
// Output of `git grep -n --null` (`file\x00line:text`) is also accepted and is unambiguous for file names
// that contain `:N:` or `-N-`.
func ParseGrep(output string) []SearchHit {
	return parseGrepLines(output, false)
}

// ParseGrepWithContext also keeps `file-line-text` context lines emitted by `git grep -C`.
func ParseGrepWithContext(output string) []SearchHit {
	return parseGrepLines(output, true)
}

func parseGrepLines(output string, includeContext bool) []SearchHit {
	hits := make([]SearchHit, 0)
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		line = strings.TrimSuffix(line, carriageReturnConstant)
		if len(line) == 0 || line == grepSeparatorLineConstant {
			continue
		}
		if strings.Contains(line, grepNullDelimiterConstant) {
			if hit, matched := matchNullGrepLine(line); matched && (includeContext || !hit.Context) {
				hits = append(hits, hit)
			}
			continue
		}
		if hit, matched := matchGrepLine(grepMatchPattern, line); matched {
			hits = append(hits, hit)
			continue
		}
		if !includeContext {
			continue
		}
		if hit, matched := matchGrepLine(grepContextPattern, line); matched {
			hit.Context = true
			hits = append(hits, hit)
		}
	}
	return hits
}

func matchGrepLine(pattern *regexp.Regexp, line string) (SearchHit, bool) {
	submatches := pattern.FindStringSubmatch(line)
	if submatches == nil {
		return SearchHit{}, false
	}
	lineNumber, conversionError := strconv.Atoi(submatches[2])
	if conversionError != nil || lineNumber <= 0 {
		return SearchHit{}, false
	}
	return SearchHit{File: submatches[1], Line: lineNumber, Text: submatches[3]}, true
}

func matchNullGrepLine(line string) (SearchHit, bool) {
	file, remainder, _ := strings.Cut(line, grepNullDelimiterConstant)
	submatches := grepNullLinePattern.FindStringSubmatch(remainder)
	if len(file) == 0 || submatches == nil {
		return SearchHit{}, false
	}
	lineNumber, conversionError := strconv.Atoi(submatches[1])
	if conversionError != nil || lineNumber <= 0 {
		return SearchHit{}, false
	}
	return SearchHit{
		File:    file,
		Line:    lineNumber,
		Text:    submatches[3],
		Context: submatches[2] == grepContextMarkerConstant,
	}, true
}

// GroupHitsByFile groups hits by file in first-seen order, keeping hit order within each file.
func GroupHitsByFile(hits []SearchHit) []FileHits {
	groups := make([]FileHits, 0)
	groupIndex := make(map[string]int)
	for _, hit := range hits {
		index, exists := groupIndex[hit.File]
		if !exists {
			index = len(groups)
			groupIndex[hit.File] = index
			groups = append(groups, FileHits{File: hit.File})
		}
		groups[index].Hits = append(groups[index].Hits, hit)
	}
	return groups
}

// MatchCount returns the number of non-context hits.
func MatchCount(hits []SearchHit) int {
	count := 0
	for _, hit := range hits {
		if !hit.Context {
			count++
		}
	}
	return count
}

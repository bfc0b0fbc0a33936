package annotation

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// IgnoreRegexp finds the ignore marker, the submatch is "all", "block" or a line count.
var IgnoreRegexp = regexp.MustCompile(`^\s*//\s*\+testreport:ignore:([0-9A-Za-z]+)`)

// IgnoreType indicates the type of the ignore profile.
type IgnoreType string

const (
	// AllIgnore means the whole file is ignored.
	AllIgnore IgnoreType = "all"
	// BlockIgnore means some lines of the file are ignored, possibly none.
	BlockIgnore IgnoreType = "block"
)

// IgnoreProfile represents the ignore markers of one source file.
type IgnoreProfile struct {
	Type         IgnoreType
	Filename     string
	Lines        map[int]bool
	IgnoreBlocks []*IgnoreBlock
}

// IgnoreBlock represents the lines covered by a single marker.
type IgnoreBlock struct {
	Annotation string   // marker line
	Contents   []string // ignored contents
	Lines      []int    // line numbers of Contents
}

// Ignored reports whether line is excluded by the profile.
func (p *IgnoreProfile) Ignored(line int) bool {
	if p == nil {
		return false
	}
	return p.Type == AllIgnore || p.Lines[line]
}

// ParseIgnoreProfiles reads the markers of the source file.
func ParseIgnoreProfiles(filename string) (*IgnoreProfile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	profile, err := parseIgnoreProfilesFromReader(f)
	if err != nil {
		return nil, err
	}
	profile.Filename = filename
	return profile, nil
}

func parseIgnoreProfilesFromReader(rd io.Reader) (*IgnoreProfile, error) {
	s := bufio.NewScanner(rd)
	lineNo := 0

	profile := &IgnoreProfile{
		Type:  BlockIgnore,
		Lines: make(map[int]bool),
	}

	for s.Scan() {
		lineNo++
		line := s.Text()
		match := IgnoreRegexp.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		switch kind := match[1]; kind {
		case string(AllIgnore):
			profile.Type = AllIgnore
			return profile, nil
		case string(BlockIgnore):
			lineNo += ignoreOnBlock(s, profile, lineNo, line)
		default:
			// neither a keyword nor a count, not a marker
			total, err := strconv.Atoi(kind)
			if err != nil {
				continue
			}
			lineNo += ignoreOnNumber(s, profile, lineNo, total, line)
		}
	}

	return profile, s.Err()
}

// ignoreOnBlock ignores lines until a blank line and returns the consumed line count.
func ignoreOnBlock(scanner *bufio.Scanner, profile *IgnoreProfile, startLine int, annotation string) int {
	block := &IgnoreBlock{Annotation: annotation}
	consumed := 0

	for scanner.Scan() {
		consumed++
		content := scanner.Text()
		if strings.TrimSpace(content) == "" {
			break
		}

		lineNo := startLine + consumed
		block.Lines = append(block.Lines, lineNo)
		block.Contents = append(block.Contents, content)
		profile.Lines[lineNo] = true
	}

	if len(block.Lines) != 0 {
		profile.IgnoreBlocks = append(profile.IgnoreBlocks, block)
	}
	return consumed
}

// ignoreOnNumber ignores the next cnt lines and returns the consumed line count.
func ignoreOnNumber(scanner *bufio.Scanner, profile *IgnoreProfile, startLine, cnt int, annotation string) int {
	block := &IgnoreBlock{Annotation: annotation}
	consumed := 0

	for consumed < cnt && scanner.Scan() {
		consumed++
		lineNo := startLine + consumed
		block.Lines = append(block.Lines, lineNo)
		block.Contents = append(block.Contents, scanner.Text())
		profile.Lines[lineNo] = true
	}

	if consumed != 0 {
		profile.IgnoreBlocks = append(profile.IgnoreBlocks, block)
	}
	return consumed
}

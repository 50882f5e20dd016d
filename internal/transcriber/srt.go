package transcriber

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

var (
	srtIndexLine  = regexp.MustCompile(`^\d+$`)
	srtTagPattern = regexp.MustCompile(`<[^>]+>`)
)

// TranscriptFromSRT flattens an SRT caption file into plain transcript text.
// Cue indices and timestamps are dropped, markup tags stripped, and
// consecutive duplicate lines collapsed since automatic captions repeat
// rolling text across cues.
func TranscriptFromSRT(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var lines []string
	var last string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || srtIndexLine.MatchString(line) || strings.Contains(line, "-->") {
			continue
		}
		line = strings.TrimSpace(srtTagPattern.ReplaceAllString(line, ""))
		if line == "" || line == last {
			continue
		}
		lines = append(lines, line)
		last = line
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, " "), nil
}

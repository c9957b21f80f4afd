package source

import (
	"bufio"
	"io"
	"strings"
)

// TextReader handles plain text files.
type TextReader struct{}

func (p *TextReader) Lines(r io.Reader, filename string) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []Line
	next := 1

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, Line{Number: next, Text: line})
		next++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

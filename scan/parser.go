// Package scan reads and writes the line-oriented valve scan format:
//
//	Valve AA has flow rate=0; tunnels lead to valves DD, II, BB
//	Valve HH has flow rate=22; tunnel leads to valve GG
package scan

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"valves/graph"
)

const linePattern = `^Valve (?P<valve>[A-Za-z0-9]+) has flow rate=(?P<rate>\d+)` +
	`(?:; (?:tunnel leads to valve|tunnels lead to valves) (?P<paths>[A-Za-z0-9]+(?:, [A-Za-z0-9]+)*))?$`

// Parser turns scan lines into graph records. Build one with NewParser
// and reuse it.
type Parser struct {
	pattern *regexp.Regexp
	valve   int
	rate    int
	paths   int
}

func NewParser() *Parser {
	pattern := regexp.MustCompile(linePattern)
	return &Parser{
		pattern: pattern,
		valve:   pattern.SubexpIndex("valve"),
		rate:    pattern.SubexpIndex("rate"),
		paths:   pattern.SubexpIndex("paths"),
	}
}

// ParseLine parses a single line. The returned record has no line number.
func (p *Parser) ParseLine(line string) (graph.Record, error) {
	line = strings.TrimSpace(line)
	match := p.pattern.FindStringSubmatch(line)
	if match == nil {
		return graph.Record{}, &graph.RecordError{Label: line, Err: graph.ErrMalformedRecord}
	}

	rate, err := strconv.ParseUint(match[p.rate], 10, 64)
	if err != nil {
		return graph.Record{}, &graph.RecordError{
			Label: match[p.valve],
			Err:   fmt.Errorf("%w: flow rate: %w", graph.ErrMalformedRecord, err),
		}
	}

	neighbors := []string{}
	if match[p.paths] != "" {
		neighbors = strings.Split(match[p.paths], ", ")
	}

	return graph.Record{Label: match[p.valve], Rate: rate, Neighbors: neighbors}, nil
}

// Parse reads every non-blank line of r.
func (p *Parser) Parse(r io.Reader) ([]graph.Record, error) {
	records := []graph.Record{}
	scanner := bufio.NewScanner(r)
	number := 0
	for scanner.Scan() {
		number++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := p.ParseLine(line)
		if err != nil {
			if recordErr, ok := err.(*graph.RecordError); ok {
				recordErr.Line = number
			}
			return nil, err
		}
		record.Line = number
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scan: %w", err)
	}
	return records, nil
}

// Format writes records in scan format, one per line.
func Format(w io.Writer, records []graph.Record) error {
	bw := bufio.NewWriter(w)
	for _, record := range records {
		var err error
		switch len(record.Neighbors) {
		case 0:
			_, err = fmt.Fprintf(bw, "Valve %s has flow rate=%d\n", record.Label, record.Rate)
		case 1:
			_, err = fmt.Fprintf(bw, "Valve %s has flow rate=%d; tunnel leads to valve %s\n",
				record.Label, record.Rate, record.Neighbors[0])
		default:
			_, err = fmt.Fprintf(bw, "Valve %s has flow rate=%d; tunnels lead to valves %s\n",
				record.Label, record.Rate, strings.Join(record.Neighbors, ", "))
		}
		if err != nil {
			return fmt.Errorf("failed to write valve %s: %w", record.Label, err)
		}
	}
	return bw.Flush()
}

// Package metadata parses program meta-data files into the flat record stream
// consumed by the simulator.
//
// A file optionally opens with "Start Program Meta-Data Code:" and closes with
// "End Program Meta-Data Code.". Between them, records of the form
// <Letter>(<label>)<cycles> are separated by ';' and the last one ends with '.':
//
//	S(start)0; A(start)0; P(run)11; I(hard drive)9; A(end)0; S(end)0.
package metadata

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/viant/parsly"

	"github.com/opsim/sched-sim/sim"
)

// Load reads and parses the meta-data file at path.
func Load(path string) ([]sim.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading meta-data %s: %w", path, err)
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing meta-data %s: %w", path, err)
	}
	return records, nil
}

// Parse tokenizes input into records. It checks syntax only; whether a
// component letter or device is meaningful is decided by the simulator.
func Parse(input []byte) ([]sim.Record, error) {
	cursor := parsly.NewCursor("metadata", input, 0)
	var records []sim.Record

	cursor.MatchOne(whitespaceToken)
	cursor.MatchOne(headerToken)

	for {
		cursor.MatchOne(whitespaceToken)
		if !cursor.HasMore() {
			if len(records) == 0 {
				return nil, fmt.Errorf("%w: no records", sim.ErrMalformedOperation)
			}
			return records, nil
		}

		rec, err := parseRecord(cursor)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

		matched := cursor.MatchAfterOptional(whitespaceToken, separatorToken, terminatorToken)
		switch matched.Code {
		case separatorCode:
			continue
		case terminatorCode:
		case parsly.EOF:
			return records, nil
		default:
			return nil, cursor.NewError(separatorToken, terminatorToken)
		}
		break
	}

	cursor.MatchOne(whitespaceToken)
	cursor.MatchOne(footerToken)
	cursor.MatchOne(whitespaceToken)
	if cursor.HasMore() {
		return nil, fmt.Errorf("unexpected content after last record at offset %d", cursor.Pos)
	}
	return records, nil
}

// parseRecord matches <Letter>(<label>)<cycles>.
func parseRecord(cursor *parsly.Cursor) (sim.Record, error) {
	var rec sim.Record

	matched := cursor.MatchOne(componentToken)
	if matched.Code != componentCode {
		return rec, cursor.NewError(componentToken)
	}
	rec.Component = sim.Component(matched.Text(cursor))

	if cursor.MatchOne(openParenToken).Code != openParenCode {
		return rec, cursor.NewError(openParenToken)
	}

	matched = cursor.MatchAny(labelToken, closeParenToken)
	switch matched.Code {
	case labelCode:
		rec.Label = strings.TrimSpace(matched.Text(cursor))
		if cursor.MatchOne(closeParenToken).Code != closeParenCode {
			return rec, cursor.NewError(closeParenToken)
		}
	case closeParenCode:
	default:
		return rec, cursor.NewError(labelToken, closeParenToken)
	}

	matched = cursor.MatchOne(cyclesToken)
	if matched.Code != cyclesCode {
		return rec, cursor.NewError(cyclesToken)
	}
	cycles, err := strconv.Atoi(matched.Text(cursor))
	if err != nil {
		return rec, fmt.Errorf("%w: %s(%s): cycles %q: %v", sim.ErrMalformedOperation, rec.Component, rec.Label, matched.Text(cursor), err)
	}
	rec.Cycles = cycles
	return rec, nil
}

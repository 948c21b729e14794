// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package reader

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// namedCharacterLiterals is the inverse of value.namedCharacters: the names
// spec.md §6 requires the reader (not just the printer) to understand.
var namedCharacterLiterals = map[string]rune{
	"space":   ' ',
	"newline": '\n',
	"tab":     '\t',
	"return":  '\r',
	"null":    0,
}

// characterFromLiteral decodes a scanner Character token's literal text
// (everything after "#\\") into a code point: a name ("space"), a hex escape
// ("x41"), or a single character.
func characterFromLiteral(lit string) (rune, error) {
	if r, ok := namedCharacterLiterals[lit]; ok {
		return r, nil
	}
	if len(lit) > 1 && (lit[0] == 'x' || lit[0] == 'X') {
		n, err := strconv.ParseInt(lit[1:], 16, 32)
		if err != nil {
			return 0, errors.New("malformed character literal: #\\" + lit)
		}
		return rune(n), nil
	}
	r, size := utf8.DecodeRuneInString(lit)
	if r == utf8.RuneError || size != len(lit) {
		return 0, errors.New("malformed character literal: #\\" + lit)
	}
	return r, nil
}

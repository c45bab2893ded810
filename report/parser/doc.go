// Package parser recognizes the structure of HotSpot fatal error reports
// (hs_err_pid*.log files).
//
// Recognition happens in two stages. The Lexer classifies every byte of
// the input into a Token of one Category. The Parser then groups the token
// stream into a Document made of an Intro, a sequence of Sections, each
// holding Subsections and loose tokens, and a Trailer of whatever follows
// the last section.
//
// Neither stage can fail. Malformed or truncated reports still produce a
// complete tree whose leaves, read in order, reproduce the input exactly.
package parser

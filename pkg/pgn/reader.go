package pgn

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/courseforge/courseforge/pkg/rules"
	"github.com/courseforge/courseforge/pkg/study"
)

// ParseError reports source text that cannot be parsed into a game tree.
// It is fatal for the whole export: nothing downstream runs when Decode
// fails.
type ParseError struct {
	Msg string
}

func (e ParseError) Error() string {
	return "pgn: " + e.Msg
}

// tagPairPattern matches one header line, e.g. [Event "My Study"].
var tagPairPattern = regexp.MustCompile(`^\s*\[([A-Za-z0-9_]+)\s+"((?:[^"\\]|\\.)*)"\]\s*$`)

// DecodeFile reads and parses a PGN file.
func DecodeFile(path string, eng rules.Engine) (*study.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PGN file: %w", err)
	}
	return Decode(string(data), eng)
}

// Decode parses PGN text (tag pairs plus movetext with comments, NAGs and
// nested variations) into a game tree, replaying every move through the
// rules engine. Only the first game in the text is read.
func Decode(text string, eng rules.Engine) (*study.Game, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ParseError{Msg: "empty input"}
	}

	game := study.NewGame()

	lines := strings.Split(text, "\n")
	movetextStart := len(lines)
	resultFromTags := false
	for i, line := range lines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "%") {
			continue
		}
		m := tagPairPattern.FindStringSubmatch(line)
		if m == nil {
			movetextStart = i
			break
		}
		if m[1] == "Result" {
			resultFromTags = true
		}
		game.SetHeader(m[1], unescapeTagValue(m[2]))
	}

	movetext := strings.Join(lines[movetextStart:], "\n")
	if err := parseMovetext(game, movetext, eng, resultFromTags); err != nil {
		return nil, err
	}
	return game, nil
}

// parseMovetext builds the tree by feeding moves to a cursor. Variations
// open relative to the last played move: '(' saves the current node and
// steps back one ply, ')' restores the saved node.
func parseMovetext(game *study.Game, movetext string, eng rules.Engine, resultFromTags bool) error {
	cur := study.NewCursor(game, eng)
	var frames []*study.Node

	sc := &scanner{src: movetext}
	for {
		tok, err := sc.next()
		if err != nil {
			return err
		}
		if tok == nil {
			break
		}

		switch tok.kind {
		case tokSAN:
			if _, err := cur.PlaySAN(tok.text); err != nil {
				return ParseError{Msg: fmt.Sprintf("illegal or unreadable move %q: %v", tok.text, err)}
			}
		case tokComment:
			node := cur.Current()
			text := strings.TrimSpace(tok.text)
			if text == "" {
				break
			}
			if existing := node.Comment(); existing != "" {
				node.SetComment(existing + " " + text)
			} else {
				node.SetComment(text)
			}
		case tokNAG:
			if !cur.Current().IsRoot() {
				cur.Current().AddNAG(tok.nag)
			}
		case tokOpen:
			if cur.Current().IsRoot() {
				return ParseError{Msg: "variation with no preceding move"}
			}
			frames = append(frames, cur.Current())
			cur.Back()
		case tokClose:
			if len(frames) == 0 {
				return ParseError{Msg: "unbalanced ')'"}
			}
			node := frames[len(frames)-1]
			frames = frames[:len(frames)-1]
			if err := cur.Goto(node); err != nil {
				return ParseError{Msg: fmt.Sprintf("restoring line after variation: %v", err)}
			}
		case tokResult:
			if !resultFromTags {
				game.SetHeader("Result", tok.text)
			}
			if len(frames) > 0 {
				return ParseError{Msg: "game terminated inside a variation"}
			}
			return nil
		}
	}

	if len(frames) > 0 {
		return ParseError{Msg: "unbalanced '('"}
	}
	return nil
}

type tokenKind int

const (
	tokSAN tokenKind = iota
	tokComment
	tokNAG
	tokOpen
	tokClose
	tokResult
)

type token struct {
	kind tokenKind
	text string
	nag  int
}

// scanner tokenizes PGN movetext. Move-number indicators and rest-of-line
// comments are consumed and dropped.
type scanner struct {
	src string
	pos int
}

func (s *scanner) next() (*token, error) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case unicode.IsSpace(rune(c)):
			s.pos++
		case c == ';':
			s.skipLine()
		case c == '{':
			return s.scanComment()
		case c == '(':
			s.pos++
			return &token{kind: tokOpen}, nil
		case c == ')':
			s.pos++
			return &token{kind: tokClose}, nil
		case c == '$':
			return s.scanNAG()
		default:
			return s.scanWord()
		}
	}
	return nil, nil
}

func (s *scanner) skipLine() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) scanComment() (*token, error) {
	end := strings.IndexByte(s.src[s.pos:], '}')
	if end < 0 {
		return nil, ParseError{Msg: "unterminated comment"}
	}
	text := s.src[s.pos+1 : s.pos+end]
	s.pos += end + 1
	return &token{kind: tokComment, text: text}, nil
}

func (s *scanner) scanNAG() (*token, error) {
	start := s.pos + 1
	end := start
	for end < len(s.src) && s.src[end] >= '0' && s.src[end] <= '9' {
		end++
	}
	if end == start {
		return nil, ParseError{Msg: "malformed NAG"}
	}
	n, err := strconv.Atoi(s.src[start:end])
	if err != nil {
		return nil, ParseError{Msg: "malformed NAG: " + err.Error()}
	}
	s.pos = end
	return &token{kind: tokNAG, nag: n}, nil
}

func (s *scanner) scanWord() (*token, error) {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if unicode.IsSpace(rune(c)) || c == '(' || c == ')' || c == '{' || c == ';' {
			break
		}
		s.pos++
	}
	word := s.src[start:s.pos]

	switch word {
	case "1-0", "0-1", "1/2-1/2", "*":
		return &token{kind: tokResult, text: word}, nil
	}
	if isMoveNumber(word) {
		return s.next()
	}
	// Suffix glyphs like "!?" are stylistic duplicates of NAGs; drop them
	// so SAN decoding sees a clean token.
	word = strings.TrimRight(word, "!?")
	if word == "" {
		return s.next()
	}
	return &token{kind: tokSAN, text: word}, nil
}

// isMoveNumber matches indicators such as "1.", "12..." or a bare "3".
func isMoveNumber(word string) bool {
	trimmed := strings.TrimRight(word, ".")
	if trimmed == "" {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] < '0' || trimmed[i] > '9' {
			return false
		}
	}
	return true
}

func unescapeTagValue(v string) string {
	v = strings.ReplaceAll(v, `\"`, `"`)
	return strings.ReplaceAll(v, `\\`, `\`)
}

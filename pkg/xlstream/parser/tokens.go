package parser

import (
	"encoding/xml"
	"io"
)

// TokenKind distinguishes the structural events of a token stream.
type TokenKind int

const (
	StartElement TokenKind = iota
	EndElement
	Text
)

func (k TokenKind) String() string {
	switch k {
	case StartElement:
		return "start"
	case EndElement:
		return "end"
	case Text:
		return "text"
	}
	return "unknown"
}

// Token is one structural event of an XML part. Name is the local element
// name; Attrs is keyed by local attribute name and only set on StartElement;
// Text is only set on Text.
type Token struct {
	Kind  TokenKind
	Name  string
	Attrs map[string]string
	Text  string
}

// Attr returns the named attribute and whether it was present.
func (t Token) Attr(name string) (string, bool) {
	v, ok := t.Attrs[name]
	return v, ok
}

// TokenSource produces the ordered events of one part.
// Next returns io.EOF once the stream is exhausted.
type TokenSource interface {
	Next() (Token, error)
}

type xmlTokenSource struct {
	decoder *xml.Decoder
}

// NewTokenSource tokenizes r with encoding/xml. Namespaces are dropped;
// comments, processing instructions and directives are skipped.
func NewTokenSource(r io.Reader) TokenSource {
	return &xmlTokenSource{decoder: xml.NewDecoder(r)}
}

func (s *xmlTokenSource) Next() (Token, error) {
	for {
		token, err := s.decoder.Token()
		if err != nil {
			return Token{}, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, attr := range t.Attr {
				attrs[attr.Name.Local] = attr.Value
			}
			return Token{Kind: StartElement, Name: t.Name.Local, Attrs: attrs}, nil
		case xml.EndElement:
			return Token{Kind: EndElement, Name: t.Name.Local}, nil
		case xml.CharData:
			return Token{Kind: Text, Text: string(t)}, nil
		}
	}
}

// SliceTokenSource replays a fixed list of tokens.
type SliceTokenSource struct {
	tokens []Token
	pos    int
}

// NewSliceTokenSource returns a TokenSource over tokens.
func NewSliceTokenSource(tokens ...Token) *SliceTokenSource {
	return &SliceTokenSource{tokens: tokens}
}

func (s *SliceTokenSource) Next() (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{}, io.EOF
	}
	t := s.tokens[s.pos]
	s.pos++
	return t, nil
}

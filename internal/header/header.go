package header

import (
	"fmt"
	"iter"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/card"
)

const (
	// BlockSize is the FITS logical record length.
	BlockSize = 2880
	// CardsPerBlock is the number of cards in one block.
	CardsPerBlock = BlockSize / card.Size
)

// Header is an ordered, immutable sequence of cards ending with END.
type Header struct {
	cards  []card.Card
	index  map[string][]int
	offset int64
}

// New creates a header from cards in order. No structural validation is
// performed; see Structure.
func New(cards []card.Card) *Header {
	h := &Header{
		cards:  make([]card.Card, len(cards)),
		index:  make(map[string][]int),
		offset: -1,
	}
	for i, c := range cards {
		h.cards[i] = c.WithPosition(i)
		key := strings.ToUpper(c.Keyword())
		h.index[key] = append(h.index[key], i)
	}
	return h
}

// Offset returns the source offset the header was read from, or -1.
func (h *Header) Offset() int64 {
	return h.offset
}

// Len returns the number of cards, END included.
func (h *Header) Len() int {
	return len(h.cards)
}

// At returns the card at position i.
func (h *Header) At(i int) card.Card {
	return h.cards[i]
}

// Cards returns a copy of all cards in order.
func (h *Header) Cards() []card.Card {
	return append([]card.Card(nil), h.cards...)
}

// All iterates over the cards in their original order.
func (h *Header) All() iter.Seq2[int, card.Card] {
	return func(yield func(int, card.Card) bool) {
		for i, c := range h.cards {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Keywords returns the distinct keywords in order of first appearance.
func (h *Header) Keywords() []string {
	seen := make(map[string]bool, len(h.index))
	var out []string
	for _, c := range h.cards {
		key := strings.ToUpper(c.Keyword())
		if c.IsEnd() || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c.Keyword())
	}
	return out
}

// Has reports whether keyword appears at least once.
func (h *Header) Has(keyword string) bool {
	return len(h.index[strings.ToUpper(keyword)]) > 0
}

// Count returns how many cards carry keyword.
func (h *Header) Count(keyword string) int {
	return len(h.index[strings.ToUpper(keyword)])
}

// Card returns the first card with the given keyword.
func (h *Header) Card(keyword string) (card.Card, bool) {
	idx := h.index[strings.ToUpper(keyword)]
	if len(idx) == 0 {
		return card.Card{}, false
	}
	return h.cards[idx[0]], true
}

// Get returns the value of the first card with the given keyword. A string
// ending in '&' followed by CONTINUE cards is returned joined.
func (h *Header) Get(keyword string) (card.Value, bool) {
	idx := h.index[strings.ToUpper(keyword)]
	if len(idx) == 0 {
		return card.Value{}, false
	}
	return h.joined(idx[0]), true
}

// Values returns the value of every card with the given keyword. For
// commentary keywords such as HISTORY the text is returned as a string value.
func (h *Header) Values(keyword string) []card.Value {
	idx := h.index[strings.ToUpper(keyword)]
	out := make([]card.Value, 0, len(idx))
	for _, i := range idx {
		c := h.cards[i]
		if !c.HasValue() {
			out = append(out, card.String(c.Comment()))
			continue
		}
		out = append(out, h.joined(i))
	}
	return out
}

func (h *Header) joined(i int) card.Value {
	v := h.cards[i].Value()
	if v.Kind() != card.KindString || !strings.HasSuffix(v.Text(), "&") {
		return v
	}
	var sb strings.Builder
	text := v.Text()
	for j := i + 1; strings.HasSuffix(text, "&") && j < len(h.cards); j++ {
		next := h.cards[j]
		if !next.Is("CONTINUE") || next.Value().Kind() != card.KindContinue {
			break
		}
		sb.WriteString(strings.TrimSuffix(text, "&"))
		text = next.Value().Text()
	}
	if sb.Len() == 0 {
		return v
	}
	sb.WriteString(text)
	return card.String(sb.String())
}

// Int returns an integer keyword value.
func (h *Header) Int(keyword string) (int64, error) {
	v, ok := h.Get(keyword)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrKeywordNotFound, keyword)
	}
	i, err := v.AsInt()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", keyword, err)
	}
	return i, nil
}

// Float returns an integer or float keyword value as float64.
func (h *Header) Float(keyword string) (float64, error) {
	v, ok := h.Get(keyword)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrKeywordNotFound, keyword)
	}
	f, err := v.AsFloat()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", keyword, err)
	}
	return f, nil
}

// Text returns a string keyword value.
func (h *Header) Text(keyword string) (string, error) {
	v, ok := h.Get(keyword)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeywordNotFound, keyword)
	}
	s, err := v.AsString()
	if err != nil {
		return "", fmt.Errorf("%s: %w", keyword, err)
	}
	return s, nil
}

// Bool returns a logical keyword value.
func (h *Header) Bool(keyword string) (bool, error) {
	v, ok := h.Get(keyword)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrKeywordNotFound, keyword)
	}
	b, err := v.AsBool()
	if err != nil {
		return false, fmt.Errorf("%s: %w", keyword, err)
	}
	return b, nil
}

// Blocks returns the number of 2880-byte blocks the header occupies.
func (h *Header) Blocks() int {
	return (len(h.cards) + CardsPerBlock - 1) / CardsPerBlock
}

// Bytes serializes the header, padding the last block with blank cards.
func (h *Header) Bytes() []byte {
	out := make([]byte, 0, h.Blocks()*BlockSize)
	for _, c := range h.cards {
		out = append(out, c.Bytes()...)
	}
	for len(out)%BlockSize != 0 {
		out = append(out, ' ')
	}
	return out
}

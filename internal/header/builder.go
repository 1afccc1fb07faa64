package header

import (
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/card"
)

// Builder constructs a header card by card. Errors are deferred until
// Build so calls can be chained.
type Builder struct {
	cards   []card.Card
	primary bool
	err     error
}

// NewPrimary starts a primary header with SIMPLE, BITPIX and NAXIS cards.
func NewPrimary(bitpix int64, axes ...int64) *Builder {
	b := &Builder{primary: true}
	b.Set("SIMPLE", card.Logical(true), "conforms to FITS standard")
	b.mandatory(bitpix, axes)
	return b
}

// NewExtension starts an extension header. PCOUNT and GCOUNT are always
// written.
func NewExtension(xtension string, bitpix int64, axes []int64, pcount, gcount int64) *Builder {
	b := &Builder{}
	b.Set("XTENSION", card.String(xtension), "extension type")
	b.mandatory(bitpix, axes)
	b.Set("PCOUNT", card.Integer(pcount), "parameter count")
	b.Set("GCOUNT", card.Integer(gcount), "group count")
	return b
}

// NewImage starts an IMAGE extension header.
func NewImage(bitpix int64, axes ...int64) *Builder {
	return NewExtension("IMAGE", bitpix, axes, 0, 1)
}

// NewBinTable starts a BINTABLE extension header for rows of rowBytes
// bytes, a heap of heapBytes bytes and fields columns. Column keywords are
// added with Set.
func NewBinTable(rowBytes, rows, heapBytes, fields int64) *Builder {
	b := NewExtension("BINTABLE", 8, []int64{rowBytes, rows}, heapBytes, 1)
	b.Set("TFIELDS", card.Integer(fields), "number of columns")
	return b
}

// NewASCIITable starts a TABLE extension header for rows of rowBytes
// characters and fields columns.
func NewASCIITable(rowBytes, rows, fields int64) *Builder {
	b := NewExtension("TABLE", 8, []int64{rowBytes, rows}, 0, 1)
	b.Set("TFIELDS", card.Integer(fields), "number of columns")
	return b
}

func (b *Builder) mandatory(bitpix int64, axes []int64) {
	b.Set("BITPIX", card.Integer(bitpix), "bits per data value")
	b.Set("NAXIS", card.Integer(int64(len(axes))), "number of axes")
	for i, n := range axes {
		b.Set("NAXIS"+strconv.Itoa(i+1), card.Integer(n), "")
	}
}

// Set replaces the first card with keyword, or appends one. String values
// too long for one card are continued over CONTINUE cards.
func (b *Builder) Set(keyword string, v card.Value, comment string) *Builder {
	if b.err != nil {
		return b
	}
	var cards []card.Card
	if v.Kind() == card.KindString {
		cs, err := card.LongString(keyword, v.Text(), comment)
		if err != nil {
			b.err = err
			return b
		}
		cards = cs
	} else {
		c, err := card.New(keyword, v, comment)
		if err != nil {
			b.err = err
			return b
		}
		cards = []card.Card{c}
	}

	i, n := b.find(keyword)
	if i < 0 {
		b.cards = append(b.cards, cards...)
		return b
	}
	tail := append([]card.Card(nil), b.cards[i+n:]...)
	b.cards = append(append(b.cards[:i], cards...), tail...)
	return b
}

// SetComment changes the comment of the first card with keyword.
func (b *Builder) SetComment(keyword, comment string) *Builder {
	if b.err != nil {
		return b
	}
	i, n := b.find(keyword)
	if i < 0 {
		b.err = &StructuralError{Kind: MissingKeyword, Keyword: keyword, Offset: -1}
		return b
	}
	// The comment belongs on the last card of a continued string.
	last := b.cards[i+n-1]
	c, err := card.New(last.Keyword(), last.Value(), comment)
	if err != nil {
		b.err = err
		return b
	}
	b.cards[i+n-1] = c.WithPosition(last.Position())
	return b
}

// Add appends a card as is.
func (b *Builder) Add(c card.Card) *Builder {
	if b.err == nil {
		b.cards = append(b.cards, c)
	}
	return b
}

// AddHistory appends a HISTORY card.
func (b *Builder) AddHistory(text string) *Builder {
	return b.commentary("HISTORY", text)
}

// AddComment appends a COMMENT card.
func (b *Builder) AddComment(text string) *Builder {
	return b.commentary("COMMENT", text)
}

func (b *Builder) commentary(keyword, text string) *Builder {
	if b.err != nil {
		return b
	}
	const room = card.Size - card.KeywordSize
	rest := []rune(text)
	for {
		chunk := rest[:min(len(rest), room)]
		c, err := card.Commentary(keyword, string(chunk))
		if err != nil {
			b.err = err
			return b
		}
		b.cards = append(b.cards, c)
		rest = rest[len(chunk):]
		if len(rest) == 0 {
			return b
		}
	}
}

// Build appends END and validates the mandatory keywords.
func (b *Builder) Build() (*Header, error) {
	if b.err != nil {
		return nil, b.err
	}
	cards := append(append([]card.Card(nil), b.cards...), card.End())
	h := New(cards)
	if _, err := h.Structure(b.primary, nil); err != nil {
		return nil, err
	}
	return h, nil
}

// find returns the index of the first card with keyword and the number of
// cards it spans including CONTINUE cards.
func (b *Builder) find(keyword string) (int, int) {
	for i, c := range b.cards {
		if !c.Is(keyword) || !c.HasValue() {
			continue
		}
		n := 1
		for i+n < len(b.cards) && strings.HasSuffix(b.cards[i+n-1].Value().Text(), "&") &&
			b.cards[i+n].Value().Kind() == card.KindContinue {
			n++
		}
		return i, n
	}
	return -1, 0
}

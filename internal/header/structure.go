package header

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/card"
)

// MaxAxes is the largest NAXIS value the standard allows.
const MaxAxes = 999

var validBitpix = map[int64]bool{8: true, 16: true, 32: true, 64: true, -32: true, -64: true}

// Structure holds the mandatory keyword values that fix an HDU's geometry.
type Structure struct {
	// Xtension is the extension type, empty for the primary HDU.
	Xtension string
	Bitpix   int64
	// Axes holds NAXIS1..NAXISn; NAXIS1 varies fastest in the data.
	Axes   []int64
	Pcount int64
	Gcount int64
	// Groups is set for a random-groups primary HDU.
	Groups bool
}

// Structure validates the mandatory keywords of h and returns their values.
// primary selects SIMPLE or XTENSION as the required first keyword.
// Deviations that do not affect geometry are logged to log when non-nil.
func (h *Header) Structure(primary bool, log *slog.Logger) (Structure, error) {
	v := validator{h: h}
	s := Structure{Pcount: 0, Gcount: 1}

	if err := v.end(); err != nil {
		return s, err
	}

	if primary {
		c, err := v.mandatory(0, "SIMPLE", card.KindLogical)
		if err != nil {
			return s, err
		}
		if b, _ := c.Value().AsBool(); !b && log != nil {
			log.Warn("primary header declares SIMPLE = F")
		}
	} else {
		c, err := v.mandatory(0, "XTENSION", card.KindString)
		if err != nil {
			return s, err
		}
		s.Xtension = strings.TrimSpace(c.Value().Text())
	}

	c, err := v.mandatory(1, "BITPIX", card.KindInteger)
	if err != nil {
		return s, err
	}
	s.Bitpix, err = c.Value().AsInt()
	if err != nil || !validBitpix[s.Bitpix] {
		return s, v.fail(UnsupportedBitpix, "BITPIX", fmt.Sprintf("value %s", c.Value().Text()))
	}

	c, err = v.mandatory(2, "NAXIS", card.KindInteger)
	if err != nil {
		return s, err
	}
	naxis, err := c.Value().AsInt()
	if err != nil || naxis < 0 || naxis > MaxAxes {
		return s, v.fail(InvalidValue, "NAXIS", fmt.Sprintf("value %s outside 0..%d", c.Value().Text(), MaxAxes))
	}

	s.Axes = make([]int64, naxis)
	for i := int64(1); i <= naxis; i++ {
		kw := "NAXIS" + strconv.FormatInt(i, 10)
		c, err := v.mandatory(int(2+i), kw, card.KindInteger)
		if err != nil {
			if se, ok := err.(*StructuralError); ok && se.Kind == MissingKeyword {
				se.Kind = AxisCountMismatch
				se.Detail = fmt.Sprintf("NAXIS = %d but %s is missing", naxis, kw)
			}
			return s, err
		}
		n, err := c.Value().AsInt()
		if err != nil || n < 0 {
			return s, v.fail(InvalidValue, kw, fmt.Sprintf("axis length %s", c.Value().Text()))
		}
		s.Axes[i-1] = n
	}

	if err := v.unique(primary, naxis); err != nil {
		return s, err
	}

	if s.Pcount, err = v.optionalInt("PCOUNT", 0, !primary, log); err != nil {
		return s, err
	}
	if s.Gcount, err = v.optionalInt("GCOUNT", 1, !primary, log); err != nil {
		return s, err
	}
	if s.Pcount < 0 || s.Gcount < 0 {
		return s, v.fail(InvalidValue, "PCOUNT", fmt.Sprintf("PCOUNT %d, GCOUNT %d", s.Pcount, s.Gcount))
	}

	if primary && naxis > 0 && s.Axes[0] == 0 {
		if g, err := h.Bool("GROUPS"); err == nil && g {
			s.Groups = true
		}
	}
	return s, nil
}

type validator struct {
	h *Header
}

func (v validator) fail(kind StructuralKind, keyword, detail string) *StructuralError {
	return &StructuralError{Kind: kind, Keyword: keyword, Offset: v.h.offset, Detail: detail}
}

// end checks for exactly one END card in last position.
func (v validator) end() error {
	switch n := v.h.Count("END"); {
	case n == 0:
		return v.fail(MissingEnd, "", "")
	case n > 1:
		return v.fail(DuplicateKeyword, "END", fmt.Sprintf("%d END cards", n))
	}
	if !v.h.cards[len(v.h.cards)-1].IsEnd() {
		return v.fail(MisorderedKeyword, "END", "END is not the last card")
	}
	return nil
}

// mandatory checks that keyword sits at position pos with the given kind.
func (v validator) mandatory(pos int, keyword string, kind card.Kind) (card.Card, error) {
	if pos >= len(v.h.cards) || !v.h.cards[pos].Is(keyword) {
		if v.h.Has(keyword) {
			c, _ := v.h.Card(keyword)
			return card.Card{}, v.fail(MisorderedKeyword, keyword,
				fmt.Sprintf("found at card %d, expected card %d", c.Position()+1, pos+1))
		}
		return card.Card{}, v.fail(MissingKeyword, keyword, fmt.Sprintf("expected at card %d", pos+1))
	}
	c := v.h.cards[pos]
	if c.Value().Kind() != kind {
		return card.Card{}, v.fail(InvalidValue, keyword,
			fmt.Sprintf("expected %s value, found %s %q", kind, c.Value().Kind(), c.Value().Text()))
	}
	return c, nil
}

// unique rejects repeated mandatory keywords and stray NAXISn cards.
func (v validator) unique(primary bool, naxis int64) error {
	first := "XTENSION"
	if primary {
		first = "SIMPLE"
	}
	for _, kw := range []string{first, "BITPIX", "NAXIS"} {
		if n := v.h.Count(kw); n > 1 {
			return v.fail(DuplicateKeyword, kw, fmt.Sprintf("appears %d times", n))
		}
	}
	for key, idx := range v.h.index {
		n, ok := axisNumber(key)
		if !ok {
			continue
		}
		if n > naxis {
			return v.fail(AxisCountMismatch, key, fmt.Sprintf("NAXIS = %d", naxis))
		}
		if len(idx) > 1 {
			return v.fail(DuplicateKeyword, key, fmt.Sprintf("appears %d times", len(idx)))
		}
	}
	return nil
}

func (v validator) optionalInt(keyword string, def int64, expected bool, log *slog.Logger) (int64, error) {
	val, ok := v.h.Get(keyword)
	if !ok {
		if expected && log != nil {
			log.Warn("extension header lacks keyword, assuming default", "keyword", keyword, "default", def)
		}
		return def, nil
	}
	n, err := val.AsInt()
	if err != nil {
		return 0, v.fail(InvalidValue, keyword, err.Error())
	}
	return n, nil
}

// axisNumber parses NAXISn keywords.
func axisNumber(keyword string) (int64, bool) {
	if !strings.HasPrefix(keyword, "NAXIS") || len(keyword) == len("NAXIS") {
		return 0, false
	}
	n, err := strconv.ParseInt(keyword[len("NAXIS"):], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

package dense

import (
	"remap/internal/alias"
	"remap/internal/anchor"
)

// fuse collapses runs of anchors that spell a multi-token alias into one
// synthetic anchor. Identifier anchors inside the run are kept after the
// synthetic one so they can still be mapped on their own.
func fuse(anchors []anchor.Anchor, reg *alias.Registry) []anchor.Anchor {
	out := make([]anchor.Anchor, 0, len(anchors))
	for j := 0; j < len(anchors); j++ {
		m, ok := matchMacro(anchors[j:], reg.Macros(anchors[j].Text))
		if !ok {
			out = append(out, anchors[j])
			continue
		}
		run := anchors[j : j+len(m.Search)]
		kind := anchor.Keyword
		if m.Punct() {
			kind = anchor.Operator
		}
		out = append(out, anchor.Anchor{
			Text:            m.Replace,
			Start:           run[0].Start,
			End:             run[len(run)-1].End,
			Kind:            kind,
			InInterpolation: run[0].InInterpolation,
			AllowLiteral:    run[0].AllowLiteral,
			Synthetic:       true,
		})
		for _, a := range run {
			if a.Kind == anchor.Identifier {
				out = append(out, a)
			}
		}
		j += len(m.Search) - 1
	}
	return out
}

func matchMacro(rest []anchor.Anchor, macros []alias.Macro) (alias.Macro, bool) {
	for _, m := range macros {
		if len(rest) < len(m.Search) {
			continue
		}
		ok := true
		for k, text := range m.Search {
			if rest[k].Text != text {
				ok = false
				break
			}
		}
		if ok {
			return m, true
		}
	}
	return alias.Macro{}, false
}

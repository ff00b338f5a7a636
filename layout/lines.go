package layout

import "math"

// lineSpan 记录一行覆盖的分段下标区间 [from, to] 以及该行的起点。
type lineSpan struct {
	from, to  int
	startIdx  int
	startAcc  float64
	leftInset float64
}

// PackLines 用贪心首次适配把分段装入行，只在分段预先标记的断点处换行。
// leadingIndent 仅作用于第一行。
func PackLines(content string, segments []TextSegment, maxTextWidth, leadingIndent float64) []TextLine {
	if len(segments) == 0 {
		return nil
	}
	runes := []rune(content)

	rangeStart, rangeAcc := 0, 0.0
	if segments[0].Marker {
		rangeStart = segments[0].Idx
		rangeAcc = segments[0].AccumulatedWidth
		segments = segments[1:]
	}

	spans := breakLines(segments, rangeStart, rangeAcc, maxTextWidth, leadingIndent)
	lines := make([]TextLine, 0, len(spans))
	for _, sp := range spans {
		if line, ok := materializeLine(runes, segments, sp); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// breakLines 决定每一行结束于哪个断点。
func breakLines(segments []TextSegment, rangeStart int, rangeAcc, maxTextWidth, leadingIndent float64) []lineSpan {
	var spans []lineSpan
	cur := lineSpan{from: 0, startIdx: rangeStart, startAcc: rangeAcc, leftInset: leadingIndent}
	lastBreak := -1
	for j := 0; j < len(segments); j++ {
		seg := segments[j]
		lineMaxWidth := maxTextWidth - cur.leftInset
		for lastBreak >= cur.from && seg.AccumulatedWidth-cur.startAcc > lineMaxWidth {
			cur.to = lastBreak
			spans = append(spans, cur)
			brk := segments[lastBreak]
			cur = lineSpan{from: lastBreak + 1, startIdx: brk.Idx, startAcc: brk.AccumulatedWidth}
			lineMaxWidth = maxTextWidth
			lastBreak = -1
		}
		if seg.Break && j < len(segments)-1 {
			lastBreak = j
		}
	}
	cur.to = len(segments) - 1
	if cur.from <= cur.to {
		spans = append(spans, cur)
	}
	return spans
}

// materializeLine 把一行内的分段合并为 TextElem。
// 字体切换、句子边界、widget 以及下一个分段携带 widget 时强制结束当前片段。
func materializeLine(runes []rune, segments []TextSegment, sp lineSpan) (TextLine, bool) {
	var line TextLine
	elemStart, elemAcc := sp.startIdx, sp.startAcc
	for j := sp.from; j <= sp.to; j++ {
		seg := segments[j]
		flush := j == sp.to || seg.FontChange || seg.SentenceBreak || seg.Widget != nil
		if !flush && segments[j+1].Widget != nil {
			flush = true
		}
		if !flush {
			continue
		}
		if seg.Idx > elemStart && seg.Idx <= len(runes) {
			line.Elems = append(line.Elems, TextElem{
				Text:        string(runes[elemStart:seg.Idx]),
				CharStart:   elemStart,
				CharEnd:     seg.Idx,
				Font:        seg.FontDesc,
				XPos:        sp.leftInset + elemAcc - sp.startAcc,
				Width:       math.Ceil(seg.AccumulatedWidth - elemAcc),
				SentenceIdx: seg.SentenceIdx,
				Widget:      seg.Widget,
			})
		}
		elemStart, elemAcc = seg.Idx, seg.AccumulatedWidth
	}
	if len(line.Elems) == 0 {
		return line, false
	}
	line.CharStart = line.Elems[0].CharStart
	line.CharEnd = line.Elems[len(line.Elems)-1].CharEnd
	return line, true
}

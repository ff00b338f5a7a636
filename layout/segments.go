package layout

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/ByLCY/inkleaf/sentence"
)

// segmentBuilder 保存一次从左到右扫描的状态。
type segmentBuilder struct {
	runes   []rune
	metrics FontMetricsProvider
	changes []FontChange
	widgets map[int]Modifier

	startSentence int
	endSentence   int

	segments []TextSegment

	font     FontObject
	fontDesc FontDescriptor
	nextFont int // changes 中下一条尚未生效的条目

	accumulated float64 // 扫描起点到当前位置的总宽度
	runStart    int
	runAcc      float64
	runWidget   *Modifier
	sentenceIdx int
	prev        rune // 0 表示没有可用于字距的前一字符
}

// BuildSegments 扫描正文，按断行点、字体切换、句子边界和 widget 边界切出分段。
// 只有句子序号落在 [startSentence, endSentence) 内的分段会被输出，但句子计数始终从 0 开始。
func BuildSegments(content string, changes []FontChange, metrics FontMetricsProvider, startSentence, endSentence int, pm ProcessedModifiers) []TextSegment {
	runes := []rune(content)
	b := &segmentBuilder{
		runes:         runes,
		metrics:       metrics,
		changes:       changes,
		widgets:       pm.Widgets,
		startSentence: startSentence,
		endSentence:   endSentence,
	}

	start, end := 0, len(runes)
	if img := pm.ParaImage; img != nil {
		if img.Alignment <= AlignCenter {
			start = 1
		} else {
			end--
		}
	}
	if start >= end {
		return nil
	}
	b.seek(start)
	b.runStart = start

	breakNext := false    // 当前位置之前可以断行
	sentenceNext := false // 当前位置之前句子结束
	terminate := false    // 上一字符是句末标点，等待引号或空白确认
	for i := start; i < end; i++ {
		r := runes[i]
		fontChange := b.nextFont < len(changes) && changes[b.nextFont].Index == i
		widget, isWidget := b.widgets[i]

		if fontChange || breakNext || isWidget {
			b.emit(i, fontChange, breakNext, sentenceNext)
			if sentenceNext {
				b.sentenceIdx++
			}
			breakNext, sentenceNext = false, false
			if fontChange {
				b.seek(i)
			}
		}

		if isWidget {
			w := widget
			b.accumulated += widgetWidth(w, b.fontDesc.LineHeight())
			b.runWidget = &w
			b.prev = 0
		} else {
			pair := string(r)
			if b.prev != 0 {
				pair = string([]rune{b.prev, r})
			}
			b.accumulated += b.font.GetKerning(pair)
			b.prev = r
		}

		if terminate && sentence.IsTail(r) {
			sentenceNext = true
			breakNext = true
		}
		terminate = sentence.IsTerminator(r)

		if isWidget || (i+1 < end && breakAfter(r, runes[i+1])) {
			breakNext = true
		}
	}

	fontChange := b.nextFont < len(changes) && changes[b.nextFont].Index == end
	b.emit(end, fontChange, false, false)

	if n := len(b.segments); n > 0 {
		b.segments[n-1].Break = false
		b.segments[n-1].SentenceBreak = false
	}
	return b.segments
}

// breakAfter 判断 r 与 next 之间是否存在断行机会：空白之后，或东亚宽字符之后。
// 收尾标点不出现在行首，开头标点不留在行尾。
func breakAfter(r, next rune) bool {
	if unicode.IsSpace(r) {
		return !unicode.IsSpace(next)
	}
	if unicode.IsSpace(next) {
		return false
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return !closingPunct(next) && !unicode.In(r, unicode.Ps, unicode.Pi)
	}
	return false
}

// closingPunct 报告 r 是否是不能出现在行首的标点：各类右括号、右引号与句读。
func closingPunct(r rune) bool {
	if unicode.In(r, unicode.Pe, unicode.Pf) {
		return true
	}
	return strings.ContainsRune("。．，、：；！？・…‥ー々ゝゞヽヾ!?,.:;%", r)
}

// seek 让 idx 及之前的字体切换全部生效。
func (b *segmentBuilder) seek(idx int) {
	changed := false
	for b.nextFont < len(b.changes) && b.changes[b.nextFont].Index <= idx {
		b.fontDesc = b.changes[b.nextFont].Font
		b.nextFont++
		changed = true
	}
	if changed || b.font == nil {
		b.font = b.metrics.GetFont(b.fontDesc)
		b.prev = 0
	}
}

// emit 结束 [runStart, idx) 这一段；空段只推进状态，不产生输出。
func (b *segmentBuilder) emit(idx int, fontChange, canBreak, sentenceBreak bool) {
	if idx <= b.runStart {
		return
	}
	if b.sentenceIdx >= b.startSentence && b.sentenceIdx < b.endSentence {
		if len(b.segments) == 0 && b.runStart > 0 {
			b.segments = append(b.segments, TextSegment{
				Idx:              b.runStart,
				AccumulatedWidth: b.runAcc,
				Font:             b.font,
				FontDesc:         b.fontDesc,
				SentenceIdx:      b.sentenceIdx,
				Marker:           true,
			})
		}
		b.segments = append(b.segments, TextSegment{
			Idx:              idx,
			AccumulatedWidth: b.accumulated,
			Width:            b.accumulated - b.runAcc,
			Font:             b.font,
			FontDesc:         b.fontDesc,
			FontChange:       fontChange,
			Break:            canBreak,
			SentenceBreak:    sentenceBreak,
			SentenceIdx:      b.sentenceIdx,
			Widget:           b.runWidget,
		})
	}
	b.runStart = idx
	b.runAcc = b.accumulated
	b.runWidget = nil
}

package layout

import (
	"testing"

	"github.com/tdewolff/test"
)

// testOptions 使用 20px 字号的等宽度量，每个字符宽 10px。
func testOptions(maxWidth float64) Options {
	base := DefaultFont()
	base.FontSize = 20
	return Options{
		Metrics:      FixedWidthMetrics{},
		BaseFont:     base,
		MaxTextWidth: maxWidth,
	}
}

func segmentIdxs(segments []TextSegment) []int {
	idxs := make([]int, len(segments))
	for i, s := range segments {
		idxs[i] = s.Idx
	}
	return idxs
}

func TestSegmentsBreakOpportunities(t *testing.T) {
	segments := GetParagraphSegments(Paragraph{Content: "Hi there. Bye now."}, testOptions(1000))
	test.T(t, segmentIdxs(segments), []int{3, 10, 14, 18})

	test.That(t, segments[0].Break && !segments[0].SentenceBreak)
	test.That(t, segments[1].Break && segments[1].SentenceBreak)
	test.T(t, segments[1].SentenceIdx, 0)
	test.T(t, segments[2].SentenceIdx, 1)

	last := segments[len(segments)-1]
	test.That(t, !last.Break && !last.SentenceBreak, "last segment never breaks")
	test.Float(t, last.AccumulatedWidth, 180)
	test.Float(t, segments[2].Width, 40)
}

func TestSegmentsMonotonic(t *testing.T) {
	p := Paragraph{
		Content:   "One, two three! \"Four\" five? Six\tseven.",
		Modifiers: []Modifier{{Type: ModBold, Start: 2, End: 9}, {Type: ModMonospace, Start: 20, End: 30}},
	}
	segments := GetParagraphSegments(p, testOptions(1000))
	test.That(t, len(segments) > 0)
	prevIdx, prevAcc, prevSentence := 0, 0.0, 0
	for _, s := range segments {
		test.That(t, s.Idx > prevIdx, "idx strictly increasing")
		test.That(t, s.AccumulatedWidth >= prevAcc, "accumulated width non-decreasing")
		test.That(t, s.SentenceIdx >= prevSentence, "sentence index non-decreasing")
		test.Float(t, s.Width, s.AccumulatedWidth-prevAcc)
		prevIdx, prevAcc, prevSentence = s.Idx, s.AccumulatedWidth, s.SentenceIdx
	}
	test.T(t, prevIdx, 39)
	test.T(t, prevSentence, 2)
}

func TestSegmentsFontChange(t *testing.T) {
	p := Paragraph{Content: "Hi there. Bye now.", Modifiers: []Modifier{{Type: ModBold, Start: 3, End: 8}}}
	segments := GetParagraphSegments(p, testOptions(1000))
	test.T(t, segmentIdxs(segments), []int{3, 8, 10, 14, 18})
	test.That(t, segments[0].FontChange && segments[0].Break)
	test.That(t, segments[1].FontChange && !segments[1].Break, "no break inside a word")
	test.T(t, segments[0].FontDesc.FontWeight, FontWeightNormal)
	test.T(t, segments[1].FontDesc.FontWeight, FontWeightBold)
	test.T(t, segments[2].FontDesc.FontWeight, FontWeightNormal)
}

func TestSegmentsSentenceRange(t *testing.T) {
	p := Paragraph{Content: "Hi there. Bye now. Ok."}

	opts := testOptions(1000)
	opts.StartSentence, opts.EndSentence = 1, 2
	segments := GetParagraphSegments(p, opts)
	test.T(t, segmentIdxs(segments), []int{10, 14, 19})
	test.That(t, segments[0].Marker)
	test.Float(t, segments[0].Width, 0)
	test.Float(t, segments[0].AccumulatedWidth, 100)
	for _, s := range segments {
		test.T(t, s.SentenceIdx, 1)
	}
	test.That(t, !segments[2].SentenceBreak, "trailing flags cleared")

	opts.StartSentence, opts.EndSentence = 0, 1
	segments = GetParagraphSegments(p, opts)
	test.T(t, segmentIdxs(segments), []int{3, 10})
	test.That(t, !segments[0].Marker)

	opts.StartSentence, opts.EndSentence = 5, 0
	test.T(t, len(GetParagraphSegments(p, opts)), 0)
}

func TestSegmentsWidget(t *testing.T) {
	p := Paragraph{
		Content:   "Hi \uFFFC there",
		Modifiers: []Modifier{{Type: ModWidget, Start: 3, Emoji: "smile"}},
	}
	segments := GetParagraphSegments(p, testOptions(1000))
	test.T(t, segmentIdxs(segments), []int{3, 4, 5, 10})
	test.That(t, segments[0].Widget == nil)
	test.That(t, segments[1].Widget != nil && segments[1].Break)
	test.Float(t, segments[1].Width, 30) // 行高 20 × 1.5
	test.Float(t, segments[3].AccumulatedWidth, 30+30+60)
}

func TestSegmentsParagraphImage(t *testing.T) {
	left := Paragraph{Content: "\uFFFCText here.", Modifiers: []Modifier{imageAt(0)}}
	segments := GetParagraphSegments(left, testOptions(1000))
	test.T(t, segmentIdxs(segments), []int{1, 6, 11})
	test.That(t, segments[0].Marker)
	test.Float(t, segments[0].AccumulatedWidth, 0)
	for _, s := range segments {
		test.That(t, s.Widget == nil, "paragraph image is not an inline widget")
	}

	right := Paragraph{Content: "Text here.\uFFFC", Modifiers: []Modifier{imageAt(10)}}
	segments = GetParagraphSegments(right, testOptions(1000))
	test.T(t, segmentIdxs(segments), []int{5, 10})

	only := Paragraph{Content: "\uFFFC", Modifiers: []Modifier{imageAt(0)}}
	test.T(t, len(GetParagraphSegments(only, testOptions(1000))), 0)
}

func TestSegmentsEastAsian(t *testing.T) {
	segments := GetParagraphSegments(Paragraph{Content: "你好世界"}, testOptions(1000))
	test.T(t, segmentIdxs(segments), []int{1, 2, 3, 4})
	test.That(t, segments[0].Break && segments[2].Break)
}

func TestSegmentsClosingPunctuation(t *testing.T) {
	segments := GetParagraphSegments(Paragraph{Content: "你好。再见"}, testOptions(1000))
	test.T(t, segmentIdxs(segments), []int{1, 3, 4, 5})

	segments = GetParagraphSegments(Paragraph{Content: "他说「好」，走了"}, testOptions(1000))
	for _, s := range segments {
		if s.Break {
			next := []rune("他说「好」，走了")[s.Idx]
			test.That(t, !closingPunct(next), "line would start with closing punctuation")
		}
	}
	test.T(t, segmentIdxs(segments), []int{1, 2, 6, 7, 8})

	for _, r := range "。，、」』）》】！？" {
		test.That(t, !breakAfter('字', r), string(r))
	}
	test.That(t, breakAfter('字', '「'), "opening bracket may start a line")
	test.That(t, !breakAfter('「', '字'), "opening bracket never ends a line")
	test.That(t, breakAfter('。', '字'))
}

func TestSegmentsWidgetGluedToWord(t *testing.T) {
	p := Paragraph{
		Content:   "Hi\uFFFC there",
		Modifiers: []Modifier{{Type: ModWidget, Start: 2, Emoji: "smile"}},
	}
	segments := GetParagraphSegments(p, testOptions(1000))
	test.T(t, segmentIdxs(segments), []int{2, 3, 4, 9})
	test.That(t, !segments[0].Break, "no break between a word and its widget")
	test.That(t, segments[1].Widget != nil && segments[1].Break)

	// 行宽放不下 "Hi" 加 widget，二者仍留在同一行
	lines := LayoutParagraph(p, testOptions(45)).Lines
	test.That(t, len(lines) >= 2)
	test.T(t, lines[0].CharEnd, 3)
	test.T(t, len(lines[0].Elems), 2)
}

func TestSegmentsEmpty(t *testing.T) {
	test.T(t, len(GetParagraphSegments(Paragraph{}, testOptions(1000))), 0)
	test.T(t, len(LayoutParagraph(Paragraph{}, testOptions(1000)).Lines), 0)
}

package layout

import "unicode/utf8"

// LayoutParagraph 对单个段落执行完整流水线：修饰符处理 → 字体切换编译 → 分段 → 装行。
func LayoutParagraph(p Paragraph, opts Options) ParagraphLayout {
	pm, segments := paragraphSegments(p, opts)
	out := ParagraphLayout{
		Paragraph:     p,
		Alignment:     pm.Alignment,
		Layer:         pm.Layer,
		ParaImage:     pm.ParaImage,
		LeadingIndent: opts.LeadingIndent,
		LineHeight:    opts.baseFont().LineHeight(),
		MaxTextWidth:  opts.MaxTextWidth,
	}
	out.Lines = PackLines(p.Content, segments, opts.MaxTextWidth, opts.LeadingIndent)
	return out
}

// GetParagraphSegments 只运行到分段器为止，供需要自行装行的调用方使用。
func GetParagraphSegments(p Paragraph, opts Options) []TextSegment {
	_, segments := paragraphSegments(p, opts)
	return segments
}

func paragraphSegments(p Paragraph, opts Options) (ProcessedModifiers, []TextSegment) {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = FixedWidthMetrics{}
	}
	base := opts.baseFont()
	length := utf8.RuneCountInString(p.Content)
	pm := ProcessModifiers(p.Modifiers, length)
	changes := CompileFontChanges(base, pm.Styles, length)
	start, end := opts.sentenceRange()
	return pm, BuildSegments(p.Content, changes, metrics, start, end, pm)
}

// FixedWidthMetrics 是等宽度量：每个字符步进为 FontSize × Ratio，不考虑字距。
// Ratio 为 0 时取 0.5。
type FixedWidthMetrics struct {
	Ratio float64
}

// GetFont 实现 FontMetricsProvider。
func (m FixedWidthMetrics) GetFont(desc FontDescriptor) FontObject {
	ratio := m.Ratio
	if ratio <= 0 {
		ratio = 0.5
	}
	return fixedWidthFont(desc.FontSize * ratio)
}

type fixedWidthFont float64

func (f fixedWidthFont) GetKerning(pair string) float64 {
	if pair == "" {
		return 0
	}
	return float64(f)
}

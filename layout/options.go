package layout

// FontMetricsProvider 根据字体描述返回可测量宽度的字体对象。
// 实现必须是描述的纯函数，可以在内部缓存；并发调用时需自行保证只读或加锁。
type FontMetricsProvider interface {
	GetFont(desc FontDescriptor) FontObject
}

// FontObject 提供两字符字距查询：返回 pair 中最后一个字符在前一字符之后的像素步进。
// 行首时 pair 只包含一个字符。
type FontObject interface {
	GetKerning(pair string) float64
}

// Options 配置一次段落排版。宽度单位均为像素。
type Options struct {
	Metrics       FontMetricsProvider
	BaseFont      FontDescriptor
	MaxTextWidth  float64
	LeadingIndent float64 // 仅作用于第一行
	StartSentence int
	EndSentence   int // <= 0 表示不限
}

// sentenceRange 规范化句子区间，返回半开区间 [start, end)。
func (o Options) sentenceRange() (int, int) {
	start := o.StartSentence
	if start < 0 {
		start = 0
	}
	end := o.EndSentence
	if end <= 0 {
		end = maxInt
	}
	return start, end
}

const maxInt = int(^uint(0) >> 1)

// BuildOptions 配置文档级排版所需的依赖。
type BuildOptions struct {
	Metrics       FontMetricsProvider
	BaseFont      FontDescriptor
	MaxTextWidth  float64
	LeadingIndent float64           // 普通段落首行缩进；列表按 TabLevel 整段缩进
	Layouter      ParagraphLayouter // 为空时直接调用 LayoutParagraph
	Debug         DebugOptions
}

// ParagraphLayouter 可以替换逐段排版的实现，例如带缓存的版本。
type ParagraphLayouter interface {
	Layout(p Paragraph, opts Options) ParagraphLayout
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Segments bool // 在调试 JSON 中附带分段结果
}

// baseFont 返回基础字体，未设置字号时回退到默认正文字体。
func (o Options) baseFont() FontDescriptor {
	if o.BaseFont.FontSize <= 0 {
		return DefaultFont()
	}
	return o.BaseFont
}

package layout

// 该文件定义段落输入模型与排版结果，供排版计算、渲染与调试 JSON 共用。

// ModifierType 是段落内联标注的种类。
type ModifierType string

const (
	ModBold          ModifierType = "B"
	ModItalic        ModifierType = "I"
	ModUnderline     ModifierType = "U"
	ModStrikethrough ModifierType = "S"
	ModMonospace     ModifierType = "MONOSPACE"
	ModSubscript     ModifierType = "SUB"
	ModSuperscript   ModifierType = "SUP"
	ModAlignCenter   ModifierType = "TAC"
	ModAlignRight    ModifierType = "TAR"
	ModLayer         ModifierType = "LAYER"
	ModWidget        ModifierType = "WIDGET"
)

// ParagraphType 描述段落在文档中的角色。
type ParagraphType string

const (
	ParagraphNormal  ParagraphType = "normal"
	ParagraphHeading ParagraphType = "heading"
	ParagraphQuote   ParagraphType = "quote"
	ParagraphList    ParagraphType = "list"
)

// Alignment 取值 -1（左）、0（居中）、1（右）。
type Alignment int

const (
	AlignLeft   Alignment = -1
	AlignCenter Alignment = 0
	AlignRight  Alignment = 1
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ObjectReplacement 是 widget 在正文中占用的占位字符。
const ObjectReplacement = '\uFFFC'

// Paragraph 是排版引擎的不可变输入，偏移量均以 rune 计。
type Paragraph struct {
	Content    string        `json:"content" yaml:"content"`
	Modifiers  []Modifier    `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Type       ParagraphType `json:"paragraphType,omitempty" yaml:"paragraphType,omitempty"`
	TabLevel   int           `json:"tabLevel,omitempty" yaml:"tabLevel,omitempty"`
	Ordinality int           `json:"ordinality,omitempty" yaml:"ordinality,omitempty"`
}

// Modifier 是一条内联标注。样式区间使用 [Start, End)，widget 只使用 Start。
type Modifier struct {
	Type  ModifierType `json:"type" yaml:"type"`
	Start int          `json:"start,omitempty" yaml:"start,omitempty"`
	End   int          `json:"end,omitempty" yaml:"end,omitempty"`
	Data  *WidgetData  `json:"data,omitempty" yaml:"data,omitempty"`
	Emoji string       `json:"emoji,omitempty" yaml:"emoji,omitempty"`
}

// WidgetData 描述图片 widget 的地址与原始尺寸。
type WidgetData struct {
	URL string  `json:"url" yaml:"url"`
	W   float64 `json:"w,omitempty" yaml:"w,omitempty"`
	H   float64 `json:"h,omitempty" yaml:"h,omitempty"`
}

// IsImage 判断 widget 是否为图片。
func (m Modifier) IsImage() bool {
	return m.Type == ModWidget && m.Data != nil
}

// IsEmoji 判断 widget 是否为 emoji（只携带标识符）。
func (m Modifier) IsEmoji() bool {
	return m.Type == ModWidget && m.Data == nil && m.Emoji != ""
}

// ParagraphImage 是被提升为整段图片的 widget。
type ParagraphImage struct {
	Alignment Alignment `json:"alignment"`
	URL       string    `json:"url"`
	W         float64   `json:"w"`
	H         float64   `json:"h"`
}

// ProcessedModifiers 是修饰符处理器的输出，仅在一次排版调用内有效。
type ProcessedModifiers struct {
	Styles    []StyleSet       // 每个字符生效的样式集合
	Widgets   map[int]Modifier // 按起始偏移索引的 widget
	Alignment Alignment
	Layer     bool
	ParaImage *ParagraphImage
}

// TextSegment 是分段器产出的断点：它结束 [上一个断点, Idx) 这一段文本。
// 文本本身不复制，行打包时再按偏移从正文切取。
type TextSegment struct {
	Idx              int            `json:"idx"`
	AccumulatedWidth float64        `json:"accumulatedWidth"`
	Width            float64        `json:"width"`
	Font             FontObject     `json:"-"`
	FontDesc         FontDescriptor `json:"fontDesc"`
	FontChange       bool           `json:"fontChange"`
	Break            bool           `json:"break"`
	SentenceBreak    bool           `json:"sentenceBreak"`
	SentenceIdx      int            `json:"sentenceIdx"`
	Widget           *Modifier      `json:"widget,omitempty"`
	Marker           bool           `json:"marker,omitempty"` // 零宽起点标记，只用于定位
}

// TextLine 表示排版后的一行，由若干连续的 TextElem 组成。
type TextLine struct {
	CharStart int        `json:"charStart"`
	CharEnd   int        `json:"charEnd"`
	Elems     []TextElem `json:"elems"`
}

// Width 返回行内最后一个元素的右边界。
func (l TextLine) Width() float64 {
	if len(l.Elems) == 0 {
		return 0
	}
	last := l.Elems[len(l.Elems)-1]
	return last.XPos + last.Width
}

// TextElem 是可以一次绘制的同字体、同句子的文本片段。
type TextElem struct {
	Text        string         `json:"text"`
	CharStart   int            `json:"charStart"`
	CharEnd     int            `json:"charEnd"`
	Font        FontDescriptor `json:"font"`
	XPos        float64        `json:"xPos"`
	Width       float64        `json:"width"`
	SentenceIdx int            `json:"sentenceIdx"`
	Widget      *Modifier      `json:"widget,omitempty"`
}

// ParagraphLayout 是单个段落的排版结果以及块级元数据。
type ParagraphLayout struct {
	Paragraph     Paragraph       `json:"paragraph"`
	Lines         []TextLine      `json:"lines"`
	Alignment     Alignment       `json:"alignment"`
	Layer         bool            `json:"layer,omitempty"`
	ParaImage     *ParagraphImage `json:"paraImage,omitempty"`
	LeadingIndent float64         `json:"leadingIndent,omitempty"`
	BlockIndent   float64         `json:"blockIndent,omitempty"`
	LineHeight    float64         `json:"lineHeight"`
	MaxTextWidth  float64         `json:"maxTextWidth"`
}

// Result 保存整本书的排版结果。
type Result struct {
	Meta       DocumentMeta      `json:"meta"`
	Paragraphs []ParagraphLayout `json:"paragraphs"`
}

// DocumentMeta 保存书籍元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

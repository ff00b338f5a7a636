package layout

import "strings"

// MonospaceFamily 是 MONOSPACE 标注切换到的字体族名。
const MonospaceFamily = "monospace"

// 字体字段取值。
const (
	FontStyleNormal = "normal"
	FontStyleItalic = "italic"

	FontWeightNormal = 400
	FontWeightBold   = 800

	DecorationNone          = ""
	DecorationUnderline     = "underline"
	DecorationLineThrough   = "line-through"
	VerticalAlignBaseline   = "baseline"
	VerticalAlignSub        = "sub"
	VerticalAlignSuper      = "super"
	defaultLineSpacing      = 1.5
	defaultFontSize         = 16.0
	defaultFontFamily       = "serif"
	widgetFallbackDimension = 50.0
)

// FontDescriptor 是不可变的字体描述，按值传递。
type FontDescriptor struct {
	FontFamily     string  `json:"fontFamily" yaml:"fontFamily"`
	FontSize       float64 `json:"fontSize" yaml:"fontSize"`
	FontStyle      string  `json:"fontStyle" yaml:"fontStyle"`
	FontWeight     int     `json:"fontWeight" yaml:"fontWeight"`
	TextDecoration string  `json:"textDecoration,omitempty" yaml:"textDecoration,omitempty"`
	LineSpacing    float64 `json:"lineSpacing" yaml:"lineSpacing"`
	VerticalAlign  string  `json:"verticalAlign" yaml:"verticalAlign"`
}

// DefaultFont 返回 16px 衬线正文字体。
func DefaultFont() FontDescriptor {
	return FontDescriptor{
		FontFamily:    defaultFontFamily,
		FontSize:      defaultFontSize,
		FontStyle:     FontStyleNormal,
		FontWeight:    FontWeightNormal,
		LineSpacing:   defaultLineSpacing,
		VerticalAlign: VerticalAlignBaseline,
	}
}

// LineHeight 返回行高（像素）。
func (d FontDescriptor) LineHeight() float64 {
	spacing := d.LineSpacing
	if spacing <= 0 {
		spacing = defaultLineSpacing
	}
	return d.FontSize * spacing
}

// Bold 与 Italic 便于度量后端选择字形。
func (d FontDescriptor) Bold() bool   { return d.FontWeight >= 700 }
func (d FontDescriptor) Italic() bool { return d.FontStyle == FontStyleItalic }

// StyleSet 是单个字符上叠加的样式标记集合。
// 位序与标记名的字母序一致，因此按位从低到高应用即为排序后的应用顺序。
type StyleSet uint8

const (
	StyleBold          StyleSet = 1 << iota // B
	StyleItalic                             // I
	StyleMonospace                          // MONOSPACE
	StyleStrikethrough                      // S
	StyleSubscript                          // SUB
	StyleSuperscript                        // SUP
	StyleUnderline                          // U
	styleEnd
)

var styleNames = map[StyleSet]ModifierType{
	StyleBold:          ModBold,
	StyleItalic:        ModItalic,
	StyleMonospace:     ModMonospace,
	StyleStrikethrough: ModStrikethrough,
	StyleSubscript:     ModSubscript,
	StyleSuperscript:   ModSuperscript,
	StyleUnderline:     ModUnderline,
}

// styleForModifier 返回样式区间标注对应的标记；非样式标注返回 0。
func styleForModifier(t ModifierType) StyleSet {
	for bit, name := range styleNames {
		if name == t {
			return bit
		}
	}
	return 0
}

// Has 判断集合是否包含 s。
func (set StyleSet) Has(s StyleSet) bool { return set&s != 0 }

func (set StyleSet) String() string {
	var names []string
	for bit := StyleBold; bit < styleEnd; bit <<= 1 {
		if set.Has(bit) {
			names = append(names, string(styleNames[bit]))
		}
	}
	return strings.Join(names, ",")
}

// Apply 在 base 的副本上依次应用集合中的标记，同一字段后者覆盖前者。
func (set StyleSet) Apply(base FontDescriptor) FontDescriptor {
	desc := base
	for bit := StyleBold; bit < styleEnd; bit <<= 1 {
		if !set.Has(bit) {
			continue
		}
		switch bit {
		case StyleBold:
			desc.FontWeight = FontWeightBold
		case StyleItalic:
			desc.FontStyle = FontStyleItalic
		case StyleMonospace:
			desc.FontFamily = MonospaceFamily
		case StyleStrikethrough:
			desc.TextDecoration = DecorationLineThrough
		case StyleSubscript:
			desc.VerticalAlign = VerticalAlignSub
		case StyleSuperscript:
			desc.VerticalAlign = VerticalAlignSuper
		case StyleUnderline:
			desc.TextDecoration = DecorationUnderline
		}
	}
	return desc
}

// FontChange 记录从 Index 开始生效的字体。
type FontChange struct {
	Index int            `json:"index"`
	Font  FontDescriptor `json:"font"`
}

// CompileFontChanges 把逐字符样式集合编译为稀疏的字体切换表。
// 只有解析结果与前一字符不同的位置才产生条目；length 处总有一条基础字体的复位条目。
func CompileFontChanges(base FontDescriptor, styles []StyleSet, length int) []FontChange {
	var out []FontChange
	var prev StyleSet
	for i := 0; i < length; i++ {
		var set StyleSet
		if i < len(styles) {
			set = styles[i]
		}
		if i > 0 && set == prev {
			continue
		}
		out = append(out, FontChange{Index: i, Font: set.Apply(base)})
		prev = set
	}
	return append(out, FontChange{Index: length, Font: base})
}

package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/inkleaf/binding"
	"github.com/ByLCY/inkleaf/dsl"
)

const headingScale = 1.5

var spanModifiers = map[string]ModifierType{
	"b":    ModBold,
	"i":    ModItalic,
	"u":    ModUnderline,
	"s":    ModStrikethrough,
	"mono": ModMonospace,
	"sub":  ModSubscript,
	"sup":  ModSuperscript,
}

var paragraphKinds = map[string]ParagraphType{
	dsl.KindPara:    ParagraphNormal,
	dsl.KindHeading: ParagraphHeading,
	dsl.KindQuote:   ParagraphQuote,
	dsl.KindItem:    ParagraphList,
}

// BuildDocument 把 DSL AST 转换为段落并逐段排版。文本中的 ${path} 在计算偏移之前用 data 插值。
func BuildDocument(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	paras, err := Paragraphs(doc, data)
	if err != nil {
		return nil, err
	}
	return BuildParagraphs(collectMeta(doc, data), paras, opts), nil
}

// BuildParagraphs 排版已经构造好的段落，例如从 JSON/YAML 载入的数据。
func BuildParagraphs(meta DocumentMeta, paras []Paragraph, opts BuildOptions) *Result {
	res := &Result{Meta: meta, Paragraphs: make([]ParagraphLayout, 0, len(paras))}
	for _, p := range paras {
		po, blockIndent := paragraphOptions(p, opts)
		var pl ParagraphLayout
		if opts.Layouter != nil {
			pl = opts.Layouter.Layout(p, po)
		} else {
			pl = LayoutParagraph(p, po)
		}
		pl.BlockIndent = blockIndent
		res.Paragraphs = append(res.Paragraphs, pl)
	}
	return res
}

// paragraphOptions 按段落类型推导基础字体与缩进：
// 标题放大且无首行缩进，引文使用斜体，列表按 TabLevel 整段缩进。
func paragraphOptions(p Paragraph, opts BuildOptions) (Options, float64) {
	po := Options{
		Metrics:       opts.Metrics,
		BaseFont:      Options{BaseFont: opts.BaseFont}.baseFont(),
		MaxTextWidth:  opts.MaxTextWidth,
		LeadingIndent: opts.LeadingIndent,
	}
	blockIndent := 0.0
	switch p.Type {
	case ParagraphHeading:
		po.BaseFont.FontSize *= headingScale
		po.BaseFont.FontWeight = FontWeightBold
		po.LeadingIndent = 0
	case ParagraphQuote:
		po.BaseFont.FontStyle = FontStyleItalic
	case ParagraphList:
		blockIndent = float64(p.TabLevel) * opts.LeadingIndent
		po.LeadingIndent = 0
		po.MaxTextWidth -= blockIndent
	}
	return po, blockIndent
}

// Paragraphs 展开 DSL 中的段落块，widget 在正文中占用一个 U+FFFC。
func Paragraphs(doc *dsl.Document, data any) ([]Paragraph, error) {
	var out []Paragraph
	ordinal := 0
	for _, block := range doc.Blocks {
		src := block.Paragraph
		if src == nil {
			continue
		}
		p, err := convertParagraph(src, data)
		if err != nil {
			return nil, err
		}
		if p.Type == ParagraphList {
			ordinal++
			p.Ordinality = ordinal
		} else {
			ordinal = 0
		}
		out = append(out, p)
	}
	return out, nil
}

// paragraphWriter 累积正文并按 rune 偏移记录标注。
type paragraphWriter struct {
	data   any
	sb     strings.Builder
	length int
	mods   []Modifier
}

func (w *paragraphWriter) write(s string) {
	w.sb.WriteString(s)
	w.length += utf8.RuneCountInString(s)
}

func convertParagraph(src *dsl.Paragraph, data any) (Paragraph, error) {
	p := Paragraph{Type: paragraphKinds[src.Kind]}
	w := &paragraphWriter{data: data}
	for _, opt := range src.Options {
		switch {
		case opt.Align == "center":
			w.mods = append(w.mods, Modifier{Type: ModAlignCenter})
		case opt.Align == "right":
			w.mods = append(w.mods, Modifier{Type: ModAlignRight})
		case opt.Layer:
			w.mods = append(w.mods, Modifier{Type: ModLayer})
		case opt.Tab != nil:
			if *opt.Tab < 0 {
				return Paragraph{}, fmt.Errorf("%s: tab 不能为负数", src.Pos)
			}
			p.TabLevel = *opt.Tab
		}
	}
	if err := w.inlines(src.Body); err != nil {
		return Paragraph{}, err
	}
	p.Content = w.sb.String()
	p.Modifiers = w.mods
	return p, nil
}

func (w *paragraphWriter) inlines(nodes []*dsl.Inline) error {
	for _, node := range nodes {
		switch {
		case node.Text != nil:
			w.write(binding.Interpolate(string(*node.Text), w.data))
		case node.Span != nil:
			start := w.length
			if err := w.inlines(node.Span.Body); err != nil {
				return err
			}
			for _, style := range node.Span.Styles {
				w.mods = append(w.mods, Modifier{Type: spanModifiers[style], Start: start, End: w.length})
			}
		case node.Image != nil:
			url := binding.Interpolate(string(node.Image.URL), w.data)
			if url == "" {
				return fmt.Errorf("%s: image 缺少地址", node.Pos)
			}
			w.mods = append(w.mods, Modifier{
				Type:  ModWidget,
				Start: w.length,
				Data:  &WidgetData{URL: url, W: node.Image.W, H: node.Image.H},
			})
			w.write(string(ObjectReplacement))
		case node.Emoji != nil:
			if node.Emoji.ID == "" {
				return fmt.Errorf("%s: emoji 缺少标识", node.Pos)
			}
			w.mods = append(w.mods, Modifier{Type: ModWidget, Start: w.length, Emoji: string(node.Emoji.ID)})
			w.write(string(ObjectReplacement))
		}
	}
	return nil
}

func collectMeta(doc *dsl.Document, data any) DocumentMeta {
	meta := DocumentMeta{
		Title:   binding.Interpolate(string(doc.Title), data),
		Creator: "Inkleaf",
	}
	for _, block := range doc.Blocks {
		if block.Meta == nil {
			continue
		}
		for _, entry := range block.Meta.Entries {
			switch strings.ToLower(entry.Key) {
			case "title":
				meta.Title = valueToString(entry.Value, data)
			case "author":
				meta.Author = valueToString(entry.Value, data)
			case "subject":
				meta.Subject = valueToString(entry.Value, data)
			case "creator":
				meta.Creator = valueToString(entry.Value, data)
			case "keywords":
				meta.Keywords = valueToStringSlice(entry.Value, data)
			}
		}
	}
	return meta
}

func valueToString(val *dsl.Value, data any) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return binding.Interpolate(string(*val.String), data)
	case val.Number != nil:
		return *val.Number
	case val.Ident != nil:
		return *val.Ident
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value, data any) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item, data); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val, data); s != "" {
		return []string{s}
	}
	return nil
}

package canvasrenderer

import (
	"fmt"
	"image/color"
	"sync"
	"unicode/utf8"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/inkleaf/fonts"
	"github.com/ByLCY/inkleaf/layout"
)

// Metrics 用 tdewolff/canvas 的字体面实现 layout.FontMetricsProvider，
// 与 PDF 输出使用同一套字形数据，排版宽度与绘制宽度一致。
type Metrics struct {
	mu       sync.Mutex
	families map[string]*canvas.FontFamily
	faces    map[layout.FontDescriptor]*faceMetrics
}

var _ layout.FontMetricsProvider = (*Metrics)(nil)

// NewMetrics 加载内置字体集中的 serif、sans 与 mono 三个字体族。
func NewMetrics(set fonts.Set) (*Metrics, error) {
	m := &Metrics{
		families: map[string]*canvas.FontFamily{},
		faces:    map[layout.FontDescriptor]*faceMetrics{},
	}
	for _, name := range []string{fonts.Serif, fonts.Sans, fonts.Mono} {
		family, err := loadFamily(set, name)
		if err != nil {
			return nil, err
		}
		m.families[name] = family
	}
	return m, nil
}

// loadFamily 只加载字体集原生提供的样式，缺少的样式交给 canvas 的仿粗/仿斜处理。
func loadFamily(set fonts.Set, name string) (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily(fmt.Sprintf("%s-%s", set, name))
	styles := map[fonts.Style]canvas.FontStyle{
		fonts.Regular:    canvas.FontRegular,
		fonts.Bold:       canvas.FontBold,
		fonts.Italic:     canvas.FontItalic,
		fonts.BoldItalic: canvas.FontBold | canvas.FontItalic,
	}
	for style, cs := range styles {
		if style != fonts.Regular && !fonts.Has(set, name, style) {
			continue
		}
		data, err := fonts.Builtin(set, name, style)
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, cs); err != nil {
			return nil, fmt.Errorf("加载字体 %s/%s-%s 失败: %w", set, name, style, err)
		}
	}
	return family, nil
}

// GetFont 实现 layout.FontMetricsProvider。
func (m *Metrics) GetFont(desc layout.FontDescriptor) layout.FontObject {
	return m.face(desc)
}

// Face 返回描述对应的 canvas 字体面，绘制时使用给定颜色。
func (m *Metrics) Face(desc layout.FontDescriptor, col color.Color) *canvas.FontFace {
	m.mu.Lock()
	family := m.families[fonts.Family(desc.FontFamily)]
	m.mu.Unlock()
	return family.Face(desc.FontSize*layout.PxToPt, faceArgs(desc, col, true)...)
}

func (m *Metrics) face(desc layout.FontDescriptor) *faceMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[desc]; ok {
		return f
	}
	family := m.families[fonts.Family(desc.FontFamily)]
	f := &faceMetrics{
		face:     family.Face(desc.FontSize*layout.PxToPt, faceArgs(desc, canvas.Black, false)...),
		advances: map[string]float64{},
	}
	m.faces[desc] = f
	return f
}

// faceMetrics 缓存单个字体面的字符步进（像素）。
type faceMetrics struct {
	mu       sync.Mutex
	face     *canvas.FontFace
	advances map[string]float64
}

// GetKerning 返回 pair 最后一个字符的步进（含与前一字符的字距）。
// 整形后的 TextWidth 已计入字距，所以取 pair 与前一字符宽度之差。
func (f *faceMetrics) GetKerning(pair string) float64 {
	if pair == "" {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.advances[pair]; ok {
		return w
	}
	_, size := utf8.DecodeLastRuneInString(pair)
	w := f.face.TextWidth(pair)
	if prev := pair[:len(pair)-size]; prev != "" {
		w -= f.face.TextWidth(prev)
	}
	w *= layout.MmToPx
	f.advances[pair] = w
	return w
}

// faceArgs 组装 FontFamily.Face 的可变参数；度量用的字体面不带装饰线。
func faceArgs(desc layout.FontDescriptor, col color.Color, decorate bool) []interface{} {
	args := []interface{}{col, canvasStyle(desc), canvasVariant(desc)}
	if decorate {
		for _, deco := range canvasDecorations(desc) {
			args = append(args, deco)
		}
	}
	return args
}

func canvasStyle(desc layout.FontDescriptor) canvas.FontStyle {
	style := canvas.FontRegular
	if desc.Bold() {
		style |= canvas.FontBold
	}
	if desc.Italic() {
		style |= canvas.FontItalic
	}
	return style
}

func canvasVariant(desc layout.FontDescriptor) canvas.FontVariant {
	switch desc.VerticalAlign {
	case layout.VerticalAlignSub:
		return canvas.FontSubscript
	case layout.VerticalAlignSuper:
		return canvas.FontSuperscript
	default:
		return canvas.FontNormal
	}
}

func canvasDecorations(desc layout.FontDescriptor) []canvas.FontDecorator {
	switch desc.TextDecoration {
	case layout.DecorationUnderline:
		return []canvas.FontDecorator{canvas.FontUnderline}
	case layout.DecorationLineThrough:
		return []canvas.FontDecorator{canvas.FontStrikethrough}
	default:
		return nil
	}
}

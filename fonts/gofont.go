package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/inkleaf/layout"
)

// scriptScale 是上下标相对正文的缩放比例。
const scriptScale = 0.7

// GoFontProvider 是基于 golang.org/x/image/font/opentype 的度量实现。
// 字号按像素解释（72dpi 下 1pt = 1px），结果与渲染后端无关，适合服务端预排版。
type GoFontProvider struct {
	set Set

	mu     sync.Mutex
	parsed map[[2]string]*opentype.Font
	faces  map[layout.FontDescriptor]*goFace
}

var _ layout.FontMetricsProvider = (*GoFontProvider)(nil)

// NewGoFontProvider 使用内置字体集创建度量实现。
func NewGoFontProvider(set Set) (*GoFontProvider, error) {
	p := &GoFontProvider{
		set:    set,
		parsed: map[[2]string]*opentype.Font{},
		faces:  map[layout.FontDescriptor]*goFace{},
	}
	// 预先解析常规体，尽早暴露字体集错误
	if _, err := p.font(Serif, Regular); err != nil {
		return nil, err
	}
	return p, nil
}

// GetFont 实现 layout.FontMetricsProvider。同一描述总是返回同一个对象。
func (p *GoFontProvider) GetFont(desc layout.FontDescriptor) layout.FontObject {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.faces[desc]; ok {
		return f
	}
	f := &goFace{fallback: desc.FontSize / 2, advances: map[string]float64{}}
	size := desc.FontSize
	if desc.VerticalAlign == layout.VerticalAlignSub || desc.VerticalAlign == layout.VerticalAlignSuper {
		size *= scriptScale
	}
	if otf, err := p.font(desc.FontFamily, StyleOf(desc)); err == nil && size > 0 {
		face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
		if err == nil {
			f.face = face
		}
	}
	p.faces[desc] = f
	return f
}

// font 在持锁状态下调用。
func (p *GoFontProvider) font(family string, style Style) (*opentype.Font, error) {
	key := [2]string{Family(family), style.String()}
	if f, ok := p.parsed[key]; ok {
		return f, nil
	}
	data, err := Builtin(p.set, family, style)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析内置字体 %s/%s 失败: %w", p.set, key[0], err)
	}
	p.parsed[key] = f
	return f, nil
}

// goFace 缓存字符步进；font.Face 不是并发安全的，访问需持锁。
type goFace struct {
	mu       sync.Mutex
	face     font.Face
	fallback float64
	advances map[string]float64
}

func (f *goFace) GetKerning(pair string) float64 {
	runes := []rune(pair)
	if len(runes) == 0 {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.advances[pair]; ok {
		return w
	}
	w := f.fallback
	if f.face != nil {
		last := runes[len(runes)-1]
		if adv, ok := f.face.GlyphAdvance(last); ok {
			w = toFloat(adv)
		}
		if len(runes) > 1 {
			w += toFloat(f.face.Kern(runes[len(runes)-2], last))
		}
	}
	f.advances[pair] = w
	return w
}

func toFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmmonoslant10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10oblique"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/inkleaf/layout"
)

// Set 是一组内置字体。
type Set string

const (
	LatinModern Set = "latin-modern"
	Go          Set = "go"
)

// Style 是字重与字形的组合。
type Style uint8

const (
	Regular    Style = 0
	Bold       Style = 1
	Italic     Style = 2
	BoldItalic Style = Bold | Italic
)

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bolditalic"
	default:
		return "regular"
	}
}

// 规范化后的字体族。
const (
	Serif = "serif"
	Sans  = "sans"
	Mono  = "mono"
)

var builtin = map[Set]map[string]map[Style][]byte{
	LatinModern: {
		Serif: {Regular: lmroman10regular.TTF, Bold: lmroman10bold.TTF, Italic: lmroman10italic.TTF, BoldItalic: lmroman10bolditalic.TTF},
		Sans:  {Regular: lmsans10regular.TTF, Bold: lmsans10bold.TTF, Italic: lmsans10oblique.TTF},
		Mono:  {Regular: lmmono10regular.TTF, Italic: lmmonoslant10regular.TTF},
	},
	Go: {
		Serif: {Regular: goregular.TTF, Bold: gobold.TTF, Italic: goitalic.TTF, BoldItalic: gobolditalic.TTF},
		Mono:  {Regular: gomono.TTF, Bold: gomonobold.TTF, Italic: gomonoitalic.TTF, BoldItalic: gomonobolditalic.TTF},
	},
}

// Family 把 CSS 风格的字体族名归一为 serif、sans 或 mono，未知名称按 serif 处理。
func Family(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sans", "sans-serif", "helvetica", "arial":
		return Sans
	case "mono", "monospace", "courier":
		return Mono
	default:
		return Serif
	}
}

// StyleOf 返回字体描述对应的样式。
func StyleOf(desc layout.FontDescriptor) Style {
	var s Style
	if desc.Bold() {
		s |= Bold
	}
	if desc.Italic() {
		s |= Italic
	}
	return s
}

// Builtin 返回内置字体数据。缺少的族回退到 serif，缺少的样式回退到去掉粗体、再到常规体。
func Builtin(set Set, family string, style Style) ([]byte, error) {
	families, ok := builtin[set]
	if !ok {
		return nil, fmt.Errorf("未知的内置字体集 %q", set)
	}
	styles, ok := families[Family(family)]
	if !ok {
		styles = families[Serif]
	}
	for _, s := range []Style{style, style &^ Bold, Regular} {
		if data, ok := styles[s]; ok {
			return data, nil
		}
	}
	return nil, fmt.Errorf("内置字体 %s/%s 缺少常规体", set, family)
}

// Has 判断内置字体是否原生提供该样式（不经回退）。
func Has(set Set, family string, style Style) bool {
	_, ok := builtin[set][Family(family)][style]
	return ok
}

// Load 返回字体字节数据。path 可写为 "embed:latin-modern/serif-bold"、"embed:go/mono" 或文件路径。
func Load(path string) ([]byte, error) {
	if name, ok := strings.CutPrefix(path, "embed:"); ok {
		setName, rest, found := strings.Cut(name, "/")
		if !found {
			return nil, fmt.Errorf("内置字体路径 %s 缺少字体集", path)
		}
		family, styleName, _ := strings.Cut(rest, "-")
		style, err := parseStyle(styleName)
		if err != nil {
			return nil, err
		}
		return Builtin(Set(setName), family, style)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}

// Names 列出所有内置字体路径，供命令行展示。
func Names() []string {
	var out []string
	for set, families := range builtin {
		for family, styles := range families {
			for style := range styles {
				out = append(out, fmt.Sprintf("embed:%s/%s-%s", set, family, style))
			}
		}
	}
	sort.Strings(out)
	return out
}

func parseStyle(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "", "regular":
		return Regular, nil
	case "bold":
		return Bold, nil
	case "italic", "oblique":
		return Italic, nil
	case "bolditalic":
		return BoldItalic, nil
	default:
		return Regular, fmt.Errorf("未知的字体样式 %q", name)
	}
}

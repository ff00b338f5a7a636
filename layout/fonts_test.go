package layout

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestStyleSetApply(t *testing.T) {
	base := DefaultFont()

	desc := (StyleBold | StyleItalic).Apply(base)
	test.T(t, desc.FontWeight, FontWeightBold)
	test.T(t, desc.FontStyle, FontStyleItalic)
	test.T(t, desc.FontFamily, base.FontFamily)

	// 同一字段按标记名排序后应用，后者覆盖前者
	test.T(t, (StyleUnderline | StyleStrikethrough).Apply(base).TextDecoration, DecorationUnderline)
	test.T(t, (StyleSubscript | StyleSuperscript).Apply(base).VerticalAlign, VerticalAlignSuper)
	test.T(t, StyleMonospace.Apply(base).FontFamily, MonospaceFamily)

	test.T(t, StyleSet(0).Apply(base), base)
	test.String(t, (StyleBold | StyleUnderline | StyleMonospace).String(), "B,MONOSPACE,U")
}

func TestCompileFontChanges(t *testing.T) {
	base := DefaultFont()
	bold := StyleBold.Apply(base)

	changes := CompileFontChanges(base, []StyleSet{0, StyleBold, StyleBold, 0}, 4)
	test.T(t, changes, []FontChange{
		{Index: 0, Font: base},
		{Index: 1, Font: bold},
		{Index: 3, Font: base},
		{Index: 4, Font: base},
	})

	// 整段同一样式时只有首条与复位条目
	changes = CompileFontChanges(base, []StyleSet{StyleBold, StyleBold}, 2)
	test.T(t, changes, []FontChange{{Index: 0, Font: bold}, {Index: 2, Font: base}})

	test.T(t, CompileFontChanges(base, nil, 0), []FontChange{{Index: 0, Font: base}})
}

func TestLineHeight(t *testing.T) {
	test.Float(t, DefaultFont().LineHeight(), 24)
	test.Float(t, FontDescriptor{FontSize: 10}.LineHeight(), 15)
	test.Float(t, FontDescriptor{FontSize: 10, LineSpacing: 2}.LineHeight(), 20)
}

package fonts

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/tdewolff/test"

	"github.com/ByLCY/inkleaf/layout"
)

func TestFamily(t *testing.T) {
	test.String(t, Family("serif"), Serif)
	test.String(t, Family(" Sans-Serif "), Sans)
	test.String(t, Family(layout.MonospaceFamily), Mono)
	test.String(t, Family("Garamond"), Serif)
}

func TestBuiltinFallback(t *testing.T) {
	bold, err := Builtin(LatinModern, "serif", Bold)
	test.Error(t, err)
	regular, err := Builtin(LatinModern, "serif", Regular)
	test.Error(t, err)
	test.That(t, !bytes.Equal(bold, regular))

	// latin-modern 等宽体没有粗体，回退到常规体
	test.That(t, !Has(LatinModern, "monospace", Bold))
	monoBold, err := Builtin(LatinModern, "monospace", Bold)
	test.Error(t, err)
	monoRegular, _ := Builtin(LatinModern, "monospace", Regular)
	test.That(t, bytes.Equal(monoBold, monoRegular))

	// Go 字体没有无衬线族，回退到 serif
	sans, err := Builtin(Go, "sans-serif", Regular)
	test.Error(t, err)
	goRegular, _ := Builtin(Go, "serif", Regular)
	test.That(t, bytes.Equal(sans, goRegular))

	_, err = Builtin("comic", "serif", Regular)
	test.That(t, err != nil)
}

func TestLoad(t *testing.T) {
	data, err := Load("embed:latin-modern/serif-bolditalic")
	test.Error(t, err)
	test.That(t, len(data) > 0)

	_, err = Load("embed:go/mono-heavy")
	test.That(t, err != nil)
	_, err = Load("embed:serif")
	test.That(t, err != nil)

	path := filepath.Join(t.TempDir(), "font.ttf")
	test.Error(t, os.WriteFile(path, data, 0o644))
	fromFile, err := Load(path)
	test.Error(t, err)
	test.That(t, bytes.Equal(fromFile, data))

	_, err = Load(filepath.Join(t.TempDir(), "missing.ttf"))
	test.That(t, err != nil)

	names := Names()
	test.That(t, len(names) > 10)
	for _, name := range names {
		_, err := Load(name)
		test.Error(t, err)
	}
}

func TestGoFontProvider(t *testing.T) {
	p, err := NewGoFontProvider(Go)
	test.Error(t, err)

	desc := layout.DefaultFont()
	f := p.GetFont(desc)
	test.That(t, f == p.GetFont(desc), "faces are cached per descriptor")

	w := f.GetKerning("W")
	i := f.GetKerning("i")
	test.That(t, w > i, "W wider than i")
	test.That(t, w < desc.FontSize*1.5)
	test.Float(t, f.GetKerning(""), 0)

	mono := layout.StyleMonospace.Apply(desc)
	mf := p.GetFont(mono)
	test.Float(t, mf.GetKerning("W"), mf.GetKerning("i"))

	bigger := desc
	bigger.FontSize *= 2
	test.That(t, math.Abs(p.GetFont(bigger).GetKerning("W")-2*w) < 0.5)

	sup := layout.StyleSuperscript.Apply(desc)
	test.That(t, p.GetFont(sup).GetKerning("W") < w)
}

func TestGoFontProviderLayout(t *testing.T) {
	p, err := NewGoFontProvider(LatinModern)
	test.Error(t, err)
	opts := layout.Options{Metrics: p, BaseFont: layout.DefaultFont(), MaxTextWidth: 120}
	res := layout.LayoutParagraph(layout.Paragraph{Content: "The quick brown fox jumps over the lazy dog."}, opts)
	test.That(t, len(res.Lines) > 1)
	for _, line := range res.Lines {
		test.That(t, line.Width() <= 120+1)
	}
}

func TestGoFontProviderConcurrent(t *testing.T) {
	p, err := NewGoFontProvider(Go)
	test.Error(t, err)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			desc := layout.DefaultFont()
			desc.FontSize = float64(10 + i%3)
			for _, r := range "concurrent layout" {
				p.GetFont(desc).GetKerning(string(r))
			}
		}(i)
	}
	wg.Wait()
}

package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/inkleaf/layout"
	"github.com/ByLCY/inkleaf/renderer"
)

// 默认版面：A5，四周 15mm 边距。
const (
	DefaultPageWidth  = 148.0
	DefaultPageHeight = 210.0
	DefaultMargin     = 15.0
)

var (
	textColor  = canvas.Hex("#1e1e1e")
	layerColor = canvas.Hex("#f3efe6")
	emojiColor = canvas.Hex("#f2c94c")
)

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	metrics *Metrics
	images  *imageStore
	page    PageOptions
	gap     float64 // 段间距（像素）
	layer   color.Color
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir      string
	Images       map[string]Resource // built-in images accessible via built-in:<name>
	Page         PageOptions
	ParagraphGap float64 // 像素
	LayerColor   string  // LAYER 段落的底色，#rrggbb
}

// PageOptions 以毫米描述版面。
type PageOptions struct {
	Width  float64
	Height float64
	Margin float64
}

// ContentWidth 返回版心宽度（像素），用作排版的 MaxTextWidth。
func (p PageOptions) ContentWidth() float64 {
	p = p.withDefaults()
	return (p.Width - 2*p.Margin) * layout.MmToPx
}

func (p PageOptions) withDefaults() PageOptions {
	if p.Width <= 0 {
		p.Width = DefaultPageWidth
	}
	if p.Height <= 0 {
		p.Height = DefaultPageHeight
	}
	if p.Margin < 0 || 2*p.Margin >= p.Width || 2*p.Margin >= p.Height {
		p.Margin = DefaultMargin
	}
	return p
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer that measures and draws with the same canvas faces.
func NewRenderer(metrics *Metrics, opts Options) *Renderer {
	blobs := map[string][]byte{}
	for name, res := range opts.Images {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			blobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败时在使用处报告找不到资源
			if len(data) > 0 {
				blobs[name] = data
			}
		}
	}
	layer := colorOf(opts.LayerColor)
	if layer == nil {
		layer = layerColor
	}
	return &Renderer{
		metrics: metrics,
		images:  newImageStore(opts.BaseDir, blobs),
		page:    opts.Page.withDefaults(),
		gap:     opts.ParagraphGap,
		layer:   layer,
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	pages, err := r.paint(result)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, r.page.Width, r.page.Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, c := range pages {
		if i > 0 {
			writer.NewPage(r.page.Width, r.page.Height)
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// pager 按行向下推进光标，放不下时换页。坐标均为毫米，原点在左上角。
type pager struct {
	page   PageOptions
	pages  []*canvas.Canvas
	ctx    *canvas.Context
	cursor float64
}

func (p *pager) newPage() {
	c := canvas.New(p.page.Width, p.page.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点
	p.pages = append(p.pages, c)
	p.ctx = ctx
	p.cursor = p.page.Margin
}

// reserve 确保当前页还能放下高度 h，返回放置的顶部位置。
func (p *pager) reserve(h float64) float64 {
	bottom := p.page.Height - p.page.Margin
	if p.cursor+h > bottom && p.cursor > p.page.Margin {
		p.newPage()
	}
	top := p.cursor
	p.cursor += h
	return top
}

func (r *Renderer) paint(result *layout.Result) ([]*canvas.Canvas, error) {
	pg := &pager{page: r.page}
	pg.newPage()
	for i, pl := range result.Paragraphs {
		if i > 0 && pg.cursor > r.page.Margin {
			pg.cursor += r.gap * layout.PxToMm
		}
		if err := r.drawParagraph(pg, pl); err != nil {
			return nil, err
		}
	}
	return pg.pages, nil
}

// drawParagraph 绘制段落的行；整段图片靠左或居中时画在正文之前，靠右时画在正文之后。
func (r *Renderer) drawParagraph(pg *pager, pl layout.ParagraphLayout) error {
	img := pl.ParaImage
	if img != nil && img.Alignment != layout.AlignRight {
		if err := r.drawParagraphImage(pg, pl); err != nil {
			return err
		}
	}
	for _, line := range pl.Lines {
		if err := r.drawLine(pg, pl, line); err != nil {
			return err
		}
	}
	if img != nil && img.Alignment == layout.AlignRight {
		return r.drawParagraphImage(pg, pl)
	}
	return nil
}

// lineOffset 返回行首相对版心左边的偏移（像素）。
func lineOffset(pl layout.ParagraphLayout, line layout.TextLine) float64 {
	free := pl.MaxTextWidth - line.Width()
	if free < 0 {
		free = 0
	}
	x := pl.BlockIndent
	switch pl.Alignment {
	case layout.AlignRight:
		x += free
	case layout.AlignCenter:
		x += free / 2
	}
	return x
}

func (r *Renderer) drawLine(pg *pager, pl layout.ParagraphLayout, line layout.TextLine) error {
	lineH := pl.LineHeight * layout.PxToMm
	top := pg.reserve(lineH)
	left := r.page.Margin

	if pl.Layer {
		pg.ctx.SetFillColor(r.layer)
		pg.ctx.SetStrokeColor(canvas.Transparent)
		pg.ctx.DrawPath(left+pl.BlockIndent*layout.PxToMm, top, canvas.Rectangle(pl.MaxTextWidth*layout.PxToMm, lineH))
	}

	x0 := left + lineOffset(pl, line)*layout.PxToMm
	for _, elem := range line.Elems {
		x := x0 + elem.XPos*layout.PxToMm
		if elem.Widget != nil {
			if err := r.drawWidget(pg.ctx, *elem.Widget, x, top, elem.Width*layout.PxToMm, lineH); err != nil {
				return err
			}
			continue
		}
		if strings.TrimSpace(elem.Text) == "" {
			continue
		}
		face := r.metrics.Face(elem.Font, textColor)
		fm := face.Metrics()
		// 基线：行顶 + 半行距 + 上升部
		halfLeading := (lineH - (fm.Ascent + fm.Descent)) / 2
		baseline := top + halfLeading + fm.Ascent
		pg.ctx.DrawText(x, baseline, canvas.NewTextLine(face, elem.Text, canvas.Left))
	}
	return nil
}

// drawWidget 绘制行内 widget：图片按元素宽度缩放，emoji 画成圆形占位。
func (r *Renderer) drawWidget(ctx *canvas.Context, w layout.Modifier, x, top, wMM, hMM float64) error {
	if w.IsImage() {
		img, err := r.images.load(w.Data.URL)
		if err != nil {
			return err
		}
		fitted, dpmm := fit(img, wMM, hMM)
		ctx.DrawImage(x, top, fitted, canvas.DPMM(dpmm))
		return nil
	}
	radius := hMM * 0.35
	ctx.SetFillColor(emojiColor)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(x+wMM/2, top+hMM/2, canvas.Circle(radius))
	return nil
}

// drawParagraphImage 把整段图片缩放到版心宽度以内，按段落对齐放置。
func (r *Renderer) drawParagraphImage(pg *pager, pl layout.ParagraphLayout) error {
	pi := pl.ParaImage
	img, err := r.images.load(pi.URL)
	if err != nil {
		return err
	}
	wPx, hPx := pi.W, pi.H
	if wPx <= 0 || hPx <= 0 {
		b := img.Bounds()
		wPx, hPx = float64(b.Dx()), float64(b.Dy())
	}
	maxW := pl.MaxTextWidth
	if maxW <= 0 {
		maxW = r.page.ContentWidth()
	}
	if wPx > maxW {
		hPx *= maxW / wPx
		wPx = maxW
	}
	wMM, hMM := wPx*layout.PxToMm, hPx*layout.PxToMm
	if limit := r.page.Height - 2*r.page.Margin; hMM > limit {
		wMM *= limit / hMM
		hMM = limit
	}

	top := pg.reserve(hMM)
	x := r.page.Margin + pl.BlockIndent*layout.PxToMm
	switch pi.Alignment {
	case layout.AlignCenter:
		x += (maxW*layout.PxToMm - wMM) / 2
	case layout.AlignRight:
		x += maxW*layout.PxToMm - wMM
	}
	fitted, dpmm := fit(img, wMM, hMM)
	pg.ctx.DrawImage(x, top, fitted, canvas.DPMM(dpmm))
	return nil
}

// colorOf 把 #rrggbb 转为颜色，空串返回 nil。
func colorOf(hex string) color.Color {
	if hex == "" {
		return nil
	}
	return canvas.Hex(hex)
}

// PageCount 返回结果分页后的页数，不生成 PDF。
func (r *Renderer) PageCount(result *layout.Result) (int, error) {
	if result == nil {
		return 0, fmt.Errorf("渲染结果为空")
	}
	pages, err := r.paint(result)
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

package canvasrenderer

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/ByLCY/inkleaf/layout"
)

// LineCache 记忆段落排版结果。排版本身是纯函数，调用方可以放心复用：
// 键由正文、标注、基础字体、宽度、首行缩进与句子区间的 xxhash 组成。
type LineCache struct {
	mu      sync.Mutex
	entries map[uint64]layout.ParagraphLayout
	hits    int
	misses  int
}

// NewLineCache 创建空缓存。
func NewLineCache() *LineCache {
	return &LineCache{entries: map[uint64]layout.ParagraphLayout{}}
}

// Layout 返回缓存中的结果，未命中时调用 layout.LayoutParagraph 并写入缓存。
// Metrics 不参与键计算，同一个缓存只应配合同一个度量实现使用。
func (c *LineCache) Layout(p layout.Paragraph, opts layout.Options) layout.ParagraphLayout {
	key := cacheKey(p, opts)
	c.mu.Lock()
	if pl, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return pl
	}
	c.misses++
	c.mu.Unlock()

	pl := layout.LayoutParagraph(p, opts)

	c.mu.Lock()
	c.entries[key] = pl
	c.mu.Unlock()
	return pl
}

// Stats 返回命中与未命中次数。
func (c *LineCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len 返回缓存条目数。
func (c *LineCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cacheKey(p layout.Paragraph, opts layout.Options) uint64 {
	d := xxhash.New()
	w := keyWriter{d: d}
	w.str(p.Content)
	w.str(string(p.Type))
	w.int(p.TabLevel)
	w.int(len(p.Modifiers))
	for _, m := range p.Modifiers {
		w.str(string(m.Type))
		w.int(m.Start)
		w.int(m.End)
		w.str(m.Emoji)
		w.flag(m.Data != nil)
		if m.Data != nil {
			w.str(m.Data.URL)
			w.float(m.Data.W)
			w.float(m.Data.H)
		}
	}
	f := opts.BaseFont
	w.str(f.FontFamily)
	w.float(f.FontSize)
	w.str(f.FontStyle)
	w.int(f.FontWeight)
	w.str(f.TextDecoration)
	w.float(f.LineSpacing)
	w.str(f.VerticalAlign)
	w.float(opts.MaxTextWidth)
	w.float(opts.LeadingIndent)
	w.int(opts.StartSentence)
	w.int(opts.EndSentence)
	return d.Sum64()
}

// keyWriter 以带长度前缀的方式写入字段，避免不同字段拼接后碰撞。
type keyWriter struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (w *keyWriter) int(v int) {
	binary.LittleEndian.PutUint64(w.buf[:], uint64(v))
	w.d.Write(w.buf[:])
}

// flag 写入可选字段是否存在，nil 与零值数据得到不同的键。
func (w *keyWriter) flag(present bool) {
	b := byte(0)
	if present {
		b = 1
	}
	w.d.Write([]byte{b})
}

func (w *keyWriter) float(v float64) {
	binary.LittleEndian.PutUint64(w.buf[:], math.Float64bits(v))
	w.d.Write(w.buf[:])
}

func (w *keyWriter) str(s string) {
	w.int(len(s))
	w.d.WriteString(s)
}

package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DebugParagraph 是调试输出中的单个段落：排版结果以及可选的原始分段。
type DebugParagraph struct {
	ParagraphLayout
	Segments []TextSegment `json:"segments,omitempty"`
}

// DebugDocument 是调试 JSON 的根对象。
type DebugDocument struct {
	Meta       DocumentMeta     `json:"meta"`
	Paragraphs []DebugParagraph `json:"paragraphs"`
}

// NewDebugDocument 包装排版结果；opts.Debug.Segments 为真时重新计算每段的分段附在输出中。
func NewDebugDocument(res *Result, opts BuildOptions) DebugDocument {
	doc := DebugDocument{Meta: res.Meta, Paragraphs: make([]DebugParagraph, 0, len(res.Paragraphs))}
	for _, pl := range res.Paragraphs {
		dp := DebugParagraph{ParagraphLayout: pl}
		if opts.Debug.Segments {
			po, _ := paragraphOptions(pl.Paragraph, opts)
			dp.Segments = GetParagraphSegments(pl.Paragraph, po)
		}
		doc.Paragraphs = append(doc.Paragraphs, dp)
	}
	return doc
}

// EncodeDebugJSON 将布局结果以缩进 JSON 写入 w。
func EncodeDebugJSON(w io.Writer, res *Result, opts BuildOptions) error {
	if res == nil {
		return fmt.Errorf("layout: 结果为空")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewDebugDocument(res, opts))
}

// WriteDebugJSON 将布局结果输出为 JSON 文件，便于调试或可视化。
func WriteDebugJSON(res *Result, path string, opts BuildOptions) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, res, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

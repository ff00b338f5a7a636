package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// imageDPI 是嵌入 PDF 前位图下采样的目标分辨率。
const imageDPI = 200.0

// imageStore 解析并缓存 widget 与段落图片。
type imageStore struct {
	baseDir string
	blobs   map[string][]byte // built-in:<name>

	mu      sync.Mutex
	decoded map[string]image.Image
}

func newImageStore(baseDir string, blobs map[string][]byte) *imageStore {
	return &imageStore{baseDir: baseDir, blobs: blobs, decoded: map[string]image.Image{}}
}

// load 解码图片，url 可以是 built-in:<name>、绝对路径或相对 baseDir 的路径。
func (s *imageStore) load(url string) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img, ok := s.decoded[url]; ok {
		return img, nil
	}

	var (
		img image.Image
		err error
	)
	if name, ok := cutBuiltin(url); ok {
		blob, found := s.blobs[name]
		if !found {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, err = imaging.Decode(bytes.NewReader(blob), imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
	} else {
		if s.baseDir == "" && !filepath.IsAbs(url) {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in:）", url)
		}
		path := url
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.baseDir, path)
		}
		img, err = imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("读取图片 %s 失败: %w", url, err)
		}
	}
	s.decoded[url] = img
	return img, nil
}

// fit 把图片缩到 wMM×hMM 在 imageDPI 下所需的像素以内，返回图片与绘制所需的 dots-per-mm。
func fit(img image.Image, wMM, hMM float64) (image.Image, float64) {
	maxW := int(wMM / 25.4 * imageDPI)
	maxH := int(hMM / 25.4 * imageDPI)
	b := img.Bounds()
	if maxW > 0 && maxH > 0 && (b.Dx() > maxW || b.Dy() > maxH) {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}
	dpmm := float64(img.Bounds().Dx()) / wMM
	if dpmm <= 0 {
		dpmm = 1
	}
	return img, dpmm
}

func cutBuiltin(url string) (string, bool) {
	for _, prefix := range []string{"built-in:", "builtin:"} {
		if name, ok := strings.CutPrefix(url, prefix); ok {
			return name, true
		}
	}
	return "", false
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testBook = `book "CLI Book" {
  meta { author: "A. Writer" }
  heading { "Chapter ${chapter}" }
  para center { "Hi " b { "there" } ". Bye now." }
  item tab 1 { "First point." }
}`

// runCLI 执行根命令并返回标准输出。命令行标志是包级变量，每次执行前复位。
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = filepath.Join(t.TempDir(), "config.yaml")
	renderOutput, renderData, renderDebug, renderSegments, renderVerbose = "", "", "", false, false
	layoutOutput, layoutData, layoutWidth, layoutMetrics, layoutSegments = "", "", "", "", false
	sentencesFile, sentencesIndex, sentencesAt = "", -1, -1
	configForce, fontsCheck = false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "inkleaf" {
		t.Errorf("expected Use 'inkleaf', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	for _, name := range []string{"render", "layout", "sentences", "config", "fonts", "grammar", "version"} {
		if cmd, _, err := rootCmd.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("expected subcommand %s", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if strings.TrimSpace(out) != "inkleaf 1.2.3" {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestSentencesCommand(t *testing.T) {
	out, err := runCLI(t, "sentences", "Hi there. Bye now.")
	if err != nil {
		t.Fatalf("sentences failed: %v", err)
	}
	if !strings.Contains(out, `"Hi there. "`) || !strings.Contains(out, `"Bye now."`) {
		t.Errorf("expected both sentences listed, got:\n%s", out)
	}

	out, err = runCLI(t, "sentences", "--index", "1", "Hi there. Bye now.")
	if err != nil || strings.TrimSpace(out) != "Bye now." {
		t.Errorf("expected second sentence, got %q (%v)", out, err)
	}

	out, err = runCLI(t, "sentences", "--at", "12", "Hi there. Bye now.")
	if err != nil || strings.TrimSpace(out) != "1" {
		t.Errorf("expected sentence index 1 at offset 12, got %q (%v)", out, err)
	}

	if _, err := runCLI(t, "sentences", "--index", "5", "Hi there."); err == nil {
		t.Error("expected out of range error")
	}
	if _, err := runCLI(t, "sentences"); err == nil {
		t.Error("expected error without text")
	}

	file := writeFile(t, "para.txt", "One! Two? Three.\n")
	out, err = runCLI(t, "sentences", "--file", file, "--index", "2")
	if err != nil || strings.TrimSpace(out) != "Three." {
		t.Errorf("expected third sentence from file, got %q (%v)", out, err)
	}
}

type debugOutput struct {
	Meta struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	} `json:"meta"`
	Paragraphs []struct {
		Lines []struct {
			Elems []struct {
				Text string `json:"text"`
			} `json:"elems"`
		} `json:"lines"`
		Alignment   int     `json:"alignment"`
		BlockIndent float64 `json:"blockIndent"`
		Segments    []any   `json:"segments"`
	} `json:"paragraphs"`
}

func TestLayoutCommand(t *testing.T) {
	book := writeFile(t, "book.ink", testBook)
	out, err := runCLI(t, "layout", book, "--metrics", "gofont", "--width", "240px", "--data", `{"chapter": 3}`, "--segments")
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}

	var doc debugOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if doc.Meta.Title != "CLI Book" || doc.Meta.Author != "A. Writer" {
		t.Errorf("unexpected meta %+v", doc.Meta)
	}
	if len(doc.Paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(doc.Paragraphs))
	}
	if got := doc.Paragraphs[0].Lines[0].Elems[0].Text; got != "Chapter 3" {
		t.Errorf("expected interpolated heading, got %q", got)
	}
	if doc.Paragraphs[1].Alignment != 0 {
		t.Errorf("expected centered paragraph, got %d", doc.Paragraphs[1].Alignment)
	}
	if doc.Paragraphs[2].BlockIndent != 24 {
		t.Errorf("expected list block indent 24, got %g", doc.Paragraphs[2].BlockIndent)
	}
	if len(doc.Paragraphs[1].Segments) == 0 {
		t.Error("expected segments in debug output")
	}

	if _, err := runCLI(t, "layout", book, "--width", "narrow"); err == nil {
		t.Error("expected error for invalid width")
	}
	if _, err := runCLI(t, "layout", book, "--metrics", "harfbuzz"); err == nil {
		t.Error("expected error for unknown metrics backend")
	}
}

func TestLayoutCommandParagraphFiles(t *testing.T) {
	jsonInput := writeFile(t, "paras.json", `{
  "meta": {"title": "Data"},
  "paragraphs": [
    {"content": "Hi there. Bye now.", "modifiers": [{"type": "B", "start": 3, "end": 8}, {"type": "TAR"}]}
  ]
}`)
	outPath := filepath.Join(t.TempDir(), "out", "layout.json")
	if _, err := runCLI(t, "layout", jsonInput, "--metrics", "gofont", "-o", outPath); err != nil {
		t.Fatalf("layout json failed: %v", err)
	}
	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	var doc debugOutput
	if err := json.Unmarshal(content, &doc); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if doc.Meta.Title != "Data" || len(doc.Paragraphs) != 1 || doc.Paragraphs[0].Alignment != 1 {
		t.Errorf("unexpected layout for JSON input: %+v", doc)
	}

	yamlInput := writeFile(t, "paras.yaml", `meta:
  title: Data
paragraphs:
  - content: "Cited."
    paragraphType: quote
`)
	out, err := runCLI(t, "layout", yamlInput, "--metrics", "gofont")
	if err != nil {
		t.Fatalf("layout yaml failed: %v", err)
	}
	if !strings.Contains(out, `"paragraphType": "quote"`) || !strings.Contains(out, `"fontStyle": "italic"`) {
		t.Errorf("expected italic quote in output:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	book := writeFile(t, "book.ink", testBook)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "pdf", "book.pdf")
	debugPath := filepath.Join(dir, "debug", "layout.json")
	dataPath := writeFile(t, "data.yaml", "chapter: 9\n")

	out, err := runCLI(t, "render", book, "-o", outPath, "--data", "@"+dataPath, "--debug", debugPath, "-v")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, outPath) {
		t.Errorf("expected output path in message, got %q", out)
	}
	for _, want := range []string{"段落数: 3", "排版缓存: 命中 0，未命中 3，条目 3", "页数: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in verbose output, got:\n%s", want, out)
		}
	}
	pdf, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected PDF file: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
	debug, err := os.ReadFile(debugPath)
	if err != nil {
		t.Fatalf("expected debug file: %v", err)
	}
	if !strings.Contains(string(debug), "Chapter 9") {
		t.Error("expected interpolated data in debug output")
	}

	if _, err := runCLI(t, "render", filepath.Join(dir, "missing.ink")); err == nil {
		t.Error("expected error for missing input")
	}
	broken := writeFile(t, "broken.ink", `book "x" { para { `)
	if _, err := runCLI(t, "render", broken, "-o", filepath.Join(dir, "x.pdf")); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkleaf.yaml")

	out, err := runCLI(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "使用默认值") || !strings.Contains(out, "size: 16px") {
		t.Errorf("expected defaults, got:\n%s", out)
	}

	if _, err := runCLI(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := runCLI(t, "config", "init", "--config", path); err == nil {
		t.Error("expected error when config exists")
	}
	if _, err := runCLI(t, "config", "init", "--config", path, "--force"); err != nil {
		t.Errorf("expected --force to overwrite: %v", err)
	}

	out, err = runCLI(t, "config", "path", "--config", path)
	if err != nil || strings.TrimSpace(out) != path {
		t.Errorf("unexpected config path %q (%v)", out, err)
	}
}

func TestFontsCommand(t *testing.T) {
	out, err := runCLI(t, "fonts")
	if err != nil {
		t.Fatalf("fonts failed: %v", err)
	}
	if !strings.Contains(out, "embed:latin-modern/serif-regular") {
		t.Errorf("expected latin-modern serif in list, got:\n%s", out)
	}
}

func TestGrammarCommand(t *testing.T) {
	out, err := runCLI(t, "grammar")
	if err != nil {
		t.Fatalf("grammar failed: %v", err)
	}
	if !strings.Contains(out, "Document") {
		t.Errorf("expected the Document rule in grammar output, got:\n%s", out)
	}
	if _, err := runCLI(t, "grammar", "extra"); err == nil {
		t.Error("expected error for unexpected argument")
	}
}

func TestParseData(t *testing.T) {
	data, err := parseData(`{"a": {"b": 1}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, ok := data.(map[string]any); !ok || m["a"] == nil {
		t.Errorf("unexpected data %#v", data)
	}

	if data, err := parseData(""); err != nil || data != nil {
		t.Errorf("empty data should be nil, got %#v (%v)", data, err)
	}
	if _, err := parseData("{broken"); err == nil {
		t.Error("expected JSON error")
	}
	if _, err := parseData("@" + filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("expected missing file error")
	}

	jsonFile := writeFile(t, "data.json", `{"title": "x"}`)
	if data, err := parseData("@" + jsonFile); err != nil || data.(map[string]any)["title"] != "x" {
		t.Errorf("unexpected JSON file data %#v (%v)", data, err)
	}
}

func TestInputKind(t *testing.T) {
	cases := map[string]string{
		"book.ink":   "dsl",
		"book":       "dsl",
		"paras.JSON": "json",
		"paras.yml":  "yaml",
		"paras.yaml": "yaml",
	}
	for path, want := range cases {
		if got := inputKind(path); got != want {
			t.Errorf("%s: expected %s, got %s", path, want, got)
		}
	}
}

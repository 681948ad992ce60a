package core

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func staticFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys["static/"+name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestMinifyAsset_NonProdReturnsSamePath(t *testing.T) {
	path := "/static/style.css"
	result := MinifyAsset("dev", path, staticFS(map[string]string{"style.css": "body {}"}), t.TempDir())
	if result != path {
		t.Errorf("expected same path in dev mode, got %s", result)
	}
}

func TestMinifyAsset_ProdMinifiesAndCaches(t *testing.T) {
	cacheDir := t.TempDir()
	public := staticFS(map[string]string{"example.css": "body {  color: red;  }"})

	result := MinifyAsset("prod", "/static/example.css", public, cacheDir)

	if !strings.HasPrefix(result, "/static/example.min.css?v=") {
		t.Errorf("unexpected minified path: %s", result)
	}

	minifiedFile := filepath.Join(cacheDir, "static", "example.min.css")
	data, err := os.ReadFile(minifiedFile)
	if err != nil {
		t.Fatalf("expected minified file to exist: %v", err)
	}
	if string(data) != "body{color:red}" {
		t.Errorf("unexpected minified css: %q", data)
	}

	if _, err := os.Stat(minifiedFile + ".gz"); err != nil {
		t.Errorf("expected gzipped file to exist: %s", minifiedFile+".gz")
	}
}

func TestMinifyAsset_ProdMinifiesJS(t *testing.T) {
	cacheDir := t.TempDir()
	public := staticFS(map[string]string{"slider.js": "// step\nfunction clamp(n, min, max) {\n  return Math.max(min, Math.min(max, n));\n}\n"})

	result := MinifyAsset("prod", "/static/slider.js", public, cacheDir)
	if !strings.HasPrefix(result, "/static/slider.min.js?v=") {
		t.Fatalf("unexpected minified path: %s", result)
	}

	data, err := os.ReadFile(filepath.Join(cacheDir, "static", "slider.min.js"))
	if err != nil {
		t.Fatalf("expected minified file to exist: %v", err)
	}
	if strings.Contains(string(data), "// step") || strings.Contains(string(data), "\n  ") {
		t.Errorf("expected comments and indentation removed, got %q", data)
	}
}

func TestMinifyAsset_UnsupportedExtensionReturnsOriginal(t *testing.T) {
	result := MinifyAsset("prod", "/static/openair.png", staticFS(map[string]string{"openair.png": "png"}), t.TempDir())
	if result != "/static/openair.png" {
		t.Errorf("expected original path for unsupported extension, got %s", result)
	}
}

func TestMinifyAsset_AlreadyMinifiedReturnsOriginal(t *testing.T) {
	result := MinifyAsset("prod", "/static/slider.min.js", fstest.MapFS{}, t.TempDir())
	if result != "/static/slider.min.js" {
		t.Errorf("expected original path for .min.js, got %s", result)
	}
}

func TestMinifyAsset_MissingSourceFileReturnsOriginal(t *testing.T) {
	result := MinifyAsset("prod", "/static/missing.css", fstest.MapFS{}, t.TempDir())
	if result != "/static/missing.css" {
		t.Errorf("expected fallback on missing source file, got %s", result)
	}
}

func TestMinifyAsset_NonStaticPathReturnsOriginal(t *testing.T) {
	result := MinifyAsset("prod", "/slider.js", fstest.MapFS{"slider.js": &fstest.MapFile{Data: []byte("a()")}}, t.TempDir())
	if result != "/slider.js" {
		t.Errorf("expected non-static path untouched, got %s", result)
	}
}

func TestMinifyHTML_CollapsesWhitespace(t *testing.T) {
	out, err := MinifyHTML([]byte("<ul>\n    <li>Swampert</li>\n    <li>Zoroark</li>\n</ul>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "\n") {
		t.Errorf("expected newlines to be removed, got %q", out)
	}
	if !strings.Contains(string(out), "<li>Swampert</li>") {
		t.Errorf("expected list items to survive, got %q", out)
	}
}

func TestTemplateFuncs_props(t *testing.T) {
	propsFunc := TemplateFuncs("dev", fstest.MapFS{}, ".")["props"].(func(...interface{}) map[string]interface{})

	result := propsFunc("title", "Event 1", "price", 100)

	if result["title"] != "Event 1" || result["price"] != 100 {
		t.Errorf("unexpected props map: %+v", result)
	}
}

func TestTemplateFuncs_propsPanicsOnOddArgs(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on odd number of args")
		}
	}()
	propsFunc := TemplateFuncs("dev", fstest.MapFS{}, ".")["props"].(func(...interface{}) map[string]interface{})
	propsFunc("title", "Event 1", "missingValue")
}

func TestTemplateFuncs_propsPanicsOnNonStringKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on non-string key")
		}
	}()
	propsFunc := TemplateFuncs("prod", fstest.MapFS{}, ".")["props"].(func(...interface{}) map[string]interface{})
	propsFunc(123, "value")
}

func TestTemplateFuncs_safeHTML(t *testing.T) {
	safe := TemplateFuncs("dev", fstest.MapFS{}, ".")["safeHTML"].(func(interface{}) template.HTML)

	if safe("<b>test</b>") != template.HTML("<b>test</b>") {
		t.Error("string input failed")
	}
	if safe(template.HTML("<i>safe</i>")) != template.HTML("<i>safe</i>") {
		t.Error("template.HTML input failed")
	}
	if safe(123) != template.HTML("") {
		t.Error("unexpected non-string should return empty")
	}
}

func TestTemplateFuncs_versioned(t *testing.T) {
	public := staticFS(map[string]string{"slider.js": "console.log('slide')"})

	versioned := TemplateFuncs("prod", public, t.TempDir())["versioned"].(func(string) string)
	result := versioned("/static/slider.js")

	if !strings.HasPrefix(result, "/static/slider.js?v=") {
		t.Errorf("unexpected versioned path: %s", result)
	}
}

func TestTemplateFuncs_versionedCacheFallback(t *testing.T) {
	cacheDir := t.TempDir()
	writeTempFile(t, cacheDir, filepath.Join("static", "a.js"), "abc")

	versioned := TemplateFuncs("prod", fstest.MapFS{}, cacheDir)["versioned"].(func(string) string)
	if result := versioned("/static/a.js"); !strings.HasPrefix(result, "/static/a.js?v=") {
		t.Errorf("expected cache dir hit, got %s", result)
	}
}

func TestTemplateFuncs_versionedMissingOrForeign(t *testing.T) {
	versioned := TemplateFuncs("prod", fstest.MapFS{}, t.TempDir())["versioned"].(func(string) string)

	if result := versioned("/static/missing.js"); result != "/static/missing.js" {
		t.Errorf("expected fallback to original path, got %s", result)
	}
	if result := versioned("/openair.png"); result != "/openair.png" {
		t.Errorf("expected non-static path untouched, got %s", result)
	}
}

func TestTemplateFuncs_comma(t *testing.T) {
	comma := TemplateFuncs("dev", fstest.MapFS{}, ".")["comma"].(func(int) string)

	cases := map[int]string{100: "100", 1200: "1,200", -5: "-5", 0: "0"}
	for in, want := range cases {
		if got := comma(in); got != want {
			t.Errorf("comma(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestTemplateFuncs_liveReloadOnlyInDev(t *testing.T) {
	dev := TemplateFuncs("dev", fstest.MapFS{}, ".")["liveReload"].(func() template.HTML)
	prod := TemplateFuncs("prod", fstest.MapFS{}, ".")["liveReload"].(func() template.HTML)

	if !strings.Contains(string(dev()), ReloadPath) {
		t.Errorf("expected dev script to reference %s, got %q", ReloadPath, dev())
	}
	if prod() != "" {
		t.Errorf("expected no script in prod, got %q", prod())
	}
}

func TestTemplateFuncs_IncludesSprig(t *testing.T) {
	funcs := TemplateFuncs("dev", fstest.MapFS{}, ".")
	for _, name := range []string{"upper", "join", "default"} {
		if _, ok := funcs[name]; !ok {
			t.Errorf("expected sprig func %q in FuncMap", name)
		}
	}
}

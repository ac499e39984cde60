// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/office2pdf/internal/logging"
	"github.com/pdiddy/office2pdf/internal/progress"
	"github.com/pdiddy/office2pdf/pkg/types"
)

func init() {
	color.NoColor = true
}

// fakeProber returns a fixed engine and counts probes.
type fakeProber struct {
	engine  types.Engine
	soffice string
	probes  int
}

func (f *fakeProber) Probe() types.Engine {
	f.probes++
	return f.engine
}

func (f *fakeProber) LocateSoffice() (string, bool) {
	return f.soffice, f.soffice != ""
}

// fakeBackend writes a placeholder PDF unless exportErr is set.
type fakeBackend struct {
	warmErr   error
	exportErr error
	skipWrite bool
	warmed    int
	exported  int
}

func (f *fakeBackend) Warm(types.DocType) error {
	f.warmed++
	return f.warmErr
}

func (f *fakeBackend) Export(_ context.Context, _ types.DocType, _, pdf string) error {
	f.exported++
	if f.exportErr != nil {
		return f.exportErr
	}
	if f.skipWrite {
		return nil
	}
	return os.WriteFile(pdf, []byte("%PDF-1.4 fake"), 0o644)
}

// recorder is a concurrency-safe Sink.
type recorder struct {
	mu     sync.Mutex
	values []int
}

func (r *recorder) Update(p int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, p)
}

func (r *recorder) all() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.values...)
}

func testConfig() types.Config {
	return types.Config{
		Headless: types.HeadlessConfig{PollAttempts: 3, PollInterval: time.Millisecond},
		Progress: types.ProgressConfig{
			StartupAttempts: 3,
			StartupDelay:    time.Microsecond,
			Tick:            time.Millisecond,
			FinishDelay:     time.Microsecond,
		},
	}
}

func newTestDispatcher(p *fakeProber, b *fakeBackend) *Dispatcher {
	d := NewDispatcher(testConfig(), p, nil)
	d.backend = func(types.Engine) (Backend, error) { return b, nil }
	return d
}

// writeSource creates an empty source document and returns its path.
func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("office bytes"), 0o644))
	return path
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path    string
		want    types.DocType
		wantErr bool
	}{
		{"report.doc", types.DocWord, false},
		{"report.DOCX", types.DocWord, false},
		{"/tmp/data.xls", types.DocSpreadsheet, false},
		{"data.XlSx", types.DocSpreadsheet, false},
		{"deck.ppt", types.DocPresentation, false},
		{"deck.pptx", types.DocPresentation, false},
		{"notes.txt", "", true},
		{"archive.docx.zip", "", true},
		{"README", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Classify(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "Q3 report.pdf"), OutputPath(filepath.Join("in", "Q3 report.xlsx"), "out"))
	assert.Equal(t, filepath.Join("out", "a.b.pdf"), OutputPath("a.b.docx", "out"))
}

func TestHeadlessArgs(t *testing.T) {
	got := HeadlessArgs(types.DocSpreadsheet, "/out", "/in/a.xlsx")
	assert.Equal(t, []string{"--headless", "--convert-to", "pdf:calc_pdf_Export", "--outdir", "/out", "/in/a.xlsx"}, got)
	assert.Equal(t, "writer_pdf_Export", PDFFilter(types.DocWord))
	assert.Equal(t, "impress_pdf_Export", PDFFilter(types.DocPresentation))
}

func TestDispatcher_UnsupportedSkipsProbe(t *testing.T) {
	p := &fakeProber{engine: types.EngineLibreOffice}
	d := newTestDispatcher(p, &fakeBackend{})
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := d.Convert(context.Background(), types.NewRequest("notes.txt", outDir), nil)
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Zero(t, p.probes)
	assert.NoDirExists(t, outDir)
}

func TestDispatcher_NoEngineCreatesNothing(t *testing.T) {
	src := writeSource(t, "report.docx")
	p := &fakeProber{engine: types.EngineNone}
	b := &fakeBackend{}
	d := newTestDispatcher(p, b)
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := d.Convert(context.Background(), types.NewRequest(src, outDir), nil)
	require.ErrorIs(t, err, ErrNoEngine)
	assert.Equal(t, types.EngineNone, res.Engine)
	assert.Equal(t, 1, p.probes)
	assert.Zero(t, b.exported)
	assert.NoDirExists(t, outDir)
}

func TestDispatcher_SuiteSuccess(t *testing.T) {
	src := writeSource(t, "deck.pptx")
	b := &fakeBackend{}
	d := newTestDispatcher(&fakeProber{engine: types.EngineMSOffice}, b)
	outDir := filepath.Join(t.TempDir(), "nested", "out")
	rec := &recorder{}

	req := types.NewRequest(src, outDir)
	res, err := d.Convert(context.Background(), req, rec)
	require.NoError(t, err)

	assert.Equal(t, req.ID, res.RequestID)
	assert.Equal(t, types.EngineMSOffice, res.Engine)
	assert.Equal(t, filepath.Join(outDir, "deck.pdf"), res.OutputPath)
	assert.FileExists(t, res.OutputPath)
	assert.Equal(t, 1, b.warmed)
	assert.False(t, res.FinishedAt.Before(res.StartedAt))

	values := rec.all()
	require.NotEmpty(t, values)
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1])
	}
	assert.Equal(t, 100, values[len(values)-1])
}

func TestDispatcher_WarmFailureStillConverts(t *testing.T) {
	src := writeSource(t, "report.doc")
	b := &fakeBackend{warmErr: errors.New("server busy")}
	d := newTestDispatcher(&fakeProber{engine: types.EngineWPS}, b)

	res, err := d.Convert(context.Background(), types.NewRequest(src, t.TempDir()), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, b.warmed)
	assert.Equal(t, 1, b.exported)
	assert.FileExists(t, res.OutputPath)
}

func TestDispatcher_HeadlessSkipsWarm(t *testing.T) {
	src := writeSource(t, "report.docx")
	b := &fakeBackend{}
	d := newTestDispatcher(&fakeProber{engine: types.EngineLibreOffice}, b)

	_, err := d.Convert(context.Background(), types.NewRequest(src, t.TempDir()), nil)
	require.NoError(t, err)
	assert.Zero(t, b.warmed)
}

func TestDispatcher_BackendFailure(t *testing.T) {
	src := writeSource(t, "report.docx")
	d := newTestDispatcher(&fakeProber{engine: types.EngineMSOffice}, &fakeBackend{exportErr: errors.New("The document is password protected")})
	rec := &recorder{}

	res, err := d.Convert(context.Background(), types.NewRequest(src, t.TempDir()), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The document is password protected")
	assert.Equal(t, types.EngineMSOffice, res.Engine)
	assert.Empty(t, res.OutputPath)
	assert.NotContains(t, rec.all(), 100)
}

func TestDispatcher_VerifyFailureHasNoOutputPath(t *testing.T) {
	src := writeSource(t, "report.docx")
	d := newTestDispatcher(&fakeProber{engine: types.EngineLibreOffice}, &fakeBackend{})
	d.verify = func(string) (int, error) { return 0, ErrConversionFailed }

	res, err := d.Convert(context.Background(), types.NewRequest(src, t.TempDir()), nil)
	require.ErrorIs(t, err, ErrConversionFailed)
	assert.Empty(t, res.OutputPath)
}

func TestDispatcher_OverwritesExisting(t *testing.T) {
	src := writeSource(t, "report.docx")
	outDir := t.TempDir()
	existing := filepath.Join(outDir, "report.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	d := newTestDispatcher(&fakeProber{engine: types.EngineMSOffice}, &fakeBackend{})
	_, err := d.Convert(context.Background(), types.NewRequest(src, outDir), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestDispatcher_Verify(t *testing.T) {
	src := writeSource(t, "report.docx")
	d := newTestDispatcher(&fakeProber{engine: types.EngineMSOffice}, &fakeBackend{})

	d.verify = func(string) (int, error) { return 7, nil }
	res, err := d.Convert(context.Background(), types.NewRequest(src, t.TempDir()), nil)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Pages)

	d.verify = PageCount
	_, err = d.Convert(context.Background(), types.NewRequest(src, t.TempDir()), nil)
	require.ErrorIs(t, err, ErrConversionFailed)
}

func TestDispatcher_MissingSource(t *testing.T) {
	p := &fakeProber{engine: types.EngineLibreOffice}
	b := &fakeBackend{}
	d := newTestDispatcher(p, b)
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := d.Convert(context.Background(), types.NewRequest(filepath.Join(t.TempDir(), "gone.docx"), outDir), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, res.OutputPath)
	assert.Zero(t, b.exported)
	assert.NoDirExists(t, outDir)
}

func TestDispatcher_MissingSourceWithoutEngine(t *testing.T) {
	d := newTestDispatcher(&fakeProber{engine: types.EngineNone}, &fakeBackend{})

	_, err := d.Convert(context.Background(), types.NewRequest(filepath.Join(t.TempDir(), "gone.docx"), t.TempDir()), nil)
	require.ErrorIs(t, err, ErrNoEngine)
}

// Headless tests drive a shell script standing in for soffice.

func writeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "soffice")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

// producingStub records its arguments to argsFile and writes the PDF the
// way soffice does: <outdir>/<source base>.pdf.
func producingStub(t *testing.T, argsFile string) string {
	return writeStub(t, `printf '%s\n' "$@" > "`+argsFile+`"
base=$(basename "$6")
base="${base%.*}"
echo "stub pdf" > "$5/$base.pdf"
`)
}

func newTestHeadless(t *testing.T, bin string) *Headless {
	h := NewHeadless(bin, testConfig().Headless, logging.Discard())
	h.lockPath = filepath.Join(t.TempDir(), "soffice.lock")
	return h
}

func TestHeadless_Success(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	h := newTestHeadless(t, producingStub(t, argsFile))
	src := writeSource(t, "budget.xlsx")
	outDir := t.TempDir()
	pdf := filepath.Join(outDir, "budget.pdf")

	require.NoError(t, h.Export(context.Background(), types.DocSpreadsheet, src, pdf))
	assert.FileExists(t, pdf)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"--headless", "--convert-to", "pdf:calc_pdf_Export", "--outdir", outDir, src},
		strings.Split(strings.TrimSpace(string(args)), "\n"))
}

func TestHeadless_NonZeroExit(t *testing.T) {
	h := newTestHeadless(t, writeStub(t, "echo 'source file could not be loaded' >&2\nexit 1\n"))
	src := writeSource(t, "budget.xlsx")
	pdf := filepath.Join(t.TempDir(), "budget.pdf")

	err := h.Export(context.Background(), types.DocSpreadsheet, src, pdf)
	require.ErrorIs(t, err, ErrConversionFailed)
	assert.Contains(t, err.Error(), "source file could not be loaded")
	assert.NoFileExists(t, pdf)
}

func TestHeadless_FileNotProduced(t *testing.T) {
	h := newTestHeadless(t, writeStub(t, "exit 0\n"))
	src := writeSource(t, "memo.doc")
	pdf := filepath.Join(t.TempDir(), "memo.pdf")

	err := h.Export(context.Background(), types.DocWord, src, pdf)
	require.ErrorIs(t, err, ErrFileNotProduced)
}

func TestHeadless_StaleOutputIgnored(t *testing.T) {
	h := newTestHeadless(t, writeStub(t, "exit 0\n"))
	src := writeSource(t, "memo.doc")
	pdf := filepath.Join(t.TempDir(), "memo.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("yesterday"), 0o644))
	old := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(pdf, old, old))

	err := h.Export(context.Background(), types.DocWord, src, pdf)
	require.ErrorIs(t, err, ErrFileNotProduced)
}

func TestHeadless_SameSecondLeftoverIgnored(t *testing.T) {
	h := newTestHeadless(t, writeStub(t, "exit 0\n"))
	src := writeSource(t, "memo.doc")
	pdf := filepath.Join(t.TempDir(), "memo.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("previous run"), 0o644))

	err := h.Export(context.Background(), types.DocWord, src, pdf)
	require.ErrorIs(t, err, ErrFileNotProduced)
	assert.NoFileExists(t, pdf)
}

func TestHeadless_ReplacesLeftover(t *testing.T) {
	h := newTestHeadless(t, producingStub(t, filepath.Join(t.TempDir(), "args")))
	src := writeSource(t, "memo.doc")
	outDir := t.TempDir()
	pdf := filepath.Join(outDir, "memo.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("previous run"), 0o644))

	require.NoError(t, h.Export(context.Background(), types.DocWord, src, pdf))
	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.Equal(t, "stub pdf\n", string(data))
}

func TestDispatcher_HeadlessEndToEnd(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	stub := producingStub(t, argsFile)
	src := writeSource(t, "Budget.XLSX")
	outDir := filepath.Join(t.TempDir(), "pdf")

	d := NewDispatcher(testConfig(), &fakeProber{engine: types.EngineLibreOffice, soffice: stub}, nil)
	rec := &recorder{}
	res, err := d.Convert(context.Background(), types.NewRequest(src, outDir), rec)
	require.NoError(t, err)

	assert.Equal(t, types.EngineLibreOffice, res.Engine)
	assert.Equal(t, filepath.Join(outDir, "Budget.pdf"), res.OutputPath)
	assert.FileExists(t, res.OutputPath)
	assert.Equal(t, []int{0, 30}, rec.all()[:2])

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(args), "pdf:calc_pdf_Export")
}

func TestDispatcher_HeadlessMissingExecutable(t *testing.T) {
	src := writeSource(t, "report.docx")
	d := NewDispatcher(testConfig(), &fakeProber{engine: types.EngineLibreOffice}, nil)

	_, err := d.Convert(context.Background(), types.NewRequest(src, t.TempDir()), nil)
	require.ErrorIs(t, err, ErrNoEngine)
}

func TestPageCount_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := PageCount(path)
	require.ErrorIs(t, err, ErrConversionFailed)
}

// fakeConverter fails for sources whose name contains "bad".
type fakeConverter struct {
	calls []string
}

func (f *fakeConverter) Convert(_ context.Context, req types.Request, sink progress.Sink) (types.Result, error) {
	f.calls = append(f.calls, req.SourcePath)
	if strings.Contains(req.SourcePath, "bad") {
		return types.Result{RequestID: req.ID}, errors.New("engine crashed")
	}
	sink.Update(100)
	return types.Result{
		RequestID:  req.ID,
		Engine:     types.EngineLibreOffice,
		OutputPath: OutputPath(req.SourcePath, req.OutputDir),
		Pages:      2,
	}, nil
}

func TestConvertBatch(t *testing.T) {
	conv := &fakeConverter{}
	var out bytes.Buffer
	var done []string
	sinks := map[string]*recorder{}

	result := ConvertBatch(context.Background(), conv, []string{"a.docx", "bad.xlsx", "c.pptx"}, "out", &out, BatchOptions{
		Sink: func(src string) progress.Sink {
			sinks[src] = &recorder{}
			return sinks[src]
		},
		Done: func(req types.Request, _ types.Result, err error) {
			done = append(done, req.SourcePath)
		},
	})

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Equal(t, []string{"a.docx", "bad.xlsx", "c.pptx"}, conv.calls)
	assert.Equal(t, conv.calls, done)
	assert.Equal(t, []int{100}, sinks["a.docx"].all())

	log := out.String()
	assert.Contains(t, log, "converted: a.docx -> "+filepath.Join("out", "a.pdf")+" (libreoffice, 2 pages)")
	assert.Contains(t, log, "failed:    bad.xlsx (engine crashed)")
	assert.Contains(t, log, "Batch summary: 2 converted, 1 failed (total: 3)")
}

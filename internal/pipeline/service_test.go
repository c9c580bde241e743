package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/image/tiff"

	"tifpng/internal/model"
	"tifpng/internal/progress"
	"tifpng/internal/raster"
	"tifpng/internal/vault"
)

type recordingReporter struct {
	mu      sync.Mutex
	updates []progress.Update
	results []progress.Result
	logs    []progress.Log
}

func (r *recordingReporter) Update(u progress.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}
func (r *recordingReporter) Log(l progress.Log) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, l)
}
func (r *recordingReporter) Result(res progress.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

// batchPercents returns the Percent of every batch-level update.
func (r *recordingReporter) batchPercents() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []float64
	for _, u := range r.updates {
		if u.JobID == "" {
			out = append(out, u.Percent)
		}
	}
	return out
}

// scriptedConfirmer answers every question with answer and counts them.
type scriptedConfirmer struct {
	mu        sync.Mutex
	answer    bool
	questions []string
}

func (c *scriptedConfirmer) Confirm(_ context.Context, q string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.questions = append(c.questions, q)
	return c.answer, nil
}

// gatedStore holds the write of one path until another path has been
// written, forcing tasks to finish in a chosen order.
type gatedStore struct {
	vault.FileStore
	hold    string
	until   string
	written chan struct{}
	once    sync.Once
}

func (g *gatedStore) WriteBinary(p string, data []byte) error {
	if p == g.hold {
		select {
		case <-g.written:
		case <-time.After(5 * time.Second):
			return errors.New("gate timed out")
		}
	}
	err := g.FileStore.WriteBinary(p, data)
	if p == g.until {
		g.once.Do(func() { close(g.written) })
	}
	return err
}

func solidTIFF(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode tiff: %v", err)
	}
	return buf.Bytes()
}

var red = color.NRGBA{R: 255, A: 255}

func newVault(t *testing.T, files map[string][]byte) *vault.Store {
	t.Helper()
	st := vault.NewStore(afero.NewMemMapFs())
	for p, data := range files {
		if err := st.WriteBinary(p, data); err != nil {
			t.Fatalf("seed %s: %v", p, err)
		}
	}
	return st
}

func mustExist(t *testing.T, st vault.FileStore, p string, want bool) {
	t.Helper()
	ok, err := st.Exists(p)
	if err != nil {
		t.Fatalf("Exists(%s): %v", p, err)
	}
	if ok != want {
		t.Fatalf("Exists(%s) = %v, want %v", p, ok, want)
	}
}

func TestConvert_SingleEmbed(t *testing.T) {
	st := newVault(t, map[string][]byte{"img.tif": solidTIFF(t, 10, 10, red)})
	rep := &recordingReporter{}
	svc := NewService(WithStore(st), WithReporter(rep))
	note := vault.NewNote("note.md", "![[img.tif]]")

	got, err := svc.Convert(context.Background(), note, note.Path())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got.Total != 1 || got.Succeeded != 1 || len(got.Failures) != 0 {
		t.Fatalf("report = %+v, want total 1, succeeded 1, no failures", got)
	}
	if v := note.Value(); v != "![[img.tif.png]]" {
		t.Errorf("note = %q, want %q", v, "![[img.tif.png]]")
	}

	data, err := st.ReadBinary("img.tif.png")
	if err != nil {
		t.Fatalf("read derivative: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Fatalf("bounds = %v, want 10x10", b)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA); c != red {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, c, red)
			}
		}
	}

	ps := rep.batchPercents()
	if len(ps) == 0 || ps[len(ps)-1] != 100 {
		t.Fatalf("batch percents = %v, want final 100", ps)
	}
	if len(rep.results) != 1 || rep.results[0].Err != nil {
		t.Errorf("results = %+v, want one success", rep.results)
	}
}

func TestConvert_PartialFailure(t *testing.T) {
	tif := solidTIFF(t, 2, 2, red)
	st := newVault(t, map[string][]byte{
		"notes/img/a.tif": tif,
		"c.tiff":          tif,
	})
	text := "intro ![[img/a.tif]]\n![[missing.tif]]\n![[c.tiff]] end"
	note := vault.NewNote("notes/day.md", text)
	svc := NewService(WithStore(st))

	got, err := svc.Convert(context.Background(), note, note.Path())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got.Total != 3 || got.Succeeded != 2 {
		t.Errorf("total/succeeded = %d/%d, want 3/2", got.Total, got.Succeeded)
	}
	if len(got.Failures) != 1 || got.Failures[0].Index != 2 {
		t.Fatalf("failures = %+v, want one at index 2", got.Failures)
	}
	if msg := got.Failures[0].Message; !strings.HasPrefix(msg, "Failed to convert missing.tif: ") {
		t.Errorf("failure message = %q", msg)
	}
	if !errors.Is(got.Outcomes[1].Err, vault.ErrNotFound) {
		t.Errorf("outcome 2 error = %v, want ErrNotFound", got.Outcomes[1].Err)
	}
	if lines := got.FailureLines(); len(lines) != 1 || !strings.HasPrefix(lines[0], "Conversion 2: Failed to convert") {
		t.Errorf("FailureLines = %q", lines)
	}

	want := "intro ![[img/a.tif.png]]\n![[missing.tif]]\n![[c.tiff.png]] end"
	if v := note.Value(); v != want {
		t.Errorf("note =\n%q\nwant\n%q", v, want)
	}
	mustExist(t, st, "notes/img/a.tif.png", true)
	mustExist(t, st, "c.tiff.png", true)
}

func TestConvert_SameLineCollision(t *testing.T) {
	tif := solidTIFF(t, 3, 3, red)
	mem := newVault(t, map[string][]byte{"a.tif": tif, "b.tif": tif, "c.tif": tif})

	tests := []struct {
		name        string
		hold, until string
		jobs        int
	}{
		{name: "first finishes last", hold: "a.tif.png", until: "c.tif.png"},
		{name: "last finishes first", hold: "c.tif.png", until: "a.tif.png"},
		{name: "one at a time", jobs: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &gatedStore{FileStore: mem, hold: tt.hold, until: tt.until, written: make(chan struct{})}
			svc := NewService(WithStore(st), WithOptions(model.Options{Jobs: tt.jobs}))
			note := vault.NewNote("n.md", "![[a.tif]]![[b.tif]] and ![[c.tif]]\nnext")

			got, err := svc.Convert(context.Background(), note, "n.md")
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if !got.OK() || got.Succeeded != 3 {
				t.Fatalf("report = %+v", got)
			}
			want := "![[a.tif.png]]![[b.tif.png]] and ![[c.tif.png]]\nnext"
			if v := note.Value(); v != want {
				t.Errorf("note = %q, want %q", v, want)
			}
		})
	}
}

func TestConvert_SameTargetTwiceOnOneLine(t *testing.T) {
	st := newVault(t, map[string][]byte{"a.tif": solidTIFF(t, 1, 1, red)})
	svc := NewService(WithStore(st))
	note := vault.NewNote("n.md", "![[a.tif]] ![[a.tif]]")

	got, err := svc.Convert(context.Background(), note, "n.md")
	if err != nil || !got.OK() {
		t.Fatalf("Convert = %+v, %v", got, err)
	}
	if v := note.Value(); v != "![[a.tif.png]] ![[a.tif.png]]" {
		t.Errorf("note = %q", v)
	}
}

func TestConvert_Idempotent(t *testing.T) {
	st := newVault(t, map[string][]byte{"img.tif": solidTIFF(t, 4, 4, red)})
	svc := NewService(WithStore(st))
	note := vault.NewNote("n.md", "see ![[img.tif]]")

	if _, err := svc.Convert(context.Background(), note, "n.md"); err != nil {
		t.Fatalf("first Convert: %v", err)
	}
	after := note.Value()

	got, err := svc.Convert(context.Background(), note, "n.md")
	if err != nil {
		t.Fatalf("second Convert: %v", err)
	}
	if !got.Empty || got.Total != 0 {
		t.Errorf("second report = %+v, want Empty", got)
	}
	if note.Value() != after {
		t.Errorf("second run changed the note: %q", note.Value())
	}
}

func TestRemove_UndoesConvert(t *testing.T) {
	st := newVault(t, map[string][]byte{
		"att/x.tif":  solidTIFF(t, 5, 5, red),
		"att/y.TIFF": solidTIFF(t, 5, 5, red),
	})
	svc := NewService(WithStore(st))
	original := "# Title\n![[att/x.tif]] ![[att/y.TIFF]]\ntext"
	note := vault.NewNote("n.md", original)

	if rep, err := svc.Convert(context.Background(), note, "n.md"); err != nil || !rep.OK() {
		t.Fatalf("Convert = %+v, %v", rep, err)
	}
	mustExist(t, st, "att/x.tif.png", true)

	got, err := svc.Remove(context.Background(), note, "n.md", RemoveOptions{})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got.Op != OpRemove || got.Total != 2 || !got.OK() {
		t.Fatalf("report = %+v", got)
	}
	if v := note.Value(); v != original {
		t.Errorf("note = %q, want %q", v, original)
	}
	mustExist(t, st, "att/x.tif.png", false)
	mustExist(t, st, "att/y.TIFF.png", false)
	mustExist(t, st, "att/x.tif", true)
}

func TestRemove_KeepFiles(t *testing.T) {
	st := newVault(t, map[string][]byte{"a.tif.png": []byte("png")})
	svc := NewService(WithStore(st))
	note := vault.NewNote("n.md", "![[a.tif.png]] ![[gone.tif.png]]")

	got, err := svc.Remove(context.Background(), note, "n.md", RemoveOptions{KeepFiles: true})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got.Op != OpRestore || got.Succeeded != 2 {
		t.Fatalf("report = %+v", got)
	}
	if v := note.Value(); v != "![[a.tif]] ![[gone.tif]]" {
		t.Errorf("note = %q", v)
	}
	mustExist(t, st, "a.tif.png", true)
}

func TestRemove_MissingDerivativeFails(t *testing.T) {
	st := newVault(t, nil)
	svc := NewService(WithStore(st))
	note := vault.NewNote("n.md", "![[a.tif.png]]")

	got, err := svc.Remove(context.Background(), note, "n.md", RemoveOptions{})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(got.Failures) != 1 || !strings.HasPrefix(got.Failures[0].Message, "Failed to remove a.tif.png") {
		t.Fatalf("failures = %+v", got.Failures)
	}
	if v := note.Value(); v != "![[a.tif.png]]" {
		t.Errorf("note changed to %q", v)
	}
}

// lockedLine fails every rewrite of one line.
type lockedLine struct {
	vault.TextBuffer
	line int
}

func (l lockedLine) SetLine(i int, text string) error {
	if i == l.line {
		return errors.New("line is read-only")
	}
	return l.TextBuffer.SetLine(i, text)
}

func TestRemove_SameImageOnSeveralLines(t *testing.T) {
	for _, jobs := range []int{1, 0} {
		t.Run("jobs="+strconv.Itoa(jobs), func(t *testing.T) {
			st := newVault(t, map[string][]byte{"a.tif": solidTIFF(t, 2, 2, red)})
			svc := NewService(WithStore(st), WithOptions(model.Options{Jobs: jobs}))
			original := "![[a.tif]]\n![[a.tif]]\ntext ![[a.tif]] ![[a.tif]]"
			note := vault.NewNote("n.md", original)

			if rep, err := svc.Convert(context.Background(), note, "n.md"); err != nil || !rep.OK() {
				t.Fatalf("Convert = %+v, %v", rep, err)
			}
			got, err := svc.Remove(context.Background(), note, "n.md", RemoveOptions{})
			if err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if got.Total != 4 || !got.OK() {
				t.Fatalf("report = %+v", got)
			}
			if v := note.Value(); v != original {
				t.Errorf("note = %q, want %q", v, original)
			}
			mustExist(t, st, "a.tif.png", false)
		})
	}
}

func TestRemove_KeepsFileStillLinked(t *testing.T) {
	st := newVault(t, map[string][]byte{"a.tif.png": []byte("png")})
	svc := NewService(WithStore(st), WithOptions(model.Options{Jobs: 1}))
	note := vault.NewNote("n.md", "![[a.tif.png]]\n![[a.tif.png]]")

	got, err := svc.Remove(context.Background(), lockedLine{TextBuffer: note, line: 1}, "n.md", RemoveOptions{})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got.OK() {
		t.Fatalf("report = %+v, want a failure", got)
	}
	if v := note.Value(); v != "![[a.tif]]\n![[a.tif.png]]" {
		t.Errorf("note = %q", v)
	}
	mustExist(t, st, "a.tif.png", true)
}

func TestConvert_SameImageOnSeveralLines(t *testing.T) {
	tests := []struct {
		name      string
		existing  bool
		wantAsked int
		wantNote  string
		wantSkip  []int
	}{
		{name: "copy written by this run", wantNote: "![[a.tif.png]]\n![[a.tif.png]]\n![[a.tif.png]]"},
		{name: "copy already on disk", existing: true, wantAsked: 1, wantNote: "![[a.tif]]\n![[a.tif]]\n![[a.tif]]", wantSkip: []int{1, 2, 3}},
	}
	for _, tt := range tests {
		for _, jobs := range []int{1, 0} {
			t.Run(tt.name+"/jobs="+strconv.Itoa(jobs), func(t *testing.T) {
				files := map[string][]byte{"a.tif": solidTIFF(t, 2, 2, red)}
				if tt.existing {
					files["a.tif.png"] = []byte("old")
				}
				st := newVault(t, files)
				c := &scriptedConfirmer{answer: false}
				svc := NewService(WithStore(st), WithConfirmer(c),
					WithOptions(model.Options{Jobs: jobs, ConfirmOverwrite: true}))
				note := vault.NewNote("n.md", "![[a.tif]]\n![[a.tif]]\n![[a.tif]]")

				got, err := svc.Convert(context.Background(), note, "n.md")
				if err != nil {
					t.Fatalf("Convert: %v", err)
				}
				if !got.OK() || got.Succeeded != 3 {
					t.Fatalf("report = %+v", got)
				}
				if len(c.questions) != tt.wantAsked {
					t.Errorf("questions = %q, want %d", c.questions, tt.wantAsked)
				}
				if len(got.Skipped) != len(tt.wantSkip) {
					t.Errorf("Skipped = %v, want %v", got.Skipped, tt.wantSkip)
				}
				if v := note.Value(); v != tt.wantNote {
					t.Errorf("note = %q, want %q", v, tt.wantNote)
				}
			})
		}
	}
}

func TestConvert_Overwrite(t *testing.T) {
	tests := []struct {
		name      string
		answer    bool
		confirm   bool
		wantSkip  bool
		wantAsked int
	}{
		{name: "declined", confirm: true, answer: false, wantSkip: true, wantAsked: 1},
		{name: "accepted", confirm: true, answer: true, wantAsked: 1},
		{name: "no confirmation requested", confirm: false, wantAsked: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newVault(t, map[string][]byte{
				"a.tif":     solidTIFF(t, 2, 2, red),
				"a.tif.png": []byte("old"),
			})
			c := &scriptedConfirmer{answer: tt.answer}
			rep := &recordingReporter{}
			svc := NewService(WithStore(st), WithConfirmer(c), WithReporter(rep),
				WithOptions(model.Options{ConfirmOverwrite: tt.confirm}))
			note := vault.NewNote("n.md", "![[a.tif]]")

			got, err := svc.Convert(context.Background(), note, "n.md")
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if len(c.questions) != tt.wantAsked {
				t.Errorf("asked %d times, want %d", len(c.questions), tt.wantAsked)
			}
			if got.Succeeded != 1 || !got.OK() {
				t.Errorf("report = %+v, want 1 success", got)
			}
			data, _ := st.ReadBinary("a.tif.png")
			if tt.wantSkip {
				if len(got.Skipped) != 1 || got.Skipped[0] != 1 {
					t.Errorf("Skipped = %v, want [1]", got.Skipped)
				}
				if got.Outcomes[0].Status != StatusWriteConflict || !errors.Is(got.Outcomes[0].Err, ErrWriteConflict) {
					t.Errorf("outcome = %+v", got.Outcomes[0])
				}
				if string(data) != "old" {
					t.Error("declined overwrite replaced the file")
				}
				if note.Value() != "![[a.tif]]" {
					t.Errorf("declined overwrite rewrote the link: %q", note.Value())
				}
				if len(rep.results) != 1 || !rep.results[0].Skipped {
					t.Errorf("results = %+v, want one skipped", rep.results)
				}
				return
			}
			if string(data) == "old" {
				t.Error("file was not overwritten")
			}
			if note.Value() != "![[a.tif.png]]" {
				t.Errorf("note = %q", note.Value())
			}
		})
	}
}

func TestConvert_NilConfirmerDeclines(t *testing.T) {
	st := newVault(t, map[string][]byte{
		"a.tif":     solidTIFF(t, 1, 1, red),
		"a.tif.png": []byte("old"),
	})
	svc := NewService(WithStore(st), WithOptions(model.Options{ConfirmOverwrite: true}))
	got, err := svc.Convert(context.Background(), vault.NewNote("n.md", "![[a.tif]]"), "n.md")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(got.Skipped) != 1 {
		t.Errorf("Skipped = %v, want one", got.Skipped)
	}
}

func TestConvert_DecodeFailure(t *testing.T) {
	st := newVault(t, map[string][]byte{
		"bad.tif":  []byte("not a tiff"),
		"good.tif": solidTIFF(t, 1, 1, red),
	})
	svc := NewService(WithStore(st))
	note := vault.NewNote("n.md", "![[bad.tif]]\n![[good.tif]]")

	got, err := svc.Convert(context.Background(), note, "n.md")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(got.Failures) != 1 || got.Failures[0].Index != 1 {
		t.Fatalf("failures = %+v", got.Failures)
	}
	if !errors.Is(got.Outcomes[0].Err, raster.ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", got.Outcomes[0].Err)
	}
	if note.Value() != "![[bad.tif]]\n![[good.tif.png]]" {
		t.Errorf("note = %q", note.Value())
	}
	mustExist(t, st, "bad.tif.png", false)
}

func TestConvert_NoDocument(t *testing.T) {
	svc := NewService(WithStore(newVault(t, nil)))
	if _, err := svc.Convert(context.Background(), nil, ""); !errors.Is(err, ErrNoDocument) {
		t.Errorf("Convert(nil) error = %v, want ErrNoDocument", err)
	}
	if _, err := svc.Remove(context.Background(), nil, "", RemoveOptions{}); !errors.Is(err, ErrNoDocument) {
		t.Errorf("Remove(nil) error = %v, want ErrNoDocument", err)
	}
}

func TestConvert_ProgressAndResults(t *testing.T) {
	files := map[string][]byte{}
	var text strings.Builder
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		files[name+".tif"] = solidTIFF(t, 2, 2, red)
		text.WriteString("![[" + name + ".tif]]\n")
	}
	text.WriteString("![[nope.tif]]")
	rep := &recordingReporter{}
	svc := NewService(WithStore(newVault(t, files)), WithReporter(rep))

	got, err := svc.Convert(context.Background(), vault.NewNote("n.md", text.String()), "n.md")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got.Total != 8 || got.Succeeded+len(got.Failures) != got.Total {
		t.Fatalf("report = %+v", got)
	}
	if len(rep.results) != 8 {
		t.Errorf("got %d results, want 8", len(rep.results))
	}
	ps := rep.batchPercents()
	for i := 1; i < len(ps); i++ {
		if ps[i] < ps[i-1] {
			t.Fatalf("batch progress went backwards: %v", ps)
		}
	}
	if ps[len(ps)-1] != 100 {
		t.Errorf("final percent = %v, want 100", ps[len(ps)-1])
	}
}

func TestPurge(t *testing.T) {
	seed := func() map[string][]byte {
		return map[string][]byte{
			"a.tif":        []byte("tif"),
			"a.tif.png":    []byte("png"),
			"x/b.tiff.png": []byte("png"),
			"c.png":        []byte("png"),
		}
	}

	t.Run("confirmed", func(t *testing.T) {
		st := newVault(t, seed())
		c := &scriptedConfirmer{answer: true}
		svc := NewService(WithStore(st), WithConfirmer(c))
		got, err := svc.Purge(context.Background())
		if err != nil {
			t.Fatalf("Purge: %v", err)
		}
		if got.Total != 2 || !got.OK() || len(c.questions) != 1 {
			t.Fatalf("report = %+v, questions = %v", got, c.questions)
		}
		mustExist(t, st, "a.tif.png", false)
		mustExist(t, st, "x/b.tiff.png", false)
		mustExist(t, st, "a.tif", true)
		mustExist(t, st, "c.png", true)
	})

	t.Run("declined", func(t *testing.T) {
		st := newVault(t, seed())
		svc := NewService(WithStore(st), WithConfirmer(&scriptedConfirmer{answer: false}))
		got, err := svc.Purge(context.Background())
		if err != nil {
			t.Fatalf("Purge: %v", err)
		}
		if !got.Declined || got.Total != 0 {
			t.Fatalf("report = %+v, want Declined", got)
		}
		mustExist(t, st, "a.tif.png", true)
	})

	t.Run("nothing to delete", func(t *testing.T) {
		c := &scriptedConfirmer{answer: true}
		svc := NewService(WithStore(newVault(t, map[string][]byte{"a.tif": []byte("tif")})), WithConfirmer(c))
		got, err := svc.Purge(context.Background())
		if err != nil {
			t.Fatalf("Purge: %v", err)
		}
		if !got.Empty || len(c.questions) != 0 {
			t.Errorf("report = %+v, questions = %v", got, c.questions)
		}
	})
}

func TestCopyFiles(t *testing.T) {
	st := newVault(t, map[string][]byte{
		"scans/p1.tif": solidTIFF(t, 3, 2, red),
		"readme.md":    []byte("# hi"),
	})
	svc := NewService(WithStore(st))

	got, err := svc.CopyFiles(context.Background(), []string{"scans/p1.tif", "readme.md", "scans/none.tif"})
	if err != nil {
		t.Fatalf("CopyFiles: %v", err)
	}
	if got.Succeeded != 1 || len(got.Failures) != 2 {
		t.Fatalf("report = %+v", got)
	}
	if got.Failures[0].Index != 2 || got.Failures[1].Index != 3 {
		t.Errorf("failure order = %+v", got.Failures)
	}
	mustExist(t, st, "scans/p1.tif.png", true)

	data, _ := st.ReadBinary("scans/p1.tif.png")
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width != 3 || cfg.Height != 2 {
		t.Errorf("png config = %+v, %v", cfg, err)
	}
}

func TestPlan(t *testing.T) {
	st := newVault(t, map[string][]byte{
		"a.tif":     []byte("x"),
		"a.tif.png": []byte("x"),
		"d/b.tif":   []byte("x"),
	})
	svc := NewService(WithStore(st))
	items, err := svc.Plan(vault.NewNote("n.md", "![[a.tif]] ![[b.tif]]\n![[c.tif]]"), "n.md")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if !items[0].Exists || items[0].Derivative != "a.tif.png" {
		t.Errorf("item 1 = %+v", items[0])
	}
	if items[1].Source != "d/b.tif" || items[1].Exists {
		t.Errorf("item 2 = %+v", items[1])
	}
	if !errors.Is(items[2].Err, vault.ErrNotFound) {
		t.Errorf("item 3 error = %v", items[2].Err)
	}
}

func TestReportSummary(t *testing.T) {
	tests := []struct {
		rep  Report
		want string
	}{
		{Report{Op: OpConvert, Empty: true}, "No TIFF embeds found"},
		{Report{Op: OpPurge, Declined: true}, "Cancelled, nothing was deleted"},
		{Report{Op: OpConvert, Total: 3, Succeeded: 2, Skipped: []int{1}, Failures: []Failure{{Index: 3}}}, "2/3 done, 1 kept, 1 failed"},
	}
	for _, tt := range tests {
		if got := tt.rep.Summary(); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}

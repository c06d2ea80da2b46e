// Package video concatenates resolved sign clips into one output file.
package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslbridge/sign-translator/internal/logger"
)

// ErrNoClips means none of the requested clips exist on disk.
var ErrNoClips = errors.New("no clips available to assemble")

// Runner executes an external command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// AssetLocator maps clip ids to the files they were catalogued from.
type AssetLocator interface {
	ClipAsset(clipID string) (string, bool)
}

type Config struct {
	Assets     AssetLocator
	ClipDir    string
	OutputDir  string
	Extensions []string
	FFmpegPath string
	Timeout    time.Duration
}

type Assembler struct {
	cfg   Config
	run   Runner
	newID func() string
	log   *logger.Logger
}

// Result describes one assembled video. Missing lists clip ids that had no
// asset, in request order; they are skipped in the output.
type Result struct {
	Name    string
	Path    string
	Clips   []string
	Missing []string
}

func New(cfg Config, log *logger.Logger) *Assembler {
	if log == nil {
		log = logger.Nop()
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".mp4"}
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &Assembler{
		cfg:   cfg,
		run:   execRunner,
		newID: uuid.NewString,
		log:   log.With("service", "video.Assembler"),
	}
}

// WithRunner swaps the command runner, e.g. for tests.
func (a *Assembler) WithRunner(run Runner) *Assembler {
	cp := *a
	cp.run = run
	return &cp
}

func (a *Assembler) AssertReady() error {
	if _, err := exec.LookPath(a.cfg.FFmpegPath); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", a.cfg.FFmpegPath, err)
	}
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// Locate finds the asset file for a clip id: the catalogued path first, then
// <ClipDir>/<id><ext> with extensions compared case-insensitively, the same
// rule the catalog builder applies.
func (a *Assembler) Locate(clipID string) (string, bool) {
	if clipID == "" || strings.ContainsAny(clipID, `/\`) || clipID == "." || clipID == ".." {
		return "", false
	}
	if a.cfg.Assets != nil {
		if p, ok := a.cfg.Assets.ClipAsset(clipID); ok && isFile(p) {
			return p, true
		}
	}
	for _, ext := range a.cfg.Extensions {
		p := filepath.Join(a.cfg.ClipDir, clipID+dotted(ext))
		if isFile(p) {
			return p, true
		}
	}

	files, err := os.ReadDir(a.cfg.ClipDir)
	if err != nil {
		return "", false
	}
	for _, f := range files {
		name := f.Name()
		ext := filepath.Ext(name)
		if f.IsDir() || strings.TrimSuffix(name, ext) != clipID {
			continue
		}
		for _, want := range a.cfg.Extensions {
			if strings.EqualFold(ext, dotted(want)) {
				return filepath.Join(a.cfg.ClipDir, name), true
			}
		}
	}
	return "", false
}

func dotted(ext string) string {
	if strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Assemble concatenates the clips in order into <OutputDir>/<uuid>.mp4.
func (a *Assembler) Assemble(ctx context.Context, clipIDs []string) (Result, error) {
	var res Result
	for _, id := range clipIDs {
		p, ok := a.Locate(id)
		if !ok {
			res.Missing = append(res.Missing, id)
			continue
		}
		res.Clips = append(res.Clips, p)
	}
	if len(res.Missing) > 0 {
		a.log.Warn("clips missing from asset directory", "missing", res.Missing)
	}
	if len(res.Clips) == 0 {
		return res, ErrNoClips
	}

	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}
	id := a.newID()
	res.Name = id + ".mp4"
	res.Path = filepath.Join(a.cfg.OutputDir, res.Name)

	listPath := filepath.Join(a.cfg.OutputDir, id+".txt")
	if err := writeConcatList(listPath, res.Clips); err != nil {
		return res, err
	}
	defer os.Remove(listPath)

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	out, err := a.run(ctx, a.cfg.FFmpegPath, concatArgs(listPath, res.Path)...)
	if err != nil {
		_ = os.Remove(res.Path)
		return res, fmt.Errorf("ffmpeg concat failed: %w; out=%s", err, tail(string(out), 2000))
	}

	a.log.Info("assembled sign video", "path", res.Path, "clips", len(res.Clips))
	return res, nil
}

// OutputPath resolves the name of a previously assembled video, refusing
// anything that is not one of ours.
func (a *Assembler) OutputPath(name string) (string, bool) {
	stem, ok := strings.CutSuffix(name, ".mp4")
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(stem); err != nil {
		return "", false
	}
	p := filepath.Join(a.cfg.OutputDir, name)
	if !isFile(p) {
		return "", false
	}
	return p, true
}

func concatArgs(listPath, outPath string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-an",
		outPath,
	}
}

// writeConcatList writes an ffmpeg concat demuxer script.
func writeConcatList(path string, clips []string) error {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, c := range clips {
		abs, err := filepath.Abs(c)
		if err != nil {
			return fmt.Errorf("resolve clip path: %w", err)
		}
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(abs, "'", `'\''`))
		b.WriteString("'\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

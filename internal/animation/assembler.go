package animation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"sync"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/setanarut/apng"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/ytget/magic-animator/internal/model"
)

// Format is the animation container
type Format string

const (
	FormatGIF  Format = "gif"
	FormatAPNG Format = "apng"
)

// Artifact names and media types
const (
	FileNameGIF   = "magical_animation.gif"
	FileNameAPNG  = "magical_animation.png"
	MediaTypeGIF  = "image/gif"
	MediaTypeAPNG = "image/apng"
)

// Defaults and limits
const (
	DefaultFPS    = 4
	DefaultSize   = 1024
	MinFrames     = 2
	MaxColors     = 256
	LoopForever   = 0
	centisecondMs = 10
)

// ErrInsufficientFrames is returned when fewer than MinFrames frames are available
var ErrInsufficientFrames = errors.New("not enough frames to build an animation: at least 2 are needed, try generating again")

// Options control how frames are rendered and encoded
type Options struct {
	FPS    int
	Size   int // square canvas edge in pixels
	Format Format
}

// Delay returns the per-frame delay for the configured frame rate
func (o Options) Delay() time.Duration {
	return time.Second / time.Duration(o.FPS)
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Format == "" {
		o.Format = FormatGIF
	}
	return o
}

// Assembler builds animation artifacts from ordered frames
type Assembler struct {
	mu     sync.RWMutex
	opts   Options
	logger *slog.Logger
}

// NewAssembler creates an assembler with the given options
func NewAssembler(opts Options, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{opts: opts.withDefaults(), logger: logger.With("component", "animation")}
}

// Configure replaces the options used by subsequent assemblies
func (a *Assembler) Configure(opts Options) {
	a.mu.Lock()
	a.opts = opts.withDefaults()
	a.mu.Unlock()
}

// Options returns the active options
func (a *Assembler) Options() Options {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.opts
}

// Assemble renders frames in the given order and encodes them as one looping animation
func (a *Assembler) Assemble(ctx context.Context, runID string, frames []*model.Frame) (*model.Artifact, error) {
	if len(frames) < MinFrames {
		return nil, ErrInsufficientFrames
	}
	opts := a.Options()
	start := time.Now()

	canvases := make([]*image.RGBA, 0, len(frames))
	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		canvas, err := Rasterize(frame.Data, opts.Size)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", frame.Index, err)
		}
		canvases = append(canvases, canvas)
	}

	var (
		data      []byte
		err       error
		fileName  string
		mediaType string
		display   []image.Image
	)
	switch opts.Format {
	case FormatAPNG:
		data, display, err = encodeAPNG(canvases, opts)
		fileName, mediaType = FileNameAPNG, MediaTypeAPNG
	case FormatGIF:
		data, display, err = encodeGIF(canvases, opts)
		fileName, mediaType = FileNameGIF, MediaTypeGIF
	default:
		return nil, fmt.Errorf("unsupported animation format %q", opts.Format)
	}
	if err != nil {
		return nil, err
	}

	a.logger.Info("animation assembled", "run", runID, "format", opts.Format, "frames", len(frames),
		"bytes", len(data), "elapsed", time.Since(start))

	return &model.Artifact{
		RunID:      runID,
		FileName:   fileName,
		MediaType:  mediaType,
		Data:       data,
		FrameCount: len(frames),
		Delay:      opts.Delay(),
		Size:       opts.Size,
		Frames:     display,
	}, nil
}

// Rasterize decodes an encoded image and draws it cover-fit onto a size x size canvas
func Rasterize(data []byte, size int) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(canvas, canvas.Bounds(), src, coverRect(src.Bounds()), xdraw.Src, nil)
	return canvas, nil
}

// coverRect returns the centered square of b, so scaling it fills the canvas without distortion
func coverRect(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w == h {
		return b
	}
	if w > h {
		x := b.Min.X + (w-h)/2
		return image.Rect(x, b.Min.Y, x+h, b.Max.Y)
	}
	y := b.Min.Y + (h-w)/2
	return image.Rect(b.Min.X, y, b.Max.X, y+w)
}

// ReduceRGB444 keeps the top four bits of every channel in place
func ReduceRGB444(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := img.Pix[i+c] & 0xF0
			img.Pix[i+c] = v | v>>4
		}
		img.Pix[i+3] = 0xFF
	}
}

// Quantize reduces img to at most MaxColors colors and maps every pixel without dithering
func Quantize(img *image.RGBA) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, MaxColors), img)
	if len(p) == 0 {
		p = palette.WebSafe
	}
	indexed := image.NewPaletted(img.Bounds(), p)
	draw.Draw(indexed, indexed.Bounds(), img, img.Bounds().Min, draw.Src)
	return indexed
}

func encodeGIF(canvases []*image.RGBA, opts Options) ([]byte, []image.Image, error) {
	delay := int(opts.Delay().Milliseconds()) / centisecondMs
	anim := &gif.GIF{LoopCount: LoopForever}
	display := make([]image.Image, 0, len(canvases))

	for _, canvas := range canvases {
		ReduceRGB444(canvas)
		indexed := Quantize(canvas)
		anim.Image = append(anim.Image, indexed)
		anim.Delay = append(anim.Delay, delay)
		display = append(display, indexed)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), display, nil
}

// encodeAPNG writes truecolor frames; apng would reuse the first frame's palette for all of them
func encodeAPNG(canvases []*image.RGBA, opts Options) ([]byte, []image.Image, error) {
	delay := uint16(opts.Delay().Milliseconds() / centisecondMs)
	anim := &apng.APNG{LoopCount: LoopForever}
	display := make([]image.Image, 0, len(canvases))

	for _, canvas := range canvases {
		anim.Images = append(anim.Images, canvas)
		anim.Delays = append(anim.Delays, delay)
		display = append(display, canvas)
	}

	var buf bytes.Buffer
	if err := apng.EncodeAll(&buf, anim); err != nil {
		return nil, nil, fmt.Errorf("encode apng: %w", err)
	}
	return buf.Bytes(), display, nil
}

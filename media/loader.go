package media

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Loader reads the natural size of the image at src.
type Loader interface {
	Load(ctx context.Context, src string) (Size, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, src string) (Size, error)

func (f LoaderFunc) Load(ctx context.Context, src string) (Size, error) { return f(ctx, src) }

// FileLoader loads images from a file system. src is a slash-separated path
// or a file URL.
type FileLoader struct {
	FS fs.FS
}

func (l FileLoader) Load(ctx context.Context, src string) (Size, error) {
	if l.FS == nil {
		return Size{}, errors.New("file loader has no file system")
	}
	name := strings.TrimPrefix(src, "file://")
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if !fs.ValidPath(name) {
		return Size{}, errors.Errorf("invalid image path %q", src)
	}
	if err := ctx.Err(); err != nil {
		return Size{}, err
	}
	f, err := l.FS.Open(name)
	if err != nil {
		return Size{}, errors.Wrapf(err, "open image %s", name)
	}
	defer f.Close()
	return decodeSize(f, src)
}

// HTTPLoader fetches images over HTTP. A nil Client uses http.DefaultClient.
type HTTPLoader struct {
	Client *http.Client
}

func (l HTTPLoader) Load(ctx context.Context, src string) (Size, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return Size{}, errors.Wrapf(err, "build request for %s", src)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Size{}, errors.Wrapf(err, "fetch image %s", src)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Size{}, errors.Errorf("fetch image %s: %s", src, resp.Status)
	}
	return decodeSize(resp.Body, src)
}

// SchemeLoader picks HTTP for http and https sources and File otherwise.
type SchemeLoader struct {
	HTTP Loader
	File Loader
}

func (l SchemeLoader) Load(ctx context.Context, src string) (Size, error) {
	var next Loader
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		next = l.HTTP
	} else {
		next = l.File
	}
	if next == nil {
		return Size{}, errors.Errorf("no loader for %s", src)
	}
	return next.Load(ctx, src)
}

// decodeSize reads only the image header.
func decodeSize(r io.Reader, src string) (Size, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return Size{}, errors.Wrapf(err, "decode image %s", src)
	}
	s := Size{Width: cfg.Width, Height: cfg.Height}
	if !s.valid() {
		return Size{}, errors.Errorf("image %s has no size", src)
	}
	return s, nil
}

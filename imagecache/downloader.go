// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package imagecache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sync"

	"github.com/gogama/httpapi"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// A BadStatusError is returned when the server responds to an image
// request with a status code outside the 2XX range.
type BadStatusError struct {
	StatusCode int
	Body       []byte
}

func (err *BadStatusError) Error() string {
	return fmt.Sprintf("httpapi/imagecache: bad status: %d %s", err.StatusCode, http.StatusText(err.StatusCode))
}

// A DecodingError is returned when the downloaded data is not an image
// in a supported format.
type DecodingError struct {
	Data []byte
	Err  error
}

func (err *DecodingError) Error() string {
	return fmt.Sprintf("httpapi/imagecache: cannot decode image (%d bytes): %v", len(err.Data), err.Err)
}

func (err *DecodingError) Unwrap() error {
	return err.Err
}

// A Downloader fetches images and caches the decoded results.
//
// Concurrent calls for the same URL share a single HTTP request. The
// zero value is ready to use and is safe for concurrent use. A
// Downloader must not be copied after first use.
type Downloader struct {
	// HTTPDoer sends the image requests. If nil, http.DefaultClient is
	// used.
	HTTPDoer httpapi.HTTPDoer

	// Cache stores decoded images. If nil, Shared is used.
	Cache Cache

	group   singleflight.Group
	lock    sync.Mutex
	flights map[string]*flight
}

// A flight is a shared download and the number of callers waiting on
// it. Its context is cancelled when the last waiter leaves.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Image returns the image at url, from the cache if present and
// otherwise by downloading and decoding it.
//
// A download shared by several callers is not tied to any one of
// their contexts. If ctx is done before the image is ready, Image
// returns ctx.Err() and the download carries on for the remaining
// callers. It is abandoned once no caller is waiting for it.
func (d *Downloader) Image(ctx context.Context, url string) (image.Image, error) {
	cache := d.cache()
	if img, ok := cache.Image(url); ok {
		return img, nil
	}
	f, ch := d.join(ctx, url, cache)
	defer d.leave(url, f)
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Downloader) join(ctx context.Context, url string, cache Cache) (*flight, <-chan singleflight.Result) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.flights == nil {
		d.flights = make(map[string]*flight)
	}
	f := d.flights[url]
	if f == nil {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		d.flights[url] = f
	}
	f.waiters++
	ch := d.group.DoChan(url, func() (interface{}, error) {
		if img, ok := cache.Image(url); ok {
			return img, nil
		}
		img, err := d.download(f.ctx, url)
		if err != nil {
			return nil, err
		}
		cache.SetImage(url, img)
		return img, nil
	})
	return f, ch
}

func (d *Downloader) leave(url string, f *flight) {
	d.lock.Lock()
	defer d.lock.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if d.flights[url] == f {
		delete(d.flights, url)
		d.group.Forget(url)
	}
}

func (d *Downloader) download(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.doer().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &BadStatusError{StatusCode: resp.StatusCode, Body: data}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodingError{Data: data, Err: err}
	}
	return img, nil
}

func (d *Downloader) cache() Cache {
	if d.Cache == nil {
		return Shared
	}
	return d.Cache
}

func (d *Downloader) doer() httpapi.HTTPDoer {
	if d.HTTPDoer == nil {
		return http.DefaultClient
	}
	return d.HTTPDoer
}

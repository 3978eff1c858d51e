// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package imagecache

import (
	"context"
	"sync"

	"github.com/apex/log"
)

// A Prefetcher downloads images into a Downloader's cache in the
// background.
//
// Each URL has at most one prefetch in flight. A Prefetcher must not be
// copied after first use.
type Prefetcher struct {
	// Downloader performs the downloads. It must not be nil.
	Downloader *Downloader

	lock     sync.Mutex
	inflight map[string]*prefetch
	wg       sync.WaitGroup
}

type prefetch struct {
	cancel context.CancelFunc
}

// Prefetch starts a background download for each URL that is not
// already being prefetched. Failures are logged at debug level and
// otherwise ignored.
func (p *Prefetcher) Prefetch(urls ...string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.inflight == nil {
		p.inflight = make(map[string]*prefetch)
	}
	for _, url := range urls {
		if _, ok := p.inflight[url]; ok {
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		f := &prefetch{cancel: cancel}
		p.inflight[url] = f
		p.wg.Add(1)
		go p.run(ctx, f, url)
	}
}

func (p *Prefetcher) run(ctx context.Context, f *prefetch, url string) {
	defer p.wg.Done()
	defer f.cancel()
	if _, err := p.Downloader.Image(ctx, url); err != nil {
		log.WithError(err).WithField("url", url).Debug("image prefetch failed")
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.inflight[url] == f {
		delete(p.inflight, url)
	}
}

// Cancel stops the in-flight prefetches of the given URLs. URLs which
// are not being prefetched are ignored.
func (p *Prefetcher) Cancel(urls ...string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, url := range urls {
		if f, ok := p.inflight[url]; ok {
			f.cancel()
			delete(p.inflight, url)
		}
	}
}

// Wait blocks until every prefetch started so far has finished.
func (p *Prefetcher) Wait() {
	p.wg.Wait()
}

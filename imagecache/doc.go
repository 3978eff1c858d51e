// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package imagecache downloads remote images and keeps the decoded
results in an in-memory cache.

A Downloader fetches an image by URL, decodes it (GIF, JPEG, PNG and
WebP are supported), and stores it in a Cache. Subsequent requests for
the same URL are served from the cache:

	d := &imagecache.Downloader{}
	img, err := d.Image(ctx, "https://example.com/avatar.png")

A Prefetcher starts background downloads for URLs which are likely to
be needed soon, so that the later Downloader call is a cache hit.
*/
package imagecache

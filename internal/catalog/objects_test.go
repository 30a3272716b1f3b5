// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"sync"
	"time"
)

// fakeObjects is an in-memory Objects implementation.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte // bucket/key -> body
	types   map[string]string
	deleted []string
	copyErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) Upload(_ context.Context, bucket, key, contentType string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = data
	f.types[bucket+"/"+key] = contentType
	return nil
}

func (f *fakeObjects) Copy(_ context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copyErr != nil {
		return f.copyErr
	}
	data, ok := f.objects[srcBucket+"/"+srcKey]
	if !ok {
		return errors.New("no such key " + srcBucket + "/" + srcKey)
	}
	f.objects[dstBucket+"/"+dstKey] = data
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, bucket+"/"+key)
	f.deleted = append(f.deleted, bucket+"/"+key)
	return nil
}

func (f *fakeObjects) has(bucket, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[bucket+"/"+key]
	return ok
}

func (f *fakeObjects) FileURL(key string) string { return "https://cdn.test/" + key }

func (f *fakeObjects) DirURL(key string) string { return "https://cdn.test/" + path.Dir(key) }

func (f *fakeObjects) BucketFor(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return "public"
	}
	return "private"
}

func (f *fakeObjects) PublicBucket() string  { return "public" }
func (f *fakeObjects) PrivateBucket() string { return "private" }

func (f *fakeObjects) PresignedURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://signed.test/" + bucket + "/" + key + "?sig=1", nil
}

func (f *fakeObjects) ExtractS3Key(rawURL string) (string, bool) {
	const prefix = "https://cdn.test/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	return rawURL[len(prefix):], true
}

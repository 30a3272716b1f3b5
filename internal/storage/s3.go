// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// product images and the files behind digital formats. Images live in the
// public bucket and are served directly; e-book and audiobook files live in
// the private bucket and are handed out through pre-signed URLs. It wraps
// the AWS SDK v2 with path-style access.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client wraps an S3 client for catalog file operations on two buckets.
type Client struct {
	s3            *s3.Client
	presigner     *s3.PresignClient
	publicBucket  string
	privateBucket string
	endpoint      string
	publicURL     string // optional CDN/direct URL for public files
}

// Options configure a Client. PublicURL is an optional CDN or custom
// domain in front of the public bucket.
type Options struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBucket  string
	PrivateBucket string
	PublicURL     string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if the endpoint or credentials are empty, allowing the app to
// start without storage.
func New(opts Options) (*Client, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, nil
	}
	if opts.PublicBucket == "" || opts.PrivateBucket == "" {
		return nil, fmt.Errorf("s3: both public and private bucket names are required")
	}

	endpoint := strings.TrimRight(opts.Endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       opts.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:            s3Client,
		presigner:     s3.NewPresignClient(s3Client),
		publicBucket:  opts.PublicBucket,
		privateBucket: opts.PrivateBucket,
		endpoint:      endpoint,
		publicURL:     strings.TrimRight(opts.PublicURL, "/"),
	}, nil
}

// Upload stores an object in the specified bucket. For the public bucket,
// objects are set to public-read ACL so they can be served directly.
func (c *Client) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}

	// Public bucket objects get public-read ACL.
	if bucket == c.publicBucket {
		input.ACL = s3types.ObjectCannedACLPublicRead
	}

	_, err := c.s3.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Copy duplicates an object server-side. Staged uploads are copied to
// their product location when a save commits.
func (c *Client) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	input := &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(srcBucket + "/" + srcKey),
	}
	if dstBucket == c.publicBucket {
		input.ACL = s3types.ObjectCannedACLPublicRead
	}
	if _, err := c.s3.CopyObject(ctx, input); err != nil {
		return fmt.Errorf("s3 copy %s/%s to %s/%s: %w", srcBucket, srcKey, dstBucket, dstKey, err)
	}
	return nil
}

// Delete removes an object from the specified bucket.
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for a file in the public bucket.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.publicBucket + "/" + key
}

// DirURL returns the public URL of the directory holding key. A media
// item's URL is its DirURL joined with its title.
func (c *Client) DirURL(key string) string {
	dir := path.Dir(key)
	if dir == "." || dir == "/" {
		dir = ""
	}
	return strings.TrimRight(c.FileURL(dir), "/")
}

// BucketFor picks the bucket a file of the given content type belongs in.
// Images are public, everything else is private.
func (c *Client) BucketFor(contentType string) string {
	if IsImage(contentType) {
		return c.publicBucket
	}
	return c.privateBucket
}

// IsImage reports whether contentType is a raster image type.
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// PresignedURL generates a pre-signed GET URL for a private object, such as
// the file behind an e-book format.
// S3 caps expires at 7 days.
func (c *Client) PresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

// PublicBucket returns the name of the public bucket.
func (c *Client) PublicBucket() string {
	return c.publicBucket
}

// PrivateBucket returns the name of the private bucket.
func (c *Client) PrivateBucket() string {
	return c.privateBucket
}

// ExtractS3Key extracts the S3 object key from a public file URL.
// Returns the key and true if the URL matches the storage URL pattern,
// or ("", false) if it doesn't belong to this storage.
func (c *Client) ExtractS3Key(rawURL string) (string, bool) {
	// Try publicURL prefix first (CDN or custom domain).
	if c.publicURL != "" {
		prefix := c.publicURL + "/"
		if strings.HasPrefix(rawURL, prefix) {
			return rawURL[len(prefix):], true
		}
	}

	// Try endpoint/bucket prefix (path-style S3).
	prefix := c.endpoint + "/" + c.publicBucket + "/"
	if strings.HasPrefix(rawURL, prefix) {
		return rawURL[len(prefix):], true
	}

	return "", false
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
)

func newTestS3Storage() ObjectStorage {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("test-access", "test-secret", ""),
		BaseEndpoint: aws.String("http://storage.local:9000"),
		UsePathStyle: true,
	})
	return NewS3Storage(client, "course-media", zerolog.Nop())
}

func TestS3Storage_PresignGet(t *testing.T) {
	storage := newTestS3Storage()

	url, err := storage.PresignGet(context.Background(), "media/intro.mp4", 15*time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.HasPrefix(url, "http://storage.local:9000/course-media/media/intro.mp4?") {
		t.Fatalf("unexpected url %s", url)
	}
	if !strings.Contains(url, "X-Amz-Expires=900") {
		t.Fatalf("expected 15 minute expiry in %s", url)
	}
}

func TestS3Storage_PresignPut(t *testing.T) {
	storage := newTestS3Storage()

	url, err := storage.PresignPut(context.Background(), "covers/1/abc", "image/png", time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "/course-media/covers/1/abc?") || !strings.Contains(url, "X-Amz-Expires=60") {
		t.Fatalf("unexpected url %s", url)
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "head not found", err: &types.NotFound{}, want: true},
		{name: "no such key", err: fmt.Errorf("wrapped: %w", &types.NoSuchKey{}), want: true},
		{name: "generic api 404", err: &smithy.GenericAPIError{Code: "NotFound"}, want: true},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}},
		{name: "network", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNotFound(tt.err); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

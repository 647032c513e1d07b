package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params

	if params.Body != nil {
		data, err := io.ReadAll(params.Body)
		if err != nil {
			return nil, err
		}

		f.body = data
	}

	if f.err != nil {
		return nil, f.err
	}

	return &s3.PutObjectOutput{}, nil
}

type fakeAPIError struct {
	code string
}

func (e *fakeAPIError) Error() string        { return e.code }
func (e *fakeAPIError) ErrorCode() string    { return e.code }
func (e *fakeAPIError) ErrorMessage() string { return e.code }

func (e *fakeAPIError) ErrorFault() smithy.ErrorFault {
	return smithy.FaultClient
}

func writeArtifact(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestUpload(t *testing.T) {
	client := &fakeS3{}
	uploader := NewS3(client, "stems-bucket", "stems", "https://cdn.example.com/")

	data := []byte("RIFF....WAVEfmt ")
	path := writeArtifact(t, "vocals.wav", data)

	result, err := uploader.Upload(context.Background(), path, "songs/42/vocals_abc")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if client.input == nil {
		t.Fatal("PutObject never called")
	}

	if got := *client.input.Bucket; got != "stems-bucket" {
		t.Fatalf("bucket=%q", got)
	}

	if got, want := *client.input.Key, "stems/songs/42/vocals_abc.wav"; got != want {
		t.Fatalf("key=%q, want %q", got, want)
	}

	if got := *client.input.ContentType; got != "audio/wav" {
		t.Fatalf("content type=%q", got)
	}

	if got := *client.input.ContentLength; got != int64(len(data)) {
		t.Fatalf("content length=%d, want %d", got, len(data))
	}

	if string(client.body) != string(data) {
		t.Fatal("uploaded body differs from artifact")
	}

	if result.SecureURL != "https://cdn.example.com/stems/songs/42/vocals_abc.wav" {
		t.Fatalf("url=%q", result.SecureURL)
	}

	if result.PublicID != "songs/42/vocals_abc" {
		t.Fatalf("public id=%q", result.PublicID)
	}

	if result.Format != "wav" || result.Bytes != int64(len(data)) {
		t.Fatalf("metadata=%+v", result)
	}
}

func TestUploadNoPrefix(t *testing.T) {
	client := &fakeS3{}
	uploader := NewS3(client, "stems-bucket", "", "https://cdn.example.com")

	path := writeArtifact(t, "drums.wav", []byte("data"))

	if _, err := uploader.Upload(context.Background(), path, "drums_xyz"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	if got, want := *client.input.Key, "drums_xyz.wav"; got != want {
		t.Fatalf("key=%q, want %q", got, want)
	}
}

func TestUploadServiceError(t *testing.T) {
	client := &fakeS3{err: &fakeAPIError{code: "AccessDenied"}}
	uploader := NewS3(client, "stems-bucket", "stems", "https://cdn.example.com")

	path := writeArtifact(t, "bass.wav", []byte("data"))

	_, err := uploader.Upload(context.Background(), path, "bass_1")
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.Contains(err.Error(), "AccessDenied") {
		t.Fatalf("error %q does not surface the service code", err)
	}
}

func TestUploadTransportError(t *testing.T) {
	client := &fakeS3{err: errors.New("connection reset")}
	uploader := NewS3(client, "stems-bucket", "stems", "https://cdn.example.com")

	path := writeArtifact(t, "piano.wav", []byte("data"))

	_, err := uploader.Upload(context.Background(), path, "piano_1")
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("error=%v", err)
	}
}

func TestUploadMissingArtifact(t *testing.T) {
	uploader := NewS3(&fakeS3{}, "stems-bucket", "", "https://cdn.example.com")

	if _, err := uploader.Upload(context.Background(), filepath.Join(t.TempDir(), "gone.wav"), "x"); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

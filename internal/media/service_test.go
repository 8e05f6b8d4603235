package media

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/woodkari/woodkari-backend/pkg/cloudinary"
	"github.com/woodkari/woodkari-backend/pkg/enums"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
)

type fakeUploader struct {
	namespace string
	uploadErr error
	destroyed []string
	lastURI   string
	lastDir   string
}

func (f *fakeUploader) Upload(ctx context.Context, dataURI, folder string) (*cloudinary.UploadResult, error) {
	f.lastURI = dataURI
	f.lastDir = folder
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &cloudinary.UploadResult{
		URL:      "https://res.example.com/woodkari/" + folder + "/abc123.webp",
		PublicID: "woodkari/" + folder + "/abc123",
	}, nil
}

func (f *fakeUploader) Destroy(ctx context.Context, publicID string) error {
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func (f *fakeUploader) Namespace() string {
	return f.namespace
}

func newMediaService(t *testing.T, provider *fakeUploader) *Service {
	t.Helper()
	svc, err := NewService(provider, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("error code = %s, want %s", typed.Code(), code)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := newMediaService(t, &fakeUploader{namespace: "woodkari"})
	_, err := svc.Upload(context.Background(), UploadInput{ContentType: "image/png"})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUploadRejectsDisallowedMIMEType(t *testing.T) {
	svc := newMediaService(t, &fakeUploader{namespace: "woodkari"})
	for _, ct := range []string{"image/gif", "application/pdf", "text/html", ""} {
		_, err := svc.Upload(context.Background(), UploadInput{
			Data:        []byte("payload"),
			ContentType: ct,
		})
		expectCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := newMediaService(t, &fakeUploader{namespace: "woodkari"})
	_, err := svc.Upload(context.Background(), UploadInput{
		Data:        bytes.Repeat([]byte{0xff}, MaxUploadBytes+1),
		ContentType: "image/jpeg",
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUploadBuildsDataURIAndTargetsFolder(t *testing.T) {
	provider := &fakeUploader{namespace: "woodkari"}
	svc := newMediaService(t, provider)

	out, err := svc.Upload(context.Background(), UploadInput{
		Data:        []byte("fake image bytes"),
		ContentType: "image/webp",
		Folder:      enums.MediaFolderCategories,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(provider.lastURI, "data:image/webp;base64,") {
		t.Fatalf("data uri = %q", provider.lastURI)
	}
	if provider.lastDir != "categories" {
		t.Fatalf("folder = %q, want categories", provider.lastDir)
	}
	if out.URL == "" || out.PublicID == "" {
		t.Fatalf("output = %+v", out)
	}
}

func TestUploadDefaultsUnknownFolderToProducts(t *testing.T) {
	provider := &fakeUploader{namespace: "woodkari"}
	svc := newMediaService(t, provider)

	_, err := svc.Upload(context.Background(), UploadInput{
		Data:        []byte("fake image bytes"),
		ContentType: "image/png",
		Folder:      enums.MediaFolder("junk-drawer"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if provider.lastDir != "products" {
		t.Fatalf("folder = %q, want products", provider.lastDir)
	}
}

func TestUploadWrapsProviderFailure(t *testing.T) {
	provider := &fakeUploader{namespace: "woodkari", uploadErr: errors.New("cdn down")}
	svc := newMediaService(t, provider)

	_, err := svc.Upload(context.Background(), UploadInput{
		Data:        []byte("fake image bytes"),
		ContentType: "image/jpeg",
	})
	expectCode(t, err, pkgerrors.CodeMediaUpload)
}

func TestExtractPublicID(t *testing.T) {
	svc := newMediaService(t, &fakeUploader{namespace: "woodkari"})

	cases := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			"standard delivery url",
			"https://res.example.com/demo/image/upload/v1690000000/woodkari/products/oak-table.webp",
			"woodkari/products/oak-table",
			true,
		},
		{
			"no extension",
			"https://res.example.com/demo/image/upload/woodkari/categories/living-room",
			"woodkari/categories/living-room",
			true,
		},
		{
			"dot only in earlier path segment",
			"https://res.example.com/v1.2/woodkari/products/bench",
			"woodkari/products/bench",
			true,
		},
		{
			"outside the namespace",
			"https://elsewhere.example.com/other/products/oak-table.webp",
			"",
			false,
		},
		{
			"namespace as a bare suffix",
			"https://res.example.com/woodkari",
			"",
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := svc.ExtractPublicID(tc.url)
			if ok != tc.wantOK || got != tc.wantID {
				t.Fatalf("ExtractPublicID(%q) = (%q, %v), want (%q, %v)", tc.url, got, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestCleanupURLsSkipsForeignHostsAndDestroysManagedAssets(t *testing.T) {
	provider := &fakeUploader{namespace: "woodkari"}
	svc := newMediaService(t, provider)

	svc.CleanupURLs(context.Background(), []string{
		"https://res.example.com/demo/image/upload/woodkari/products/oak-table.webp",
		"https://elsewhere.example.com/cdn/bench.jpg",
		"https://res.example.com/demo/image/upload/woodkari/products/hover.webp",
	})

	if len(provider.destroyed) != 2 {
		t.Fatalf("destroyed = %v, want 2 managed assets", provider.destroyed)
	}
	if provider.destroyed[0] != "woodkari/products/oak-table" {
		t.Fatalf("first destroyed = %q", provider.destroyed[0])
	}
}

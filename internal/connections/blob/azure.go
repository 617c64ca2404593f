package blob

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	azureblob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/config"
)

// AzureStore keeps images in one Azure Storage container and hands out
// read-only SAS URLs.
type AzureStore struct {
	client     *azblob.Client
	cred       *azblob.SharedKeyCredential
	serviceURL string
	container  string
	ttl        time.Duration
	timeout    time.Duration
	now        func() time.Time
}

func NewAzure(cfg config.BlobConfig) (*AzureStore, error) {
	cred, err := azblob.NewSharedKeyCredential(cfg.Account, cfg.AccountKey)
	if err != nil {
		return nil, errors.Wrap(err, "azure shared key credential")
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.Account)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, &azblob.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: 3, TryTimeout: cfg.Timeout},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "azure blob client")
	}
	return &AzureStore{
		client:     client,
		cred:       cred,
		serviceURL: serviceURL,
		container:  cfg.Container,
		ttl:        cfg.SignedTTL,
		timeout:    cfg.Timeout,
		now:        time.Now,
	}, nil
}

func (s *AzureStore) EnsureContainer(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return apperr.Upload(err, "ensure container "+s.container)
	}
	return nil
}

func (s *AzureStore) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if err := validName(name); err != nil {
		return apperr.Upload(err, "upload blob")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.UploadBuffer(ctx, s.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &azureblob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return uploadErr(ctx, err, "upload blob "+name)
	}
	return nil
}

func (s *AzureStore) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return apperr.Upload(err, "delete blob")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.DeleteBlob(ctx, s.container, name, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return uploadErr(ctx, err, "delete blob "+name)
	}
	return nil
}

// URL signs a read-only SAS for name, valid for the configured TTL.
func (s *AzureStore) URL(_ context.Context, name string) (string, error) {
	if err := validName(name); err != nil {
		return "", apperr.Upload(err, "sign blob url")
	}
	now := s.now().UTC()
	qp, err := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     now.Add(-5 * time.Minute),
		ExpiryTime:    now.Add(s.ttl),
		Permissions:   (&sas.BlobPermissions{Read: true}).String(),
		ContainerName: s.container,
		BlobName:      name,
	}.SignWithSharedKey(s.cred)
	if err != nil {
		return "", apperr.Upload(err, "sign blob url")
	}
	return fmt.Sprintf("%s%s/%s?%s", s.serviceURL, s.container, url.PathEscape(name), qp.Encode()), nil
}

func uploadErr(ctx context.Context, err error, msg string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Mark(errors.Wrap(err, msg), apperr.ErrTimeout)
	}
	return apperr.Upload(err, msg)
}

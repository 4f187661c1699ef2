package storage

import (
	"context"
	"errors"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader абстрагирует хранилище бинарных объектов (эмблемы клубов).
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// ErrStorageDisabled возвращается, когда объектное хранилище не настроено.
var ErrStorageDisabled = errors.New("object storage is not configured")

type disabledUploader struct{}

// NewDisabledUploader возвращает заглушку для окружений без R2. Загрузка и удаление
// возвращают ErrStorageDisabled, публичные URL не формируются.
func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrStorageDisabled
}

func (disabledUploader) Delete(context.Context, string) error { return ErrStorageDisabled }

func (disabledUploader) GetPublicURL(string) string { return "" }

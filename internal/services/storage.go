package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService handles uploaded files before they enter the pipeline.
type StorageService interface {
	SaveFile(file *multipart.FileHeader, fileType string) (string, string, error)
	SaveTempFile(file *multipart.FileHeader, suffix string) (string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile stores an uploaded resume PDF under a unique name.
func (s *storageService) SaveFile(file *multipart.FileHeader, fileType string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", "", fmt.Errorf("invalid file extension: %s", ext)
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	if err := copyUpload(file, filePath); err != nil {
		return "", "", err
	}

	return uniqueFilename, filePath, nil
}

// SaveTempFile stores an upload (e.g. an answer WAV) in the OS temp dir and
// returns its path. Callers own cleanup.
func (s *storageService) SaveTempFile(file *multipart.FileHeader, suffix string) (string, error) {
	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = suffix
	}

	tmp, err := os.CreateTemp("", "upload_*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := copyUpload(file, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	return tmpPath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func copyUpload(file *multipart.FileHeader, dstPath string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

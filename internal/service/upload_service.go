package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"alteran/internal/pkg/logger"
	pkgErrors "alteran/pkg/errors"
)

// UploadURLPrefix 上传文件的访问前缀
const UploadURLPrefix = "/api/uploads/"

// DefaultMaxUploadSize 5 MiB
const DefaultMaxUploadSize int64 = 5 * 1024 * 1024

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/avif"}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
}

// StoredFile 已保存的上传文件
type StoredFile struct {
	Path        string
	ContentType string
}

type UploadService interface {
	// Save 校验并保存图片, 返回访问地址
	Save(header *multipart.FileHeader) (string, error)
	// Open 按文件名定位已上传的文件
	Open(filename string) (*StoredFile, error)
}

type uploadService struct {
	dir     string
	maxSize int64
}

func NewUploadService(dir string, maxSize int64) UploadService {
	return &uploadService{
		dir:     dir,
		maxSize: lo.Ternary(maxSize <= 0, DefaultMaxUploadSize, maxSize),
	}
}

// extensionOf 按检测出的类型决定扩展名, 与客户端文件名无关
func extensionOf(detected *mimetype.MIME) string {
	return strings.TrimPrefix(detected.Extension(), ".")
}

func (s *uploadService) Save(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", pkgErrors.ErrFileRequired
	}
	if header.Size > s.maxSize {
		return "", pkgErrors.New(pkgErrors.CodeBadRequest,
			fmt.Sprintf("File too large. Maximum size: %dMB.", s.maxSize/(1024*1024)))
	}

	file, err := header.Open()
	if err != nil {
		return "", pkgErrors.Wrap(pkgErrors.CodeBadRequest, "Failed to read uploaded file", err)
	}
	defer file.Close()

	// 多读 1 字节用于判断是否超出限制
	data, err := io.ReadAll(io.LimitReader(file, s.maxSize+1))
	if err != nil {
		return "", pkgErrors.Wrap(pkgErrors.CodeBadRequest, "Failed to read uploaded file", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", pkgErrors.New(pkgErrors.CodeBadRequest,
			fmt.Sprintf("File too large. Maximum size: %dMB.", s.maxSize/(1024*1024)))
	}

	// 以文件内容判断类型, 不信任客户端声明的 Content-Type
	detected := mimetype.Detect(data)
	if !lo.Contains(allowedImageTypes, detected.String()) {
		logger.Warn("拒绝上传文件",
			zap.String("filename", header.Filename),
			zap.String("declared", header.Header.Get("Content-Type")),
			zap.String("detected", detected.String()))
		return "", pkgErrors.ErrUnsupportedFile
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %w", err)
	}

	name := fmt.Sprintf("%s.%s", uuid.NewString(), extensionOf(detected))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("保存上传文件失败: %w", err)
	}

	logger.Info("图片已上传", zap.String("file", name), zap.Int("size", len(data)))
	return UploadURLPrefix + name, nil
}

func (s *uploadService) Open(filename string) (*StoredFile, error) {
	if filename == "" || strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return nil, pkgErrors.ErrNotFound
	}

	path := filepath.Join(s.dir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, pkgErrors.ErrNotFound
	}

	contentType, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		contentType = "application/octet-stream"
	}
	return &StoredFile{Path: path, ContentType: contentType}, nil
}

package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yangjin15/yinzhang/config"
)

// ── 附件模块业务错误 ──

var (
	ErrFileTooLarge    = errors.New("文件大小超出限制")
	ErrFileTypeDenied  = errors.New("不支持的文件类型")
	ErrFileNotFound    = errors.New("文件不存在")
	ErrFileEmptyUpload = errors.New("上传文件不能为空")
)

// UploadedFile 上传结果
type UploadedFile struct {
	FileName     string `json:"fileName"`     // 存储文件名（日期目录/uuid + 扩展名）
	OriginalName string `json:"originalName"` // 原始文件名
	URL          string `json:"url"`          // 下载路径
	Size         int64  `json:"size"`
}

// FileService 附件上传/下载业务接口
// 存储文件名使用 uuid，避免原始文件名冲突和路径穿越
type FileService interface {
	Save(originalName string, size int64, src io.Reader) (*UploadedFile, error)
	Resolve(fileName string) (string, error)
}

type fileService struct {
	cfg    config.UploadConfig
	logger *zap.Logger
}

// NewFileService 创建 FileService 实例
func NewFileService(cfg config.UploadConfig, logger *zap.Logger) FileService {
	return &fileService{cfg: cfg, logger: logger}
}

func (s *fileService) allowedType(ext string) bool {
	if len(s.cfg.AllowedTypes) == 0 {
		return true
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for _, t := range s.cfg.AllowedTypes {
		if strings.TrimPrefix(strings.ToLower(t), ".") == ext {
			return true
		}
	}
	return false
}

func (s *fileService) Save(originalName string, size int64, src io.Reader) (*UploadedFile, error) {
	if originalName == "" || size == 0 {
		return nil, ErrFileEmptyUpload
	}
	if size > int64(s.cfg.MaxSizeMB)*1024*1024 {
		return nil, ErrFileTooLarge
	}
	ext := filepath.Ext(originalName)
	if !s.allowedType(ext) {
		return nil, ErrFileTypeDenied
	}

	// 按日期分目录存储，单目录文件数不随运行时间膨胀
	dateDir := time.Now().Format("20060102")
	if err := os.MkdirAll(filepath.Join(s.cfg.Dir, dateDir), 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	fileName := dateDir + "/" + uuid.NewString() + strings.ToLower(ext)
	dstPath := filepath.Join(s.cfg.Dir, filepath.FromSlash(fileName))
	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("保存文件失败: %w", err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// 写入中断时不留残缺文件
		os.Remove(dstPath)
		return nil, fmt.Errorf("保存文件失败: %w", err)
	}

	s.logger.Info("附件已上传",
		zap.String("fileName", fileName),
		zap.String("originalName", originalName),
		zap.Int64("size", written))
	return &UploadedFile{
		FileName:     fileName,
		OriginalName: originalName,
		URL:          "/api/files/" + fileName,
		Size:         written,
	}, nil
}

// Resolve 校验文件名并返回磁盘路径
// 只接受本服务生成的「日期目录/uuid 文件名」两段结构，天然排除路径穿越
func (s *fileService) Resolve(fileName string) (string, error) {
	parts := strings.Split(fileName, "/")
	if len(parts) != 2 {
		return "", ErrFileNotFound
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.ContainsAny(p, `\`) {
			return "", ErrFileNotFound
		}
	}
	path := filepath.Join(s.cfg.Dir, parts[0], parts[1])
	if _, err := os.Stat(path); err != nil {
		return "", ErrFileNotFound
	}
	return path, nil
}

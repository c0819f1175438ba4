package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yangjin15/yinzhang/internal/service"
	"github.com/yangjin15/yinzhang/pkg/response"
)

// FileHandler 附件模块 HTTP 处理器
type FileHandler struct {
	fileSvc service.FileService
}

// NewFileHandler 创建 FileHandler
func NewFileHandler(fileSvc service.FileService) *FileHandler {
	return &FileHandler{fileSvc: fileSvc}
}

// Upload 上传附件
// POST /api/files/upload — multipart 字段名 file
func (h *FileHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "上传文件不能为空")
		return
	}
	src, err := fh.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer src.Close()

	uploaded, err := h.fileSvc.Save(fh.Filename, fh.Size, src)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "上传成功", uploaded)
}

// Download 下载附件
// GET /api/files/:dateDir/:fileName
func (h *FileHandler) Download(c *gin.Context) {
	path, err := h.fileSvc.Resolve(c.Param("dateDir") + "/" + c.Param("fileName"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.File(path)
}

func (h *FileHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFileEmptyUpload):
		response.BadRequest(c, "上传文件不能为空")
	case errors.Is(err, service.ErrFileTooLarge):
		response.BadRequest(c, "文件大小超出限制")
	case errors.Is(err, service.ErrFileTypeDenied):
		response.BadRequest(c, "不支持的文件类型")
	case errors.Is(err, service.ErrFileNotFound):
		response.NotFound(c, "文件不存在")
	default:
		response.InternalError(c)
	}
}

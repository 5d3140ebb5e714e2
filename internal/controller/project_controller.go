package controller

import (
	"net/http"

	"skill_extractor_backend/internal/middleware"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/service"
	"skill_extractor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProjectController struct {
	ProjectService *service.ProjectService
}

func NewProjectController(projectService *service.ProjectService) *ProjectController {
	return &ProjectController{ProjectService: projectService}
}

// Upload godoc
// @Summary 上传项目源码并提取技能
// @Description 以 JSON 形式提交源码文件，调用 AI 分析并保存提取出的技能
// @Tags 项目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.ProjectUploadRequest true "项目及文件"
// @Success 200 {object} util.Response{data=model.ProjectUploadResponse}
// @Failure 400 {object} util.ErrorResponse "校验失败"
// @Failure 503 {object} util.ErrorResponse "AI 服务不可用"
// @Router /api/projects/upload [post]
func (c *ProjectController) Upload(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}

	var req model.ProjectUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.ProjectService.Upload(ctx.Request.Context(), user.UserID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// UploadMultipart godoc
// @Summary 以表单上传项目源码
// @Tags 项目
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   projectName formData string true "项目名称"
// @Param   description formData string false "项目描述"
// @Param   files formData file true "源码文件（可多个）"
// @Success 200 {object} util.Response{data=model.ProjectUploadResponse}
// @Failure 400 {object} util.ErrorResponse "校验失败"
// @Failure 503 {object} util.ErrorResponse "AI 服务不可用"
// @Router /api/projects/upload/multipart [post]
func (c *ProjectController) UploadMultipart(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		util.BadRequest(ctx, "Invalid multipart form")
		return
	}

	resp, err := c.ProjectService.UploadMultipart(
		ctx.Request.Context(),
		user.UserID,
		ctx.PostForm("projectName"),
		ctx.PostForm("description"),
		form.File["files"],
	)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// List godoc
// @Summary 当前用户的项目列表
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ProjectResponse}
// @Router /api/projects [get]
func (c *ProjectController) List(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}

	projects, err := c.ProjectService.ListUserProjects(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, projects)
}

// Get godoc
// @Summary 项目详情
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "项目ID"
// @Success 200 {object} util.Response{data=model.ProjectDetailResponse}
// @Failure 404 {object} util.ErrorResponse "项目不存在"
// @Router /api/projects/{id} [get]
func (c *ProjectController) Get(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}
	id, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	project, err := c.ProjectService.GetProject(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, project)
}

// Delete godoc
// @Summary 删除项目
// @Description 删除项目及其技能和测验记录
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "项目ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.ErrorResponse "无权删除"
// @Failure 404 {object} util.ErrorResponse "项目不存在"
// @Router /api/projects/{id} [delete]
func (c *ProjectController) Delete(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}
	id, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.ProjectService.DeleteProject(ctx.Request.Context(), user.UserID, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, util.Response{
		Code:    http.StatusOK,
		Message: "Project deleted successfully",
	})
}

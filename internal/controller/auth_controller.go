package controller

import (
	"skill_extractor_backend/internal/middleware"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/service"
	"skill_extractor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 注册新用户
// @Description 使用用户名、邮箱和密码注册新用户
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body model.RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=model.AuthResponse} "创建成功"
// @Failure 400 {object} util.ErrorResponse "请求参数错误"
// @Failure 409 {object} util.ErrorResponse "用户名或邮箱已存在"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req model.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, model.AuthResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Message:  "User registered successfully",
	})
}

// Login godoc
// @Summary 用户登录
// @Description 校验用户名和密码并签发 JWT
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body model.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=model.AuthResponse} "登录成功"
// @Failure 400 {object} util.ErrorResponse "请求参数错误"
// @Failure 401 {object} util.ErrorResponse "用户名或密码错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req model.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Login(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// Check godoc
// @Summary 检查登录状态
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.AuthResponse}
// @Failure 401 {object} util.ErrorResponse "未认证"
// @Router /api/auth/check [get]
func (c *AuthController) Check(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}
	util.Success(ctx, model.AuthResponse{
		UserID:   user.UserID,
		Username: user.Username,
	})
}

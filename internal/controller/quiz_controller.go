package controller

import (
	"skill_extractor_backend/internal/middleware"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/service"
	"skill_extractor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Generate godoc
// @Summary 为技能生成测验
// @Description 调用 AI 生成选择题，返回 generationId 供提交时使用
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   skillId path int true "技能ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.ErrorResponse "技能不存在"
// @Failure 503 {object} util.ErrorResponse "测验生成失败"
// @Failure 504 {object} util.ErrorResponse "生成超时"
// @Router /api/quiz/generate/{skillId} [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}
	skillID, err := util.ParseID(ctx.Param("skillId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	quiz, err := c.QuizService.GenerateQuiz(ctx.Request.Context(), user.UserID, skillID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Submit godoc
// @Summary 提交测验答案
// @Description 评分、更新技能等级并保存结果
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.QuizSubmitRequest true "答案"
// @Success 200 {object} util.Response{data=model.QuizResultResponse}
// @Failure 400 {object} util.ErrorResponse "请求参数错误"
// @Failure 404 {object} util.ErrorResponse "技能或测验不存在"
// @Failure 409 {object} util.ErrorResponse "测验已提交"
// @Failure 503 {object} util.ErrorResponse "测验生成失败"
// @Router /api/quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}

	var req model.QuizSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), user.UserID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Latest godoc
// @Summary 技能最近一次测验结果
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   skillId path int true "技能ID"
// @Success 200 {object} util.Response{data=model.QuizResultResponse}
// @Failure 404 {object} util.ErrorResponse "无测验记录"
// @Router /api/quiz/results/{skillId} [get]
func (c *QuizController) Latest(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}
	skillID, err := util.ParseID(ctx.Param("skillId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	result, err := c.QuizService.LatestResult(ctx.Request.Context(), user.UserID, skillID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// History godoc
// @Summary 技能测验历史
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   skillId path int true "技能ID"
// @Success 200 {object} util.Response{data=[]model.QuizResultResponse}
// @Failure 404 {object} util.ErrorResponse "技能不存在"
// @Router /api/quiz/results/{skillId}/history [get]
func (c *QuizController) History(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}
	skillID, err := util.ParseID(ctx.Param("skillId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	results, err := c.QuizService.History(ctx.Request.Context(), user.UserID, skillID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

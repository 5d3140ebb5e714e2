package controller

import (
	"strconv"

	"skill_extractor_backend/internal/middleware"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/service"
	"skill_extractor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService *service.SkillAnalysisService
}

func NewSkillController(skillService *service.SkillAnalysisService) *SkillController {
	return &SkillController{SkillService: skillService}
}

// List godoc
// @Summary 当前用户的技能列表
// @Tags 技能
// @Produce  json
// @Security ApiKeyAuth
// @Param   general query bool false "仅返回通用/专项技能"
// @Success 200 {object} util.Response{data=[]model.SkillResponse}
// @Router /api/skills [get]
func (c *SkillController) List(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}

	var (
		skills []model.SkillResponse
		err    error
	)
	if g := ctx.Query("general"); g != "" {
		general, perr := strconv.ParseBool(g)
		if perr != nil {
			util.BadRequest(ctx, "general must be true or false")
			return
		}
		skills, err = c.SkillService.ListUserGeneralSkills(ctx.Request.Context(), user.UserID, general)
	} else {
		skills, err = c.SkillService.ListUserSkills(ctx.Request.Context(), user.UserID)
	}
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, skills)
}

// ListByCategory godoc
// @Summary 按分类查询技能
// @Tags 技能
// @Produce  json
// @Security ApiKeyAuth
// @Param   category path string true "分类名，如 STREAMS_LAMBDAS"
// @Success 200 {object} util.Response{data=[]model.SkillResponse}
// @Failure 400 {object} util.ErrorResponse "未知分类"
// @Router /api/skills/category/{category} [get]
func (c *SkillController) ListByCategory(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}

	skills, err := c.SkillService.ListUserSkillsByCategory(ctx.Request.Context(), user.UserID, ctx.Param("category"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, skills)
}

// Get godoc
// @Summary 技能详情
// @Tags 技能
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "技能ID"
// @Success 200 {object} util.Response{data=model.SkillResponse}
// @Failure 404 {object} util.ErrorResponse "技能不存在"
// @Router /api/skills/{id} [get]
func (c *SkillController) Get(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return
	}
	id, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	skill, err := c.SkillService.GetSkill(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}

// Categories godoc
// @Summary 技能分类目录
// @Tags 技能
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.CategoryInfo}
// @Router /api/skills/categories [get]
func (c *SkillController) Categories(ctx *gin.Context) {
	util.Success(ctx, model.Categories)
}

// Levels godoc
// @Summary 熟练度等级目录
// @Tags 技能
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.LevelResponse}
// @Router /api/skills/levels [get]
func (c *SkillController) Levels(ctx *gin.Context) {
	util.Success(ctx, model.LevelCatalogue())
}

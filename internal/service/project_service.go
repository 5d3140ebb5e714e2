package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync/atomic"

	"skill_extractor_backend/internal/config"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/repository"
	"skill_extractor_backend/internal/util"
	"skill_extractor_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectService struct {
	DB          *gorm.DB
	ProjectRepo *repository.ProjectRepository
	SkillRepo   *repository.SkillRepository
	Analysis    *SkillAnalysisService
	Storage     *StorageService

	limits atomic.Pointer[config.UploadConfig]
}

func NewProjectService(
	db *gorm.DB,
	projectRepo *repository.ProjectRepository,
	skillRepo *repository.SkillRepository,
	analysis *SkillAnalysisService,
	storage *StorageService,
	cfg *config.Config,
) *ProjectService {
	s := &ProjectService{
		DB:          db,
		ProjectRepo: projectRepo,
		SkillRepo:   skillRepo,
		Analysis:    analysis,
		Storage:     storage,
	}
	s.ApplyConfig(cfg)
	return s
}

// ApplyConfig swaps in new upload limits; safe while requests are served.
func (s *ProjectService) ApplyConfig(cfg *config.Config) {
	limits := cfg.Upload
	s.limits.Store(&limits)
}

// Upload validates the files, extracts their skills and stores the project
// with its skills. Nothing is persisted when analysis fails.
func (s *ProjectService) Upload(ctx context.Context, userID uint, req *model.ProjectUploadRequest) (*model.ProjectUploadResponse, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	logger.Log.Info("Analyzing project",
		zap.Uint("userId", userID),
		zap.String("project", req.ProjectName),
		zap.Int("files", len(req.Files)),
	)

	analyzed, err := s.Analysis.Analyze(ctx, req.Files)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		names = append(names, f.Filename)
	}
	project := &model.Project{
		Name:          strings.TrimSpace(req.ProjectName),
		Description:   req.Description,
		AnalyzedFiles: strings.Join(names, ","),
		TotalFiles:    len(req.Files),
		TotalSizeKB:   totalSize(req.Files) / util.BytesPerKB,
		UserID:        userID,
	}

	var skills []model.Skill
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ProjectRepo.WithTx(tx).Create(ctx, project); err != nil {
			return err
		}
		skills = NewSkills(analyzed, project.ID, userID)
		return s.SkillRepo.WithTx(tx).CreateBatch(ctx, skills)
	})
	if err != nil {
		return nil, util.InternalError(err, "Failed to save project")
	}

	s.storeFiles(ctx, userID, project.ID, req.Files)

	for i := range skills {
		skills[i].Project = project
	}

	logger.Log.Info("Project uploaded",
		zap.Uint("projectId", project.ID),
		zap.Int("skills", len(skills)),
	)

	return &model.ProjectUploadResponse{
		Project: model.NewProjectResponse(project),
		Skills:  model.NewSkillResponses(skills),
		Message: "Project uploaded and analyzed successfully",
	}, nil
}

// UploadMultipart reads the uploaded parts as text files and delegates to Upload.
func (s *ProjectService) UploadMultipart(ctx context.Context, userID uint, name, description string, headers []*multipart.FileHeader) (*model.ProjectUploadResponse, error) {
	limits := s.limits.Load()
	if len(headers) > limits.MaxFiles {
		return nil, util.BadRequestError("Maximum %d files allowed", limits.MaxFiles)
	}
	maxBytes := limits.MaxSizeMB * util.BytesPerMB

	var read int64
	files := make([]model.FileData, 0, len(headers))
	for _, h := range headers {
		read += h.Size
		if read > maxBytes {
			return nil, util.BadRequestError("Total file size exceeds %dMB", limits.MaxSizeMB)
		}
		content, err := readPart(h)
		if err != nil {
			return nil, util.BadRequestError("Failed to read file %s", h.Filename)
		}
		files = append(files, model.FileData{
			Filename:  util.SafeFilename(h.Filename),
			Content:   content,
			Extension: util.FileExtension(h.Filename, ""),
		})
	}

	return s.Upload(ctx, userID, &model.ProjectUploadRequest{
		ProjectName: name,
		Description: description,
		Files:       files,
	})
}

// Validate enforces the current upload limits.
func (s *ProjectService) Validate(req *model.ProjectUploadRequest) error {
	limits := s.limits.Load()

	if strings.TrimSpace(req.ProjectName) == "" {
		return util.BadRequestError("Project name is required")
	}
	if len(req.Files) == 0 {
		return util.BadRequestError("No files provided")
	}
	if len(req.Files) > limits.MaxFiles {
		return util.BadRequestError("Maximum %d files allowed", limits.MaxFiles)
	}
	if totalSize(req.Files) > limits.MaxSizeMB*util.BytesPerMB {
		return util.BadRequestError("Total file size exceeds %dMB", limits.MaxSizeMB)
	}
	for _, f := range req.Files {
		if strings.TrimSpace(f.Filename) == "" {
			return util.BadRequestError("File name is required")
		}
		ext := util.FileExtension(f.Filename, f.Extension)
		if !util.ExtensionAllowed(ext, limits.AllowedExtensions) {
			return util.BadRequestError("File type not allowed: %s", f.Filename)
		}
	}
	return nil
}

func (s *ProjectService) ListUserProjects(ctx context.Context, userID uint) ([]model.ProjectResponse, error) {
	projects, err := s.ProjectRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.InternalError(err, "Failed to load projects")
	}
	out := make([]model.ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, model.NewProjectResponse(&projects[i]))
	}
	return out, nil
}

// GetProject returns the project with its skills. Projects of other users
// are reported as missing.
func (s *ProjectService) GetProject(ctx context.Context, userID, projectID uint) (*model.ProjectDetailResponse, error) {
	project, err := s.ProjectRepo.FindByID(ctx, projectID)
	if err != nil || project.UserID != userID {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("Project not found: %d", projectID)
		}
		return nil, util.InternalError(err, "Failed to load project")
	}

	skills, err := s.SkillRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, util.InternalError(err, "Failed to load skills")
	}
	return &model.ProjectDetailResponse{
		ProjectResponse: model.NewProjectResponse(project),
		Skills:          model.NewSkillResponses(skills),
	}, nil
}

// DeleteProject removes the project, its skills and their quiz history.
func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID uint) error {
	project, err := s.ProjectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("Project not found: %d", projectID)
		}
		return util.InternalError(err, "Failed to load project")
	}
	if project.UserID != userID {
		return util.ForbiddenError("Unauthorized to delete this project")
	}

	if err := s.ProjectRepo.Delete(ctx, project.ID); err != nil {
		return util.InternalError(err, "Failed to delete project")
	}

	if s.Storage != nil {
		if err := s.Storage.DeleteProjectFiles(ctx, userID, project.ID); err != nil {
			logger.Log.Warn("Failed to delete project files", zap.Uint("projectId", project.ID), zap.Error(err))
		}
	}

	logger.Log.Info("Project deleted", zap.Uint("projectId", project.ID), zap.Uint("userId", userID))
	return nil
}

// storeFiles archives the sources; failures are logged, the analysis stands.
func (s *ProjectService) storeFiles(ctx context.Context, userID, projectID uint, files []model.FileData) {
	if s.Storage == nil {
		return
	}
	for _, f := range files {
		r := strings.NewReader(f.Content)
		if err := s.Storage.SaveProjectFile(ctx, userID, projectID, f.Filename, r, r.Size()); err != nil {
			logger.Log.Warn("Failed to store project file",
				zap.Uint("projectId", projectID),
				zap.String("file", f.Filename),
				zap.Error(err),
			)
		}
	}
}

func totalSize(files []model.FileData) int64 {
	var n int64
	for _, f := range files {
		n += int64(len(f.Content))
	}
	return n
}

func readPart(h *multipart.FileHeader) (string, error) {
	f, err := h.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", h.Filename, err)
	}
	return string(b), nil
}

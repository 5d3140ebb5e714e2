package model

import (
	"strings"
	"time"
)

// Project 一次上传分析的源码集合
type Project struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Description   string    `gorm:"size:500" json:"description"`
	UploadedAt    time.Time `gorm:"autoCreateTime;not null;index" json:"uploadedAt"`
	AnalyzedFiles string    `gorm:"type:text" json:"analyzedFiles"`
	TotalFiles    int       `json:"totalFiles"`
	TotalSizeKB   int64     `gorm:"column:total_size_kb" json:"totalSizeKb"`
	UserID        uint      `gorm:"index;not null" json:"userId"`
}

func (Project) TableName() string {
	return "projects"
}

// FileNames splits AnalyzedFiles back into the uploaded file names.
func (p *Project) FileNames() []string {
	if p.AnalyzedFiles == "" {
		return nil
	}
	return strings.Split(p.AnalyzedFiles, ",")
}
